package model

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// CredentialStore defines persistence operations for account credentials.
type CredentialStore interface {
	GetByCompositeID(ctx context.Context, compositeID string) (Credential, error)
	List(ctx context.Context) ([]Credential, error)
	ListByUsername(ctx context.Context, username string) ([]Credential, error)
	Create(ctx context.Context, credential Credential) (Credential, error)
	SoftDelete(ctx context.Context, compositeID string) error
}

// FlatKey is one public key lifted out of its owner's key list.
// Index is the position of the first occurrence of the key string within
// the owner's list, so two equal strings in one list share an index.
type FlatKey struct {
	Username     string `json:"username"`
	SSHPublicKey string `json:"ssh_public_key"`
	Index        int    `json:"index"`
}

// CompositeID returns the stable identity of the key, "username-index".
// The identity is positional: removing or reordering a key inside a user's
// list changes the IDs of that key and its successors, which replaces the
// corresponding credentials on the next apply.
func (k FlatKey) CompositeID() string {
	return k.Username + "-" + strconv.Itoa(k.Index)
}

// Credential represents a provisioned public key attached to an account.
type Credential struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	CompositeID string
	Username    string
	PublicKey   string
	Fingerprint string
	KeyIndex    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
