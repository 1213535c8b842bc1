package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for SFTP accounts.
type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, account Account) (Account, error)
	SoftDelete(ctx context.Context, username string) error
}

// UserSpec is one desired-state entry from the provisioning manifest:
// a username plus the ordered list of its public keys in authorized-keys
// text format. Key order determines credential indices.
type UserSpec struct {
	Username      string   `yaml:"username" json:"username"`
	SSHPublicKeys []string `yaml:"ssh_public_keys" json:"ssh_public_keys"`
}

// Account represents a provisioned SFTP account.
type Account struct {
	ID        uuid.UUID
	Username  string
	HomeDir   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
