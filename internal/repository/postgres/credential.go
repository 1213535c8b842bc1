package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/sftp-provisioner/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

type CredentialRepository struct {
	db *Connection
}

func NewCredentialRepository(db *Connection) *CredentialRepository {
	return &CredentialRepository{
		db: db,
	}
}

func (r *CredentialRepository) GetByCompositeID(ctx context.Context, compositeID string) (model.Credential, error) {
	var credential model.Credential
	query := `SELECT id, account_id, composite_id, username, public_key, fingerprint, key_index,
			         created_at, updated_at, deleted_at
			  FROM credentials WHERE composite_id = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, compositeID).Scan(
		&credential.ID, &credential.AccountID, &credential.CompositeID, &credential.Username,
		&credential.PublicKey, &credential.Fingerprint, &credential.KeyIndex,
		&credential.CreatedAt, &credential.UpdatedAt, &credential.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Credential{}, model.ErrNotFound
		}
		return model.Credential{}, fmt.Errorf("failed to get credential by composite id: %w", err)
	}

	return credential, nil
}

func (r *CredentialRepository) List(ctx context.Context) ([]model.Credential, error) {
	query := `SELECT id, account_id, composite_id, username, public_key, fingerprint, key_index,
			         created_at, updated_at, deleted_at
			  FROM credentials WHERE deleted_at IS NULL
			  ORDER BY username ASC, key_index ASC`

	return r.queryCredentials(ctx, query)
}

func (r *CredentialRepository) ListByUsername(ctx context.Context, username string) ([]model.Credential, error) {
	query := `SELECT id, account_id, composite_id, username, public_key, fingerprint, key_index,
			         created_at, updated_at, deleted_at
			  FROM credentials WHERE username = $1 AND deleted_at IS NULL
			  ORDER BY key_index ASC`

	return r.queryCredentials(ctx, query, username)
}

func (r *CredentialRepository) Create(ctx context.Context, credential model.Credential) (model.Credential, error) {
	query := `INSERT INTO credentials (id, account_id, composite_id, username, public_key, fingerprint, key_index)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, account_id, composite_id, username, public_key, fingerprint, key_index,
			            created_at, updated_at, deleted_at`

	var saved model.Credential
	err := r.db.QueryRow(ctx, query,
		credential.ID, credential.AccountID, credential.CompositeID, credential.Username,
		credential.PublicKey, credential.Fingerprint, credential.KeyIndex,
	).Scan(
		&saved.ID, &saved.AccountID, &saved.CompositeID, &saved.Username,
		&saved.PublicKey, &saved.Fingerprint, &saved.KeyIndex,
		&saved.CreatedAt, &saved.UpdatedAt, &saved.DeletedAt,
	)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to create credential: %w", err)
	}

	return saved, nil
}

func (r *CredentialRepository) SoftDelete(ctx context.Context, compositeID string) error {
	const query = `UPDATE credentials SET deleted_at = NOW(), updated_at = NOW()
				   WHERE composite_id = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, compositeID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) queryCredentials(ctx context.Context, query string, args ...any) ([]model.Credential, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer rows.Close()

	var credentials []model.Credential
	for rows.Next() {
		var credential model.Credential
		err := rows.Scan(
			&credential.ID, &credential.AccountID, &credential.CompositeID, &credential.Username,
			&credential.PublicKey, &credential.Fingerprint, &credential.KeyIndex,
			&credential.CreatedAt, &credential.UpdatedAt, &credential.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credentials, nil
}
