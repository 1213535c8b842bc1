package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/keyfleet/sftp-provisioner/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	var account model.Account
	query := `SELECT id, username, home_dir, created_at, updated_at, deleted_at
			  FROM accounts WHERE username = $1 AND deleted_at IS NULL`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&account.ID, &account.Username, &account.HomeDir,
		&account.CreatedAt, &account.UpdatedAt, &account.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by username: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]model.Account, error) {
	query := `SELECT id, username, home_dir, created_at, updated_at, deleted_at
			  FROM accounts WHERE deleted_at IS NULL
			  ORDER BY username ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		err := rows.Scan(
			&account.ID, &account.Username, &account.HomeDir,
			&account.CreatedAt, &account.UpdatedAt, &account.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, username, home_dir)
			  VALUES ($1, $2, $3)
			  RETURNING id, username, home_dir, created_at, updated_at, deleted_at`

	var saved model.Account
	err := r.db.QueryRow(ctx, query,
		account.ID, account.Username, account.HomeDir,
	).Scan(
		&saved.ID, &saved.Username, &saved.HomeDir,
		&saved.CreatedAt, &saved.UpdatedAt, &saved.DeletedAt,
	)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func (r *AccountRepository) SoftDelete(ctx context.Context, username string) error {
	const query = `UPDATE accounts SET deleted_at = NOW(), updated_at = NOW()
				   WHERE username = $1 AND deleted_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, username)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
