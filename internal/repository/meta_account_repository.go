package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/getmyagent/marketing-api/internal/models"
)

type MetaAccountRepository interface {
	Upsert(ctx context.Context, tx *sql.Tx, ma *models.MetaAccount) (int64, error)
	UpsertBatch(ctx context.Context, accounts []*models.MetaAccount) error
	GetByAccountID(ctx context.Context, userID int64, accountID string) (*models.MetaAccount, error)
	ListActiveByUserID(ctx context.Context, userID int64) ([]*models.MetaAccount, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.MetaAccount, error)
	Deactivate(ctx context.Context, userID int64, accountID string) (int64, error)
}

type metaAccountRepository struct {
	db *sql.DB
}

func NewMetaAccountRepository(db *sql.DB) MetaAccountRepository {
	return &metaAccountRepository{db: db}
}

// Upsert inserts or refreshes a linked account keyed on
// (user_id, account_id). Re-linking a disconnected account reactivates it.
func (r *metaAccountRepository) Upsert(ctx context.Context, tx *sql.Tx, ma *models.MetaAccount) (int64, error) {
	query := `
		INSERT INTO meta_accounts (user_id, account_type, account_id, account_name, access_token, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, account_id) DO UPDATE
		SET account_type = EXCLUDED.account_type,
			account_name = EXCLUDED.account_name,
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			is_active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var err error
	var id int64

	if tx != nil {
		err = tx.QueryRowContext(ctx, query,
			ma.UserID, ma.AccountType, ma.AccountID, ma.AccountName, ma.AccessToken, ma.ExpiresAt,
		).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query,
			ma.UserID, ma.AccountType, ma.AccountID, ma.AccountName, ma.AccessToken, ma.ExpiresAt,
		).Scan(&id)
	}

	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// UpsertBatch writes one callback's discovered accounts in a single
// transaction so concurrent callbacks for the same user cannot
// interleave partial updates.
func (r *metaAccountRepository) UpsertBatch(ctx context.Context, accounts []*models.MetaAccount) error {
	if len(accounts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	for _, ma := range accounts {
		if _, err := r.Upsert(ctx, tx, ma); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *metaAccountRepository) GetByAccountID(ctx context.Context, userID int64, accountID string) (*models.MetaAccount, error) {
	query := `
		SELECT id, user_id, account_type, account_id, account_name, access_token, expires_at, is_active, created_at, updated_at
		FROM meta_accounts
		WHERE user_id = $1 AND account_id = $2 AND is_active = TRUE
	`
	row := r.db.QueryRowContext(ctx, query, userID, accountID)

	var ma models.MetaAccount
	err := row.Scan(&ma.ID, &ma.UserID, &ma.AccountType, &ma.AccountID, &ma.AccountName,
		&ma.AccessToken, &ma.ExpiresAt, &ma.IsActive, &ma.CreatedAt, &ma.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ma, nil
}

func (r *metaAccountRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.MetaAccount, error) {
	query := `
		SELECT id, user_id, account_type, account_id, account_name, access_token, expires_at, is_active, created_at, updated_at
		FROM meta_accounts
		WHERE user_id = $1 AND is_active = TRUE
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.MetaAccount
	for rows.Next() {
		var ma models.MetaAccount
		err := rows.Scan(&ma.ID, &ma.UserID, &ma.AccountType, &ma.AccountID, &ma.AccountName,
			&ma.AccessToken, &ma.ExpiresAt, &ma.IsActive, &ma.CreatedAt, &ma.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &ma)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *metaAccountRepository) ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.MetaAccount, error) {
	query := `
		SELECT id, user_id, account_type, account_id, account_name, access_token, expires_at, is_active, created_at, updated_at
		FROM meta_accounts
		WHERE is_active = TRUE AND expires_at IS NOT NULL AND expires_at < $1
	`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.MetaAccount
	for rows.Next() {
		var ma models.MetaAccount
		err := rows.Scan(&ma.ID, &ma.UserID, &ma.AccountType, &ma.AccountID, &ma.AccountName,
			&ma.AccessToken, &ma.ExpiresAt, &ma.IsActive, &ma.CreatedAt, &ma.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &ma)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return accounts, nil
}

func (r *metaAccountRepository) Deactivate(ctx context.Context, userID int64, accountID string) (int64, error) {
	query := `
		UPDATE meta_accounts
		SET is_active = FALSE,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND account_id = $2 AND is_active = TRUE
	`
	result, err := r.db.ExecContext(ctx, query, userID, accountID)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return affected, nil
}
