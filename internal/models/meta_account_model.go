package models

import "time"

// MetaAccount is a linked Instagram business account or Facebook page.
// Rows are never hard-deleted; disconnecting flips is_active off so the
// provider-side link history stays intact.
type MetaAccount struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	AccountType string     `db:"account_type" json:"account_type"`
	AccountID   string     `db:"account_id" json:"account_id"`
	AccountName string     `db:"account_name" json:"account_name"`
	AccessToken string     `db:"access_token" json:"-"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at"`
	IsActive    bool       `db:"is_active" json:"is_active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	AccountTypeInstagramBusiness = "instagram_business"
	AccountTypeFacebookPage      = "facebook_page"
)
