package models

import "time"

type ContentPost struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	TemplateID  *int64     `db:"template_id" json:"template_id"`
	Title       string     `db:"title" json:"title"`
	Content     string     `db:"content" json:"content"`
	Platform    string     `db:"platform" json:"platform"`
	Language    string     `db:"language" json:"language"`
	Status      string     `db:"status" json:"status"`
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
	Hashtags    string     `db:"hashtags" json:"hashtags"`
	MediaURL    string     `db:"media_url" json:"media_url"`
	Engagement  int        `db:"engagement" json:"engagement"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type ContentTemplate struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	PillarType  string    `db:"pillar_type" json:"pillar_type"`
	Platform    string    `db:"platform" json:"platform"`
	Language    string    `db:"language" json:"language"`
	Prompt      string    `db:"prompt" json:"prompt"`
	Description string    `db:"description" json:"description"`
	IsPublic    bool      `db:"is_public" json:"is_public"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusDraft     = "draft"
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformWhatsapp  = "whatsapp"
)
