package transfer

import "time"

type GeneratePostRequest struct {
	PillarType   string `json:"pillar_type" validate:"required,oneof=desi_business_owner five_minute_transformation roi_calculator"`
	Platform     string `json:"platform" validate:"required,oneof=facebook instagram whatsapp"`
	Language     string `json:"language" validate:"omitempty,oneof=hinglish hindi english tamil telugu bengali"`
	CustomPrompt string `json:"custom_prompt"`
	TemplateID   int64  `json:"template_id"`
}

type GeneratedPost struct {
	Content    string `json:"content"`
	Hashtags   string `json:"hashtags"`
	Platform   string `json:"platform"`
	Language   string `json:"language"`
	PillarType string `json:"pillar_type"`
}

type SavePostRequest struct {
	Title       string     `json:"title" validate:"required"`
	Content     string     `json:"content" validate:"required"`
	Platform    string     `json:"platform" validate:"required,oneof=facebook instagram whatsapp"`
	Language    string     `json:"language" validate:"required"`
	Hashtags    string     `json:"hashtags"`
	MediaURL    string     `json:"media_url"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type SchedulePostRequest struct {
	PostID      int64     `json:"post_id" validate:"required"`
	AccountID   string    `json:"account_id" validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

type SaveTemplateRequest struct {
	Title       string `json:"title" validate:"required"`
	PillarType  string `json:"pillar_type" validate:"required,oneof=desi_business_owner five_minute_transformation roi_calculator"`
	Platform    string `json:"platform" validate:"required,oneof=facebook instagram whatsapp all"`
	Language    string `json:"language" validate:"required,oneof=hinglish hindi english tamil telugu bengali"`
	Prompt      string `json:"prompt" validate:"required"`
	Description string `json:"description"`
}
