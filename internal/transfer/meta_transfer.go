package transfer

// CallbackResult summarizes one OAuth callback: how many accounts of
// each type were discovered and stored.
type CallbackResult struct {
	Success           bool `json:"success"`
	InstagramAccounts int  `json:"instagram_accounts"`
	FacebookPages     int  `json:"facebook_pages"`
}

type PublishInstagramRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	PostID    int64  `json:"post_id" validate:"required"`
	Caption   string `json:"caption" validate:"required"`
	ImageURL  string `json:"image_url"`
}

type PublishFacebookRequest struct {
	PageID   string `json:"page_id" validate:"required"`
	PostID   int64  `json:"post_id" validate:"required"`
	Message  string `json:"message" validate:"required"`
	ImageURL string `json:"image_url"`
}

type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id"`
}

type DisconnectRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}
