package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/getmyagent/marketing-api/internal/graph"
	"github.com/getmyagent/marketing-api/internal/models"
)

// 32 bytes, AES-256.
const testSecretKey = "0123456789abcdef0123456789abcdef"

type fakeGraphClient struct {
	token       *graph.TokenResponse
	exchangeErr error

	igAccounts []graph.InstagramAccount
	igErr      error
	pages      []graph.FacebookPage
	pagesErr   error

	publishIGFn func(accountID, accessToken, caption, imageURL string) (string, error)
	publishFBFn func(pageID, accessToken, message, imageURL string) (string, error)

	igPublishCalls int
	fbPublishCalls int
	tokenValid     bool
}

func (f *fakeGraphClient) BuildAuthorizationURL(state string) string {
	return "https://www.facebook.com/v18.0/dialog/oauth?state=" + state
}

func (f *fakeGraphClient) ExchangeCodeForToken(ctx context.Context, code string) (*graph.TokenResponse, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	if f.token != nil {
		return f.token, nil
	}
	return &graph.TokenResponse{AccessToken: "user-token", ExpiresIn: 3600}, nil
}

func (f *fakeGraphClient) FetchAuthenticatedUser(ctx context.Context, accessToken string) (*graph.MetaUser, error) {
	return &graph.MetaUser{ID: "meta-user-1", Name: "Test User"}, nil
}

func (f *fakeGraphClient) DiscoverInstagramAccounts(ctx context.Context, accessToken string) ([]graph.InstagramAccount, error) {
	if f.igErr != nil {
		return nil, f.igErr
	}
	return f.igAccounts, nil
}

func (f *fakeGraphClient) DiscoverFacebookPages(ctx context.Context, accessToken string) ([]graph.FacebookPage, error) {
	if f.pagesErr != nil {
		return nil, f.pagesErr
	}
	return f.pages, nil
}

func (f *fakeGraphClient) PublishToInstagram(ctx context.Context, accountID, accessToken, caption, imageURL string) (string, error) {
	f.igPublishCalls++
	if f.publishIGFn != nil {
		return f.publishIGFn(accountID, accessToken, caption, imageURL)
	}
	return "remote-ig-1", nil
}

func (f *fakeGraphClient) PublishToFacebookPage(ctx context.Context, pageID, accessToken, message, imageURL string) (string, error) {
	f.fbPublishCalls++
	if f.publishFBFn != nil {
		return f.publishFBFn(pageID, accessToken, message, imageURL)
	}
	return "remote-fb-1", nil
}

func (f *fakeGraphClient) ValidateAccessToken(ctx context.Context, accessToken string) bool {
	return f.tokenValid
}

// fakeMetaAccountRepo mirrors the store's upsert key (user_id, account_id)
// and its is_active filtering so service tests see realistic rows.
type fakeMetaAccountRepo struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[string]*models.MetaAccount
}

func newFakeMetaAccountRepo() *fakeMetaAccountRepo {
	return &fakeMetaAccountRepo{accounts: make(map[string]*models.MetaAccount)}
}

func metaAccountKey(userID int64, accountID string) string {
	return fmt.Sprintf("%d|%s", userID, accountID)
}

func (f *fakeMetaAccountRepo) Upsert(ctx context.Context, tx *sql.Tx, ma *models.MetaAccount) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upsertLocked(ma)
}

func (f *fakeMetaAccountRepo) upsertLocked(ma *models.MetaAccount) (int64, error) {
	key := metaAccountKey(ma.UserID, ma.AccountID)

	if existing, ok := f.accounts[key]; ok {
		existing.AccountType = ma.AccountType
		existing.AccountName = ma.AccountName
		existing.AccessToken = ma.AccessToken
		existing.ExpiresAt = ma.ExpiresAt
		existing.IsActive = true
		existing.UpdatedAt = time.Now()
		return existing.ID, nil
	}

	f.nextID++
	stored := *ma
	stored.ID = f.nextID
	stored.IsActive = true
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.accounts[key] = &stored
	return stored.ID, nil
}

func (f *fakeMetaAccountRepo) UpsertBatch(ctx context.Context, accounts []*models.MetaAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ma := range accounts {
		if _, err := f.upsertLocked(ma); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMetaAccountRepo) GetByAccountID(ctx context.Context, userID int64, accountID string) (*models.MetaAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ma, ok := f.accounts[metaAccountKey(userID, accountID)]
	if !ok || !ma.IsActive {
		return nil, nil
	}
	copied := *ma
	return &copied, nil
}

func (f *fakeMetaAccountRepo) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.MetaAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var accounts []*models.MetaAccount
	for _, ma := range f.accounts {
		if ma.UserID == userID && ma.IsActive {
			copied := *ma
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (f *fakeMetaAccountRepo) ListExpiring(ctx context.Context, cutoff time.Time) ([]*models.MetaAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var accounts []*models.MetaAccount
	for _, ma := range f.accounts {
		if ma.IsActive && ma.ExpiresAt != nil && ma.ExpiresAt.Before(cutoff) {
			copied := *ma
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (f *fakeMetaAccountRepo) Deactivate(ctx context.Context, userID int64, accountID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ma, ok := f.accounts[metaAccountKey(userID, accountID)]
	if !ok || !ma.IsActive {
		return 0, nil
	}
	ma.IsActive = false
	return 1, nil
}

type fakeContentPostRepo struct {
	mu     sync.Mutex
	nextID int64
	posts  map[int64]*models.ContentPost

	markPublishedErr error
}

func newFakeContentPostRepo() *fakeContentPostRepo {
	return &fakeContentPostRepo{posts: make(map[int64]*models.ContentPost)}
}

func (f *fakeContentPostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.ContentPost) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *post
	stored.ID = f.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.posts[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeContentPostRepo) GetByID(ctx context.Context, id int64) (*models.ContentPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (f *fakeContentPostRepo) ListByUserID(ctx context.Context, userID int64, status string) ([]*models.ContentPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var posts []*models.ContentPost
	for _, post := range f.posts {
		if post.UserID != userID {
			continue
		}
		if status != "" && post.Status != status {
			continue
		}
		copied := *post
		posts = append(posts, &copied)
	}
	return posts, nil
}

func (f *fakeContentPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	return ok && post.UserID == userID, nil
}

func (f *fakeContentPostRepo) MarkPublished(ctx context.Context, postID int64, publishedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markPublishedErr != nil {
		return f.markPublishedErr
	}

	post, ok := f.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	post.Status = models.PostStatusPublished
	post.PublishedAt = &publishedAt
	post.UpdatedAt = time.Now()
	return nil
}

func (f *fakeContentPostRepo) SetScheduled(ctx context.Context, postID int64, scheduledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	post.Status = models.PostStatusScheduled
	post.ScheduledAt = &scheduledAt
	post.UpdatedAt = time.Now()
	return nil
}

func (f *fakeContentPostRepo) UpdateStatus(ctx context.Context, status string, postID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post, ok := f.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	post.Status = status
	post.UpdatedAt = time.Now()
	return nil
}

type fakeContentTemplateRepo struct {
	mu        sync.Mutex
	nextID    int64
	templates map[int64]*models.ContentTemplate
}

func newFakeContentTemplateRepo() *fakeContentTemplateRepo {
	return &fakeContentTemplateRepo{templates: make(map[int64]*models.ContentTemplate)}
}

func (f *fakeContentTemplateRepo) Create(ctx context.Context, template *models.ContentTemplate) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	stored := *template
	stored.ID = f.nextID
	f.templates[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeContentTemplateRepo) GetByID(ctx context.Context, id int64) (*models.ContentTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	template, ok := f.templates[id]
	if !ok {
		return nil, nil
	}
	copied := *template
	return &copied, nil
}

func (f *fakeContentTemplateRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ContentTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var templates []*models.ContentTemplate
	for _, template := range f.templates {
		if template.UserID == userID || template.IsPublic {
			copied := *template
			templates = append(templates, &copied)
		}
	}
	return templates, nil
}

type fakeTextGenerator struct {
	response string
	err      error

	lastSystemPrompt string
	lastUserPrompt   string
}

func (f *fakeTextGenerator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.lastSystemPrompt = systemPrompt
	f.lastUserPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
