package service

import (
	"context"
	"log/slog"
	"time"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/transfer"
	"github.com/getmyagent/marketing-api/pkg/utils"
)

type PublishService interface {
	PublishToInstagram(ctx context.Context, userID int64, accountID string, postID int64, caption, imageURL string) (*transfer.PublishResult, error)
	PublishToFacebook(ctx context.Context, userID int64, pageID string, postID int64, message, imageURL string) (*transfer.PublishResult, error)
}

type publishService struct {
	cfg   config.Config
	graph GraphClient
	ma    repository.MetaAccountRepository
	cp    repository.ContentPostRepository
}

func NewPublishService(cfg config.Config, graph GraphClient, ma repository.MetaAccountRepository, cp repository.ContentPostRepository) PublishService {
	return &publishService{
		cfg:   cfg,
		graph: graph,
		ma:    ma,
		cp:    cp,
	}
}

func (s *publishService) PublishToInstagram(ctx context.Context, userID int64, accountID string, postID int64, caption, imageURL string) (*transfer.PublishResult, error) {
	accessToken, err := s.accountToken(ctx, userID, accountID, models.AccountTypeInstagramBusiness)
	if err != nil {
		return nil, err
	}

	remoteID, err := s.graph.PublishToInstagram(ctx, accountID, accessToken, caption, imageURL)
	if err != nil {
		return nil, err
	}

	s.markPublished(ctx, postID)

	return &transfer.PublishResult{Success: true, PostID: remoteID}, nil
}

func (s *publishService) PublishToFacebook(ctx context.Context, userID int64, pageID string, postID int64, message, imageURL string) (*transfer.PublishResult, error) {
	accessToken, err := s.accountToken(ctx, userID, pageID, models.AccountTypeFacebookPage)
	if err != nil {
		return nil, err
	}

	remoteID, err := s.graph.PublishToFacebookPage(ctx, pageID, accessToken, message, imageURL)
	if err != nil {
		return nil, err
	}

	s.markPublished(ctx, postID)

	return &transfer.PublishResult{Success: true, PostID: remoteID}, nil
}

// accountToken resolves the caller's active account of the expected
// type and returns its decrypted token. Publishing must never use a
// token the store does not tie to the caller.
func (s *publishService) accountToken(ctx context.Context, userID int64, accountID, accountType string) (string, error) {
	account, err := s.ma.GetByAccountID(ctx, userID, accountID)
	if err != nil {
		return "", err
	}

	if account == nil || account.AccountType != accountType {
		return "", ErrNotFound
	}

	return utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
}

// markPublished is best-effort: the remote post already exists, so a
// failed local update only leaves the row stale.
func (s *publishService) markPublished(ctx context.Context, postID int64) {
	if err := s.cp.MarkPublished(ctx, postID, time.Now()); err != nil {
		slog.Info("failed to mark post published", "post_id", postID, "error", err.Error())
	}
}
