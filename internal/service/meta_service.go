package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/transfer"
	"github.com/getmyagent/marketing-api/pkg/utils"
)

type MetaService interface {
	GetOAuthURL(state string) string
	HandleOAuthCallback(ctx context.Context, userID int64, code string) (*transfer.CallbackResult, error)
	ListAccounts(ctx context.Context, userID int64) ([]*models.MetaAccount, error)
	DisconnectAccount(ctx context.Context, userID int64, accountID string) error
}

type metaService struct {
	cfg   config.Config
	graph GraphClient
	ma    repository.MetaAccountRepository
}

func NewMetaService(cfg config.Config, graph GraphClient, ma repository.MetaAccountRepository) MetaService {
	return &metaService{
		cfg:   cfg,
		graph: graph,
		ma:    ma,
	}
}

func (s *metaService) GetOAuthURL(state string) string {
	return s.graph.BuildAuthorizationURL(state)
}

// HandleOAuthCallback exchanges the code, discovers the user's
// Instagram accounts and Facebook pages, and upserts them in one
// transaction. Token exchange failure aborts the whole flow; a failed
// discovery is recorded and treated as zero accounts of that type.
func (s *metaService) HandleOAuthCallback(ctx context.Context, userID int64, code string) (*transfer.CallbackResult, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return nil, err
	}

	if userID == 0 {
		err := errors.New("user not found")
		slog.Info(err.Error())
		return nil, err
	}

	token, err := s.graph.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}

	if _, err := s.graph.FetchAuthenticatedUser(ctx, token.AccessToken); err != nil {
		return nil, err
	}

	igAccounts, err := s.graph.DiscoverInstagramAccounts(ctx, token.AccessToken)
	if err != nil {
		slog.Info("instagram discovery failed, continuing", "error", err.Error())
		igAccounts = nil
	}

	pages, err := s.graph.DiscoverFacebookPages(ctx, token.AccessToken)
	if err != nil {
		slog.Info("facebook page discovery failed, continuing", "error", err.Error())
		pages = nil
	}

	var expiresAt *time.Time
	if token.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	var accounts []*models.MetaAccount

	for _, acc := range igAccounts {
		name := acc.Username
		if name == "" {
			name = acc.Name
		}

		encryptedToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, &models.MetaAccount{
			UserID:      userID,
			AccountType: models.AccountTypeInstagramBusiness,
			AccountID:   acc.ID,
			AccountName: name,
			AccessToken: encryptedToken,
			ExpiresAt:   expiresAt,
		})
	}

	for _, page := range pages {
		// Pages carry their own token with no reported expiry.
		encryptedToken, err := utils.Encrypt([]byte(page.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, &models.MetaAccount{
			UserID:      userID,
			AccountType: models.AccountTypeFacebookPage,
			AccountID:   page.ID,
			AccountName: page.Name,
			AccessToken: encryptedToken,
		})
	}

	if err := s.ma.UpsertBatch(ctx, accounts); err != nil {
		return nil, err
	}

	return &transfer.CallbackResult{
		Success:           true,
		InstagramAccounts: len(igAccounts),
		FacebookPages:     len(pages),
	}, nil
}

func (s *metaService) ListAccounts(ctx context.Context, userID int64) ([]*models.MetaAccount, error) {
	if userID == 0 {
		err := errors.New("user id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	return s.ma.ListActiveByUserID(ctx, userID)
}

func (s *metaService) DisconnectAccount(ctx context.Context, userID int64, accountID string) error {
	if accountID == "" {
		err := errors.New("account id is not valid")
		slog.Info(err.Error())
		return err
	}

	affected, err := s.ma.Deactivate(ctx, userID, accountID)
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
