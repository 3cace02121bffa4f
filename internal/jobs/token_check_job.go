package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/service"
	"github.com/getmyagent/marketing-api/pkg/utils"
)

// TokenCheckJob sweeps accounts whose token is past or near expiry and
// deactivates the ones the provider no longer accepts. Meta long-lived
// tokens cannot be refreshed from here, so a dead token means the user
// has to re-link.
type TokenCheckJob struct {
	cfg   config.Config
	ma    repository.MetaAccountRepository
	graph service.GraphClient
}

func NewTokenCheckJob(cfg config.Config, ma repository.MetaAccountRepository, graph service.GraphClient) *TokenCheckJob {
	return &TokenCheckJob{
		cfg:   cfg,
		ma:    ma,
		graph: graph,
	}
}

func (j *TokenCheckJob) CheckTokens() {
	ctx := context.Background()

	cutoff := time.Now().Add(time.Hour)

	accounts, err := j.ma.ListExpiring(ctx, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.MetaAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			accessToken, err := utils.Decrypt(acc.AccessToken, []byte(j.cfg.SecretKey))
			if err != nil {
				slog.Info("unable to decrypt token", "account_id", acc.AccountID)
				return
			}

			if j.graph.ValidateAccessToken(ctx, accessToken) {
				return
			}

			if _, err := j.ma.Deactivate(ctx, acc.UserID, acc.AccountID); err != nil {
				slog.Info("unable to deactivate account", "account_id", acc.AccountID)
			}
		}(acc)
	}

	wg.Wait()
}
