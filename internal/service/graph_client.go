package service

import (
	"context"

	"github.com/getmyagent/marketing-api/internal/graph"
)

// GraphClient is the slice of the Meta Graph API this package needs.
// *graph.Client satisfies it; tests substitute fakes.
type GraphClient interface {
	BuildAuthorizationURL(state string) string
	ExchangeCodeForToken(ctx context.Context, code string) (*graph.TokenResponse, error)
	FetchAuthenticatedUser(ctx context.Context, accessToken string) (*graph.MetaUser, error)
	DiscoverInstagramAccounts(ctx context.Context, accessToken string) ([]graph.InstagramAccount, error)
	DiscoverFacebookPages(ctx context.Context, accessToken string) ([]graph.FacebookPage, error)
	PublishToInstagram(ctx context.Context, accountID, accessToken, caption, imageURL string) (string, error)
	PublishToFacebookPage(ctx context.Context, pageID, accessToken, message, imageURL string) (string, error)
	ValidateAccessToken(ctx context.Context, accessToken string) bool
}
