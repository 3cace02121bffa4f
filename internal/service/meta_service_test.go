package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/graph"
	"github.com/getmyagent/marketing-api/internal/models"
	"github.com/getmyagent/marketing-api/pkg/utils"
)

func newMetaService(gc *fakeGraphClient, repo *fakeMetaAccountRepo) MetaService {
	cfg := config.Config{SecretKey: testSecretKey}
	return NewMetaService(cfg, gc, repo)
}

func TestHandleOAuthCallbackStoresDiscoveredAccounts(t *testing.T) {
	gc := &fakeGraphClient{
		igAccounts: []graph.InstagramAccount{
			{ID: "ig-1", Username: "getmyagent"},
			{ID: "ig-2", Name: "Fallback Name"},
		},
		pages: []graph.FacebookPage{
			{ID: "page-1", Name: "GetMyAgent Official", AccessToken: "page-token"},
		},
	}
	repo := newFakeMetaAccountRepo()
	s := newMetaService(gc, repo)

	result, err := s.HandleOAuthCallback(context.Background(), 1, "auth-code")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.InstagramAccounts)
	assert.Equal(t, 1, result.FacebookPages)

	accounts, err := repo.ListActiveByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	byID := make(map[string]*models.MetaAccount)
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
		assert.True(t, acc.IsActive)
	}

	require.Contains(t, byID, "ig-1")
	assert.Equal(t, models.AccountTypeInstagramBusiness, byID["ig-1"].AccountType)
	assert.Equal(t, "getmyagent", byID["ig-1"].AccountName)
	require.NotNil(t, byID["ig-1"].ExpiresAt)

	// Username missing, display name used instead.
	require.Contains(t, byID, "ig-2")
	assert.Equal(t, "Fallback Name", byID["ig-2"].AccountName)

	require.Contains(t, byID, "page-1")
	assert.Equal(t, models.AccountTypeFacebookPage, byID["page-1"].AccountType)
	assert.Nil(t, byID["page-1"].ExpiresAt)
}

func TestHandleOAuthCallbackEncryptsTokensAtRest(t *testing.T) {
	gc := &fakeGraphClient{
		pages: []graph.FacebookPage{
			{ID: "page-1", Name: "Page", AccessToken: "page-token"},
		},
	}
	repo := newFakeMetaAccountRepo()
	s := newMetaService(gc, repo)

	_, err := s.HandleOAuthCallback(context.Background(), 1, "auth-code")
	require.NoError(t, err)

	stored, err := repo.GetByAccountID(context.Background(), 1, "page-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "page-token", stored.AccessToken)

	plaintext, err := utils.Decrypt(stored.AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "page-token", plaintext)
}

func TestHandleOAuthCallbackDiscoveryFailureIsNotFatal(t *testing.T) {
	gc := &fakeGraphClient{
		igErr: errors.New("instagram discovery: permissions error"),
		pages: []graph.FacebookPage{
			{ID: "page-1", Name: "Page", AccessToken: "page-token"},
		},
	}
	repo := newFakeMetaAccountRepo()
	s := newMetaService(gc, repo)

	result, err := s.HandleOAuthCallback(context.Background(), 1, "auth-code")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.InstagramAccounts)
	assert.Equal(t, 1, result.FacebookPages)

	accounts, err := repo.ListActiveByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestHandleOAuthCallbackExchangeFailureIsFatal(t *testing.T) {
	gc := &fakeGraphClient{exchangeErr: graph.ErrAuthExchange}
	repo := newFakeMetaAccountRepo()
	s := newMetaService(gc, repo)

	result, err := s.HandleOAuthCallback(context.Background(), 1, "auth-code")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, graph.ErrAuthExchange)

	accounts, err := repo.ListActiveByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestHandleOAuthCallbackEmptyCode(t *testing.T) {
	s := newMetaService(&fakeGraphClient{}, newFakeMetaAccountRepo())

	result, err := s.HandleOAuthCallback(context.Background(), 1, "")
	assert.Nil(t, result)
	assert.Error(t, err)
}

func TestHandleOAuthCallbackRelinkUpdatesExistingRow(t *testing.T) {
	repo := newFakeMetaAccountRepo()

	first := &fakeGraphClient{
		token: &graph.TokenResponse{AccessToken: "token-one", ExpiresIn: 3600},
		igAccounts: []graph.InstagramAccount{
			{ID: "ig-1", Username: "getmyagent"},
		},
	}
	_, err := newMetaService(first, repo).HandleOAuthCallback(context.Background(), 1, "code-one")
	require.NoError(t, err)

	second := &fakeGraphClient{
		token: &graph.TokenResponse{AccessToken: "token-two", ExpiresIn: 3600},
		igAccounts: []graph.InstagramAccount{
			{ID: "ig-1", Username: "getmyagent"},
		},
	}
	_, err = newMetaService(second, repo).HandleOAuthCallback(context.Background(), 1, "code-two")
	require.NoError(t, err)

	accounts, err := repo.ListActiveByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	plaintext, err := utils.Decrypt(accounts[0].AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "token-two", plaintext)
}

func TestListAccountsScopedToUser(t *testing.T) {
	repo := newFakeMetaAccountRepo()
	gc := &fakeGraphClient{
		igAccounts: []graph.InstagramAccount{{ID: "ig-1", Username: "mine"}},
	}
	s := newMetaService(gc, repo)

	_, err := s.HandleOAuthCallback(context.Background(), 1, "code")
	require.NoError(t, err)

	other := &fakeGraphClient{
		igAccounts: []graph.InstagramAccount{{ID: "ig-2", Username: "theirs"}},
	}
	_, err = newMetaService(other, repo).HandleOAuthCallback(context.Background(), 2, "code")
	require.NoError(t, err)

	accounts, err := s.ListAccounts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "ig-1", accounts[0].AccountID)
}

func TestDisconnectAccount(t *testing.T) {
	repo := newFakeMetaAccountRepo()
	gc := &fakeGraphClient{
		igAccounts: []graph.InstagramAccount{{ID: "ig-1", Username: "mine"}},
	}
	s := newMetaService(gc, repo)

	_, err := s.HandleOAuthCallback(context.Background(), 1, "code")
	require.NoError(t, err)

	require.NoError(t, s.DisconnectAccount(context.Background(), 1, "ig-1"))

	accounts, err := s.ListAccounts(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// Already gone.
	assert.ErrorIs(t, s.DisconnectAccount(context.Background(), 1, "ig-1"), ErrNotFound)
}

func TestDisconnectAccountUnknownID(t *testing.T) {
	s := newMetaService(&fakeGraphClient{}, newFakeMetaAccountRepo())

	assert.ErrorIs(t, s.DisconnectAccount(context.Background(), 1, "no-such-account"), ErrNotFound)
}
