package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	config "github.com/getmyagent/marketing-api/configs"
)

const graphAPIVersion = "v18.0"

// Client issues single best-effort calls to the Meta Graph API. There
// are no retries and no backoff; callers decide whether a failure is
// fatal to their flow.
type Client struct {
	cfg config.Config
	hc  *http.Client

	facebookBaseURL  string
	instagramBaseURL string
	oauthDialogURL   string
}

func New(cfg config.Config) *Client {
	return &Client{
		cfg:              cfg,
		hc:               http.DefaultClient,
		facebookBaseURL:  fmt.Sprintf("https://graph.facebook.com/%s", graphAPIVersion),
		instagramBaseURL: fmt.Sprintf("https://graph.instagram.com/%s", graphAPIVersion),
		oauthDialogURL:   fmt.Sprintf("https://www.facebook.com/%s/dialog/oauth", graphAPIVersion),
	}
}

func (c *Client) BuildAuthorizationURL(state string) string {
	params := url.Values{}
	params.Add("client_id", c.cfg.MetaAppID)
	params.Add("redirect_uri", c.cfg.MetaRedirectURI)
	params.Add("scope", "instagram_business_management,pages_manage_metadata,pages_read_engagement,instagram_manage_messages")
	params.Add("state", state)
	params.Add("response_type", "code")

	return fmt.Sprintf("%s?%s", c.oauthDialogURL, params.Encode())
}

func (c *Client) ExchangeCodeForToken(ctx context.Context, code string) (*TokenResponse, error) {
	payload := map[string]string{
		"client_id":     c.cfg.MetaAppID,
		"client_secret": c.cfg.MetaAppSecret,
		"redirect_uri":  c.cfg.MetaRedirectURI,
		"code":          code,
	}

	var token TokenResponse
	if err := c.postJSON(ctx, c.facebookBaseURL+"/oauth/access_token", payload, &token); err != nil {
		slog.Info("meta code exchange failed", "error", err.Error())
		return nil, ErrAuthExchange
	}

	if token.AccessToken == "" {
		slog.Info("meta code exchange returned no access token")
		return nil, ErrAuthExchange
	}

	return &token, nil
}

func (c *Client) FetchAuthenticatedUser(ctx context.Context, accessToken string) (*MetaUser, error) {
	reqURL := fmt.Sprintf("%s/me?fields=id,name,email&access_token=%s",
		c.facebookBaseURL, url.QueryEscape(accessToken))

	var user MetaUser
	if err := c.getJSON(ctx, reqURL, &user); err != nil {
		slog.Info("meta user fetch failed", "error", err.Error())
		return nil, ErrAuthExchange
	}

	return &user, nil
}

// DiscoverInstagramAccounts lists Instagram business accounts reachable
// from the authenticated user. The error is returned rather than
// swallowed so callers can tell "none found" from "discovery failed".
func (c *Client) DiscoverInstagramAccounts(ctx context.Context, accessToken string) ([]InstagramAccount, error) {
	meURL := fmt.Sprintf("%s/me?fields=id&access_token=%s",
		c.facebookBaseURL, url.QueryEscape(accessToken))

	var me struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, meURL, &me); err != nil {
		return nil, fmt.Errorf("instagram discovery: %w", err)
	}

	searchURL := fmt.Sprintf("%s/%s/ig_user_search?user_id=%s&access_token=%s",
		c.facebookBaseURL, me.ID, url.QueryEscape(me.ID), url.QueryEscape(accessToken))

	var result struct {
		Data []InstagramAccount `json:"data"`
	}
	if err := c.getJSON(ctx, searchURL, &result); err != nil {
		return nil, fmt.Errorf("instagram discovery: %w", err)
	}

	return result.Data, nil
}

func (c *Client) DiscoverFacebookPages(ctx context.Context, accessToken string) ([]FacebookPage, error) {
	reqURL := fmt.Sprintf("%s/me/accounts?fields=id,name,access_token,picture&access_token=%s",
		c.facebookBaseURL, url.QueryEscape(accessToken))

	var result struct {
		Data []FacebookPage `json:"data"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		return nil, fmt.Errorf("facebook page discovery: %w", err)
	}

	return result.Data, nil
}

// PublishToInstagram runs the two-phase publish: create a media
// container, then publish it by creation id. A phase-2 failure leaves
// an orphaned container behind; the provider garbage-collects those.
func (c *Client) PublishToInstagram(ctx context.Context, accountID, accessToken, caption, imageURL string) (string, error) {
	containerPayload := map[string]string{
		"caption":      caption,
		"access_token": accessToken,
	}
	if imageURL != "" {
		containerPayload["image_url"] = imageURL
	}

	var container struct {
		ID string `json:"id"`
	}
	containerURL := fmt.Sprintf("%s/%s/media", c.instagramBaseURL, accountID)
	if err := c.postJSON(ctx, containerURL, containerPayload, &container); err != nil {
		slog.Info("instagram media container failed", "error", err.Error())
		return "", ErrPublish
	}
	if container.ID == "" {
		slog.Info("instagram media container returned no id")
		return "", ErrPublish
	}

	var published struct {
		ID string `json:"id"`
	}
	publishURL := fmt.Sprintf("%s/%s/media_publish", c.instagramBaseURL, accountID)
	publishPayload := map[string]string{
		"creation_id":  container.ID,
		"access_token": accessToken,
	}
	if err := c.postJSON(ctx, publishURL, publishPayload, &published); err != nil {
		slog.Info("instagram media publish failed", "error", err.Error())
		return "", ErrPublish
	}

	return published.ID, nil
}

func (c *Client) PublishToFacebookPage(ctx context.Context, pageID, accessToken, message, imageURL string) (string, error) {
	payload := map[string]string{
		"message":      message,
		"access_token": accessToken,
	}
	if imageURL != "" {
		payload["picture"] = imageURL
		payload["link"] = imageURL
	}

	var published struct {
		ID string `json:"id"`
	}
	feedURL := fmt.Sprintf("%s/%s/feed", c.facebookBaseURL, pageID)
	if err := c.postJSON(ctx, feedURL, payload, &published); err != nil {
		slog.Info("facebook feed publish failed", "error", err.Error())
		return "", ErrPublish
	}

	return published.ID, nil
}

// ValidateAccessToken checks token liveness via debug_token. Any
// failure counts as invalid.
func (c *Client) ValidateAccessToken(ctx context.Context, accessToken string) bool {
	appToken := fmt.Sprintf("%s|%s", c.cfg.MetaAppID, c.cfg.MetaAppSecret)
	reqURL := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		c.facebookBaseURL, url.QueryEscape(accessToken), url.QueryEscape(appToken))

	var result struct {
		Data struct {
			IsValid bool `json:"is_valid"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, reqURL, &result); err != nil {
		slog.Info("meta token validation failed", "error", err.Error())
		return false
	}

	return result.Data.IsValid
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, reqURL string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var graphErr GraphErrorResponse
		if err := json.Unmarshal(respBody, &graphErr); err == nil && graphErr.Error.Message != "" {
			return fmt.Errorf("graph api error %d (%s): %s", graphErr.Error.Code, graphErr.Error.Type, graphErr.Error.Message)
		}
		return fmt.Errorf("unexpected status code from Meta: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
