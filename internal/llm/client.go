package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	config "github.com/getmyagent/marketing-api/configs"
)

// Client talks to an OpenAI-compatible chat completions endpoint. The
// generation backend is treated as an opaque text service.
type Client struct {
	cfg     config.LLM
	hc      *http.Client
	baseURL string
}

func New(cfg config.LLM) *Client {
	return &Client{
		cfg:     cfg,
		hc:      http.DefaultClient,
		baseURL: cfg.BaseURL,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]interface{}{
		"model": c.cfg.Model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("text generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		slog.Info("unexpected status from text generation endpoint", "status", resp.StatusCode)
		return "", fmt.Errorf("unexpected status from text generation endpoint: %d", resp.StatusCode)
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if len(result.Choices) == 0 {
		return "", errors.New("text generation returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
