package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/upstream"
)

const (
	cohereUpstream = "cohere"
	cohereVersion  = "2022-12-06"
	cohereTimeout  = 60 * time.Second
)

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CohereClient calls the text-generation API. The API key travels as an
// OAuth2 bearer token.
type CohereClient struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewCohereClient(cfg config.CohereConfig) *CohereClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})
	return &CohereClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http: &http.Client{
			Timeout:   cohereTimeout,
			Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
		},
	}
}

type generateRequest struct {
	Model             string   `json:"model"`
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens"`
	Temperature       float64  `json:"temperature"`
	K                 int      `json:"k"`
	StopSequences     []string `json:"stop_sequences"`
	ReturnLikelihoods string   `json:"return_likelihoods"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

// Generate returns the first generation's text, trimmed.
func (c *CohereClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	logger := logging.New(ctx)
	start := time.Now()
	defer func() {
		upstream.Record(cohereUpstream, time.Since(start), err)
		if err != nil {
			logger.Error("cohere_generate", err)
		}
	}()

	body, err := json.Marshal(generateRequest{
		Model:             c.model,
		Prompt:            prompt,
		MaxTokens:         1000,
		Temperature:       0.7,
		K:                 0,
		StopSequences:     []string{"USER:"},
		ReturnLikelihoods: "NONE",
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cohere-Version", cohereVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Generations) == 0 {
		return "", fmt.Errorf("upstream returned no generations")
	}
	return strings.TrimSpace(out.Generations[0].Text), nil
}
