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

	"github.com/mensbreakfast/breakfast-backend/config"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/upstream"
)

const (
	muxUpstream       = "mux"
	muxDefaultTimeout = 30 * time.Second
	muxUploadTimeout  = 15 * time.Minute
)

// MuxClient talks to the video platform REST API with basic auth.
type MuxClient struct {
	baseURL      string
	tokenID      string
	tokenSecret  string
	apiClient    *http.Client
	uploadClient *http.Client // direct uploads of large files
}

func NewMuxClient(cfg config.MuxConfig) *MuxClient {
	return &MuxClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		tokenID:      cfg.TokenID,
		tokenSecret:  cfg.TokenSecret,
		apiClient:    &http.Client{Timeout: muxDefaultTimeout},
		uploadClient: &http.Client{Timeout: muxUploadTimeout},
	}
}

// DirectUpload is a pending upload slot.
type DirectUpload struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	AssetID string `json:"asset_id"`
}

type PlaybackID struct {
	ID     string `json:"id"`
	Policy string `json:"policy"`
}

type Asset struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	Duration    float64      `json:"duration"`
	CreatedAt   string       `json:"created_at"`
	PlaybackIDs []PlaybackID `json:"playback_ids"`
	Meta        struct {
		Title string `json:"title"`
	} `json:"meta"`
	Title string `json:"title"`
}

type createUploadRequest struct {
	CORSOrigin       string           `json:"cors_origin"`
	NewAssetSettings newAssetSettings `json:"new_asset_settings"`
}

type newAssetSettings struct {
	PlaybackPolicy []string `json:"playback_policy"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
}

// CreateUpload reserves a direct upload URL for a new public asset.
func (c *MuxClient) CreateUpload(ctx context.Context, title, description string) (*DirectUpload, error) {
	body := createUploadRequest{
		CORSOrigin: "*",
		NewAssetSettings: newAssetSettings{
			PlaybackPolicy: []string{"public"},
			Title:          title,
			Description:    description,
		},
	}
	var out struct {
		Data DirectUpload `json:"data"`
	}
	if err := c.do(ctx, "create_upload", http.MethodPost, "/video/v1/uploads", body, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GetUpload reads the upload's status; AssetID is set once the asset exists.
func (c *MuxClient) GetUpload(ctx context.Context, id string) (*DirectUpload, error) {
	var out struct {
		Data DirectUpload `json:"data"`
	}
	if err := c.do(ctx, "get_upload", http.MethodGet, "/video/v1/uploads/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *MuxClient) ListAssets(ctx context.Context) ([]Asset, error) {
	var out struct {
		Data []Asset `json:"data"`
	}
	if err := c.do(ctx, "list_assets", http.MethodGet, "/video/v1/assets", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PutFile streams body to the upload URL as raw bytes.
func (c *MuxClient) PutFile(ctx context.Context, uploadURL string, body io.Reader, size int64) (err error) {
	start := time.Now()
	defer func() { upstream.Record(muxUpstream, time.Since(start), err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		logging.New(ctx).Error("put_upload", err)
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *MuxClient) do(ctx context.Context, op, method, path string, in, out any) (err error) {
	logger := logging.New(ctx)
	start := time.Now()
	defer func() {
		upstream.Record(muxUpstream, time.Since(start), err)
		if err != nil {
			logger.Error(op, err)
		}
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
