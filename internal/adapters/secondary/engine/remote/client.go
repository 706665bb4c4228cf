package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// ModuleName имя модуля в статусе и ответе 503
const ModuleName = "jyotish-remote"

const (
	GetPositions = "grahas/positions"
	HealthPath   = "health"
)

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client движок расчётов, работающий через HTTP API
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент для работы с API расчётов
func NewClient(cfg *Config, log *slog.Logger) *Client {
	transport := &http.Transport{}

	if cfg.ShouldSkipSSL() {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		Log: log,
	}
}

func (c *Client) Name() string {
	return ModuleName
}

// buildURL собирает полный URL из BaseURL, Version и endpoint
func (c *Client) buildURL(endpoint string) string {
	baseURL := strings.TrimSuffix(c.cfg.BaseURL, "/")
	return baseURL + "/" + path.Join(c.cfg.Version, endpoint)
}

// setHeaders устанавливает стандартные заголовки для запросов к API
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	}
}

// Probe проверка доступности API при старте
func (c *Client) Probe(ctx context.Context) error {
	if c.cfg.BaseURL == "" {
		return fmt.Errorf("engine base url is not configured")
	}

	if c.cfg.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ProbeTimeout)
		defer cancel()
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + HealthPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("engine probe failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine probe failed [status=%d]", resp.StatusCode)
	}
	return nil
}

// Positions получает позиции планет через API
func (c *Client) Positions(ctx context.Context, details domain.NormalizedBirthDetails) (domain.PlanetPositions, error) {
	jsonData, err := json.Marshal(PositionsRequest{BirthDetails: details})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.buildURL(GetPositions)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine response: %w", err)
	}

	rawJSON := string(body)

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("engine API returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(rawJSON, 200),
		)
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("engine API error [status=%d]: %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
			}
			return nil, fmt.Errorf("engine API error [status=%d]: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("engine API error [status=%d]: %s", resp.StatusCode, truncateString(rawJSON, 500))
	}

	var posResp PositionsResponse
	if err := json.Unmarshal(body, &posResp); err != nil {
		c.Log.Debug("failed to unmarshal engine response",
			"error", err,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("engine API unmarshal failed: %w", err)
	}

	if posResp.Status != "" && posResp.Status != "success" {
		return nil, fmt.Errorf("engine API returned error: status=%s, message=%s", posResp.Status, posResp.Message)
	}

	if len(posResp.Data) == 0 {
		return nil, fmt.Errorf("engine API returned empty positions")
	}

	return domain.PlanetPositions(posResp.Data), nil
}

// Rashi API не отдаёт знак отдельно, используется таблица 30° секторов
func (c *Client) Rashi(_ context.Context, longitude float64) (string, error) {
	return domain.RashiForLongitude(longitude), nil
}
