package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// ModuleName имя модуля в статусе
const ModuleName = "geocoder"

const SearchPath = "search"

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент Nominatim-совместимого API
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт клиент, конфигурация должна пройти Validate
func NewClient(cfg *Config, log *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Log:        log,
	}, nil
}

// buildURL собирает URL поиска с параметрами запроса
func (c *Client) buildURL(query domain.GeocodeQuery, limit int) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}

	if query.IsFreeText() {
		params.Set("q", strings.TrimSpace(query.Text))
	} else {
		for key, val := range map[string]string{
			"city":    query.City,
			"state":   query.State,
			"country": query.Country,
		} {
			if v := strings.TrimSpace(val); v != "" {
				params.Set(key, v)
			}
		}
	}

	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + SearchPath + "?" + params.Encode()
}

// Search выполняет поиск мест
func (c *Client) Search(ctx context.Context, query domain.GeocodeQuery, limit int) ([]domain.Place, error) {
	if limit <= 0 {
		limit = 1
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(query, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Language != "" {
		req.Header.Set("Accept-Language", c.cfg.Language)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoder response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("geocoder returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(string(body), 200),
		)
		return nil, fmt.Errorf("geocoder error [status=%d]: %s", resp.StatusCode, truncateString(string(body), 500))
	}

	var results []SearchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("geocoder unmarshal failed: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			c.Log.Debug("skipping geocoder result with bad coordinates", "lat", r.Lat, "lon", r.Lon)
			continue
		}
		places = append(places, domain.Place{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
		if len(places) == limit {
			break
		}
	}

	return places, nil
}
