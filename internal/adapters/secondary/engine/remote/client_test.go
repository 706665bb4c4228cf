package remote

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{
		BaseURL:      baseURL,
		Version:      "v1",
		ApiKey:       "secret",
		Timeout:      2 * time.Second,
		ProbeTimeout: time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var details = domain.NormalizedBirthDetails{
	DateString: "2026-02-15",
	TimeString: "12:00:00",
	Lat:        21.1458,
	Lng:        79.0882,
	Timezone:   5.5,
}

func TestClient_Positions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/grahas/positions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req PositionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, details, req.BirthDetails)

		_, _ = w.Write([]byte(`{"status":"success","data":{"Mo":{"longitude":95.25},"Su":{"longitude":302.4}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL + "/")
	assert.Equal(t, ModuleName, c.Name())

	planets, err := c.Positions(context.Background(), details)
	require.NoError(t, err)
	assert.Len(t, planets, 2)
	assert.JSONEq(t, `{"longitude":95.25}`, string(planets["Mo"]))
}

func TestClient_PositionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error json", http.StatusUnprocessableEntity, `{"error":"invalid date","message":"month out of range"}`, "invalid date: month out of range"},
		{"api error text", http.StatusBadGateway, `upstream down`, "status=502"},
		{"status not success", http.StatusOK, `{"status":"error","message":"ephemeris missing"}`, "ephemeris missing"},
		{"empty data", http.StatusOK, `{"status":"success","data":{}}`, "empty positions"},
		{"malformed", http.StatusOK, `not json`, "unmarshal failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Positions(context.Background(), details)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestClient_Probe(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	assert.NoError(t, c.Probe(context.Background()))

	healthy = false
	assert.ErrorContains(t, c.Probe(context.Background()), "status=503")

	assert.Error(t, newTestClient("").Probe(context.Background()))
}

func TestClient_Rashi(t *testing.T) {
	sign, err := newTestClient("http://unused").Rashi(context.Background(), 300)
	require.NoError(t, err)
	assert.Equal(t, "Kumbha", sign)
}
