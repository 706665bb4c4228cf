package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   Body
	}{
		{
			name:   "client input",
			err:    domain.NewClientInputError(domain.MsgInvalidDate),
			status: http.StatusBadRequest,
			body:   Body{Error: "Invalid date format"},
		},
		{
			name:   "capability",
			err:    fmt.Errorf("registry: %w", &domain.CapabilityUnavailableError{Module: "jyotish-calculations"}),
			status: http.StatusServiceUnavailable,
			body:   Body{Error: "jyotish-calculations module not available"},
		},
		{
			name:   "engine failure",
			err:    domain.WrapEngineFailure(errors.New("SwissEph file 'sepl_18.se1' not found")),
			status: http.StatusInternalServerError,
			body:   Body{Error: "Failed to calculate rashi", Message: "SwissEph file 'sepl_18.se1' not found"},
		},
		{
			name:   "unknown",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   Body{Error: "Failed to calculate rashi", Message: "boom"},
		},
		{
			name:   "upstream not found",
			err:    &domain.UpstreamProviderError{NotFound: true},
			status: http.StatusNotFound,
			body:   Body{Error: "Location not found"},
		},
		{
			name:   "upstream failure",
			err:    &domain.UpstreamProviderError{Err: errors.New("EOF")},
			status: http.StatusInternalServerError,
			body:   Body{Error: "Failed to geocode location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := StatusOf(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Write(c, domain.NewClientInputError(domain.MsgMissingParams))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Missing required parameters: dateTime, latitude, longitude"}`, w.Body.String())
}
