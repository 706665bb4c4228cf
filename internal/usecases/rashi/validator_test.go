package rashi

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRequest(t *testing.T, body string) domain.RawCalculationRequest {
	t.Helper()
	var raw domain.RawCalculationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func requireInputError(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var inputErr *domain.ClientInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, message, inputErr.Message)
}

func TestValidator_MissingFields(t *testing.T) {
	v := NewValidator(time.UTC)

	bodies := []string{
		`{}`,
		`{"latitude":0,"longitude":0}`,
		`{"dateTime":"","latitude":0,"longitude":0}`,
		`{"dateTime":null,"latitude":0,"longitude":0}`,
		`{"dateTime":0,"latitude":0,"longitude":0}`,
		`{"dateTime":-0.0,"latitude":0,"longitude":0}`,
		`{"dateTime":false,"latitude":0,"longitude":0}`,
		`{"dateTime":"2026-02-15T12:00:00Z","longitude":0}`,
		`{"dateTime":"2026-02-15T12:00:00Z","latitude":0}`,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			_, err := v.Validate(rawRequest(t, body))
			requireInputError(t, err, domain.MsgMissingParams)
		})
	}
}

func TestValidator_ZeroIsNotMissing(t *testing.T) {
	v := NewValidator(time.UTC)

	in, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":0,"longitude":0}`))
	require.NoError(t, err)
	assert.Zero(t, in.Latitude())
	assert.Zero(t, in.Longitude())
	_, ok := in.Timezone()
	assert.False(t, ok)
}

func TestValidator_InvalidDate(t *testing.T) {
	v := NewValidator(time.UTC)

	for _, dt := range []string{`"not-a-date"`, `"2026-13-01T00:00:00Z"`, `"15/02/2026"`, `true`, `{}`} {
		t.Run(dt, func(t *testing.T) {
			_, err := v.Validate(rawRequest(t, `{"dateTime":`+dt+`,"latitude":0,"longitude":0}`))
			requireInputError(t, err, domain.MsgInvalidDate)
		})
	}
}

func TestValidator_DateFormats(t *testing.T) {
	server := time.FixedZone("IST", 5*3600+30*60)
	v := NewValidator(server)

	tests := []struct {
		name string
		dt   string
		want time.Time
	}{
		{"rfc3339 utc", `"2026-02-15T12:00:00Z"`, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{"rfc3339 millis", `"2026-02-15T12:00:00.250Z"`, time.Date(2026, 2, 15, 12, 0, 0, 250e6, time.UTC)},
		{"rfc3339 offset", `"2026-02-15T17:30:00+05:30"`, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{"no offset is server local", `"2026-02-15T17:30:00"`, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{"space separated", `"2026-02-15 17:30"`, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
		{"date only is utc", `"2026-02-15"`, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1771156800000`, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := v.Validate(rawRequest(t, `{"dateTime":`+tt.dt+`,"latitude":1,"longitude":2}`))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(in.Instant()), "got %s", in.Instant())
		})
	}
}

func TestValidator_InvalidCoordinates(t *testing.T) {
	v := NewValidator(time.UTC)

	bodies := []string{
		`{"dateTime":"2026-02-15T12:00:00Z","latitude":"abc","longitude":0}`,
		`{"dateTime":"2026-02-15T12:00:00Z","latitude":0,"longitude":null}`,
		`{"dateTime":"2026-02-15T12:00:00Z","latitude":[1],"longitude":0}`,
	}

	for _, body := range bodies {
		_, err := v.Validate(rawRequest(t, body))
		requireInputError(t, err, domain.MsgInvalidCoordinates)
	}
}

func TestValidator_DateCheckedBeforeCoordinates(t *testing.T) {
	v := NewValidator(time.UTC)

	_, err := v.Validate(rawRequest(t, `{"dateTime":"not-a-date","latitude":"x","longitude":999}`))
	requireInputError(t, err, domain.MsgInvalidDate)
}

func TestValidator_Ranges(t *testing.T) {
	v := NewValidator(time.UTC)

	_, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":90.5,"longitude":0}`))
	requireInputError(t, err, domain.MsgLatitudeRange)

	_, err = v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":-90,"longitude":-180.1}`))
	requireInputError(t, err, domain.MsgLongitudeRange)

	_, err = v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":-91,"longitude":181}`))
	requireInputError(t, err, domain.MsgLatitudeRange)

	in, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":90,"longitude":180}`))
	require.NoError(t, err)
	assert.InDelta(t, 90.0, in.Latitude(), 1e-12)
}

func TestValidator_NumericStrings(t *testing.T) {
	v := NewValidator(time.UTC)

	in, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":"21.1458","longitude":"79.0882","timezone":"5.5"}`))
	require.NoError(t, err)
	assert.InDelta(t, 21.1458, in.Latitude(), 1e-12)
	assert.InDelta(t, 79.0882, in.Longitude(), 1e-12)
	tz, ok := in.Timezone()
	require.True(t, ok)
	assert.Equal(t, 5.5, tz)
}

func TestValidator_Timezone(t *testing.T) {
	v := NewValidator(time.UTC)

	for _, tz := range []string{`"east"`, `15`, `-12.5`, `{}`} {
		_, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":0,"longitude":0,"timezone":`+tz+`}`))
		requireInputError(t, err, domain.MsgInvalidTimezone)
	}

	in, err := v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":0,"longitude":0,"timezone":null}`))
	require.NoError(t, err)
	_, ok := in.Timezone()
	assert.False(t, ok)

	in, err = v.Validate(rawRequest(t, `{"dateTime":"2026-02-15T12:00:00Z","latitude":0,"longitude":0,"timezone":-3.5}`))
	require.NoError(t, err)
	tz, ok := in.Timezone()
	require.True(t, ok)
	assert.Equal(t, -3.5, tz)
}
