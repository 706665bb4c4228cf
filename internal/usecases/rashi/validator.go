package rashi

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Форматы dateTime, которые принимает API.
// Без смещения время трактуется в локальной зоне сервера, только дата - в UTC.
var (
	offsetLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04",
	}
	dateOnlyLayout = "2006-01-02"
)

// ValidatedBirthInput ввод, прошедший проверку.
// Создаётся только через Validator.Validate.
type ValidatedBirthInput struct {
	instant  time.Time
	lat      float64
	lng      float64
	timezone *float64
}

func (v ValidatedBirthInput) Instant() time.Time {
	return v.instant
}

func (v ValidatedBirthInput) Latitude() float64 {
	return v.lat
}

func (v ValidatedBirthInput) Longitude() float64 {
	return v.lng
}

// Timezone смещение, переданное клиентом; false, если не передано
func (v ValidatedBirthInput) Timezone() (float64, bool) {
	if v.timezone == nil {
		return 0, false
	}
	return *v.timezone, true
}

type coordinates struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// Validator проверяет сырой запрос, первая ошибка прерывает проверку
type Validator struct {
	server   *time.Location
	validate *validator.Validate
}

// NewValidator server - зона, в которой разбираются даты без смещения
func NewValidator(server *time.Location) *Validator {
	if server == nil {
		server = time.Local
	}
	return &Validator{
		server:   server,
		validate: validator.New(),
	}
}

func (v *Validator) Validate(raw domain.RawCalculationRequest) (ValidatedBirthInput, error) {
	if isMissingDateTime(raw.DateTime) || !raw.Latitude.IsSet() || !raw.Longitude.IsSet() {
		return ValidatedBirthInput{}, domain.NewClientInputError(domain.MsgMissingParams)
	}

	instant, ok := v.parseDateTime(raw.DateTime)
	if !ok {
		return ValidatedBirthInput{}, domain.NewClientInputError(domain.MsgInvalidDate)
	}

	lat, latOK := raw.Latitude.Float()
	lng, lngOK := raw.Longitude.Float()
	if !latOK || !lngOK {
		return ValidatedBirthInput{}, domain.NewClientInputError(domain.MsgInvalidCoordinates)
	}

	if err := v.checkRange(lat, lng); err != nil {
		return ValidatedBirthInput{}, err
	}

	input := ValidatedBirthInput{
		instant: instant,
		lat:     lat,
		lng:     lng,
	}

	if raw.Timezone.IsSet() && !raw.Timezone.IsNull() {
		tz, ok := raw.Timezone.Float()
		if !ok || v.validate.Var(tz, "gte=-12,lte=14") != nil {
			return ValidatedBirthInput{}, domain.NewClientInputError(domain.MsgInvalidTimezone)
		}
		input.timezone = &tz
	}

	return input, nil
}

func (v *Validator) checkRange(lat, lng float64) error {
	err := v.validate.Struct(coordinates{Latitude: lat, Longitude: lng})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Longitude" {
		return domain.NewClientInputError(domain.MsgLongitudeRange)
	}
	return domain.NewClientInputError(domain.MsgLatitudeRange)
}

// isMissingDateTime пустая строка, 0 и false считаются отсутствующей датой
func isMissingDateTime(v domain.RawValue) bool {
	if !v.IsSet() || v.IsNull() || v.IsFalse() {
		return true
	}
	if s, ok := v.String(); ok && s == "" {
		return true
	}
	if ms, ok := v.Number(); ok && ms == 0 {
		return true
	}
	return false
}

// parseDateTime строка ISO-8601 или число миллисекунд Unix
func (v *Validator) parseDateTime(raw domain.RawValue) (time.Time, bool) {
	if ms, ok := raw.Number(); ok {
		if math.Abs(ms) > maxEpochMillis {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(ms)).UTC(), true
	}

	s, ok := raw.String()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, v.server); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// maxEpochMillis граница представимых дат (±100 000 000 суток от эпохи)
const maxEpochMillis = 8.64e15
