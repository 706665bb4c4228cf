package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawValue сырое значение поля запроса.
// Хранит JSON-токен как есть, чтобы отличать отсутствующее поле от null и от 0.
type RawValue struct {
	raw json.RawMessage
	set bool
}

// NewRawValue создаёт значение из готового JSON-токена
func NewRawValue(token string) RawValue {
	return RawValue{raw: json.RawMessage(token), set: true}
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	v.set = true
	return nil
}

// IsSet true, если ключ присутствовал в теле запроса (в том числе со значением null)
func (v RawValue) IsSet() bool {
	return v.set
}

// IsNull true для литерала null
func (v RawValue) IsNull() bool {
	return v.set && bytes.Equal(bytes.TrimSpace(v.raw), []byte("null"))
}

// IsFalse true для литерала false
func (v RawValue) IsFalse() bool {
	return v.set && bytes.Equal(bytes.TrimSpace(v.raw), []byte("false"))
}

// String возвращает строковое значение, если токен является JSON-строкой
func (v RawValue) String() (string, bool) {
	if !v.set {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Number возвращает значение, если токен является JSON-числом
func (v RawValue) Number() (float64, bool) {
	if !v.set {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	var tok any
	if err := dec.Decode(&tok); err != nil {
		return 0, false
	}
	n, ok := tok.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float приводит число или числовую строку к конечному float64
func (v RawValue) Float() (float64, bool) {
	if f, ok := v.Number(); ok {
		return f, true
	}
	s, ok := v.String()
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// RawCalculationRequest недоверенное тело POST /api/rashi
type RawCalculationRequest struct {
	DateTime  RawValue `json:"dateTime"`
	Latitude  RawValue `json:"latitude"`
	Longitude RawValue `json:"longitude"`
	Timezone  RawValue `json:"timezone"`
}

// NormalizedBirthDetails данные рождения в том виде, который ожидает движок расчётов
type NormalizedBirthDetails struct {
	DateString string  `json:"dateString"`
	TimeString string  `json:"timeString"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Timezone   float64 `json:"timezone"`
}
