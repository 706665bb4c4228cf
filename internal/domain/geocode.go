package domain

import "strings"

// MaxGeocodeCandidates верхняя граница кандидатов для автодополнения
const MaxGeocodeCandidates = 10

// GeocodeQuery запрос к геокодеру: свободный текст или структурированные поля
type GeocodeQuery struct {
	Text    string
	City    string
	State   string
	Country string
}

// IsFreeText true, если задан свободный текст
func (q GeocodeQuery) IsFreeText() bool {
	return strings.TrimSpace(q.Text) != ""
}

// IsEmpty true, если не задано ни одного поля
func (q GeocodeQuery) IsEmpty() bool {
	return !q.IsFreeText() &&
		strings.TrimSpace(q.City) == "" &&
		strings.TrimSpace(q.State) == "" &&
		strings.TrimSpace(q.Country) == ""
}

// CacheKey нормализованный ключ кэша
func (q GeocodeQuery) CacheKey() string {
	norm := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	if q.IsFreeText() {
		return "geocode:text:" + norm(q.Text)
	}
	return "geocode:fields:" + norm(q.City) + "|" + norm(q.State) + "|" + norm(q.Country)
}

// Place найденное место
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}
