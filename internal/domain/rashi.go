package domain

import (
	"encoding/json"
	"math"
)

// MoonSymbol каноничное двухбуквенное обозначение Луны в ответе движка
const MoonSymbol = "Mo"

// Rashis двенадцать знаков по 30° начиная с 0° долготы
var Rashis = [12]string{
	"Mesha",
	"Vrishabha",
	"Mithuna",
	"Karka",
	"Simha",
	"Kanya",
	"Tula",
	"Vrischika",
	"Dhanu",
	"Makara",
	"Kumbha",
	"Meena",
}

// NormalizeLongitude приводит долготу к диапазону [0, 360)
func NormalizeLongitude(degrees float64) float64 {
	lon := math.Mod(degrees, 360)
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon = 0
	}
	return lon
}

// RashiForLongitude знак, в секторе которого лежит долгота
func RashiForLongitude(degrees float64) string {
	idx := int(NormalizeLongitude(degrees) / 30)
	if idx > 11 {
		idx = 11
	}
	return Rashis[idx]
}

// IsRashi проверяет, что имя входит в каноничный список знаков
func IsRashi(name string) bool {
	for _, r := range Rashis {
		if r == name {
			return true
		}
	}
	return false
}

// PlanetPositions позиции планет по символу, содержимое отдаётся клиенту как есть
type PlanetPositions map[string]json.RawMessage

// MoonPosition долгота Луны и её знак
type MoonPosition struct {
	Longitude float64 `json:"longitude"`
	Rashi     string  `json:"rashi"`
}

// CalculationResult результат расчёта для одного запроса
type CalculationResult struct {
	Moon       MoonPosition    `json:"moon"`
	AllPlanets PlanetPositions `json:"allPlanets"`
}

// Location координаты места рождения в ответе
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CalculationInput эхо нормализованного ввода в ответе
type CalculationInput struct {
	DateTime string   `json:"dateTime"`
	Location Location `json:"location"`
	Timezone float64  `json:"timezone"`
}

// RashiResponse тело успешного ответа POST /api/rashi
type RashiResponse struct {
	Success    bool             `json:"success"`
	Input      CalculationInput `json:"input"`
	Moon       MoonPosition     `json:"moon"`
	AllPlanets PlanetPositions  `json:"allPlanets"`
}
