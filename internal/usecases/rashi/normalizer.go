package rashi

import (
	"fmt"
	"math"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// TimezoneMode способ определения локального времени рождения
type TimezoneMode string

const (
	// TimezoneModeServer поля даты и смещение по умолчанию берутся из зоны сервера.
	// Географически неверно, сохранено для совместимости с существующими клиентами.
	TimezoneModeServer TimezoneMode = "server"
	// TimezoneModeCoordinates зона определяется по координатам места рождения
	TimezoneModeCoordinates TimezoneMode = "coordinates"
)

// ParseTimezoneMode разбирает значение из конфигурации
func ParseTimezoneMode(s string) (TimezoneMode, error) {
	switch TimezoneMode(s) {
	case "", TimezoneModeServer:
		return TimezoneModeServer, nil
	case TimezoneModeCoordinates:
		return TimezoneModeCoordinates, nil
	default:
		return "", fmt.Errorf("unknown timezone mode %q", s)
	}
}

// ZoneFinder определяет часовой пояс по координатам
type ZoneFinder interface {
	Location(lat, lng float64) (*time.Location, error)
}

// Normalizer приводит проверенный ввод к виду, который ожидает движок.
// Результат зависит только от ввода и зафиксированной при старте зоны сервера.
type Normalizer struct {
	mode   TimezoneMode
	server *time.Location
	finder ZoneFinder
}

func NewNormalizer(mode TimezoneMode, server *time.Location, finder ZoneFinder) *Normalizer {
	if server == nil {
		server = time.Local
	}
	if mode == TimezoneModeCoordinates && finder == nil {
		mode = TimezoneModeServer
	}
	return &Normalizer{
		mode:   mode,
		server: server,
		finder: finder,
	}
}

func (n *Normalizer) Normalize(in ValidatedBirthInput) domain.NormalizedBirthDetails {
	local := in.Instant().In(n.location(in))

	tz, ok := in.Timezone()
	if !ok {
		tz = offsetHours(local)
	}

	return domain.NormalizedBirthDetails{
		DateString: local.Format("2006-01-02"),
		TimeString: local.Format("15:04:05"),
		Lat:        in.Latitude(),
		Lng:        in.Longitude(),
		Timezone:   tz,
	}
}

func (n *Normalizer) location(in ValidatedBirthInput) *time.Location {
	if n.mode != TimezoneModeCoordinates {
		return n.server
	}

	if tz, ok := in.Timezone(); ok {
		return time.FixedZone(fixedZoneName(tz), int(math.Round(tz*3600)))
	}

	loc, err := n.finder.Location(in.Latitude(), in.Longitude())
	if err != nil || loc == nil {
		return n.server
	}
	return loc
}

// offsetHours смещение зоны в момент t в часах, дробная часть сохраняется
func offsetHours(t time.Time) float64 {
	_, offset := t.Zone()
	return float64(offset/60) / 60
}

func fixedZoneName(tz float64) string {
	sign := "+"
	if tz < 0 {
		sign = "-"
	}
	minutes := int(math.Round(math.Abs(tz) * 60))
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}
