package timezone

import (
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/ringsaturn/tzf"
)

// ErrZoneNotFound координаты не попали ни в одну зону
var ErrZoneNotFound = errors.New("timezone not found for coordinates")

type nameFinder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// Finder определяет IANA-зону по координатам
type Finder struct {
	finder nameFinder

	mu    sync.RWMutex
	zones map[string]*time.Location
}

// NewFinder загружает встроенные полигоны часовых поясов
func NewFinder() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to init timezone finder: %w", err)
	}
	return newFinder(f), nil
}

func newFinder(f nameFinder) *Finder {
	return &Finder{
		finder: f,
		zones:  make(map[string]*time.Location),
	}
}

// Location возвращает зону для точки
func (f *Finder) Location(lat, lng float64) (*time.Location, error) {
	name := f.finder.GetTimezoneName(lng, lat)
	if name == "" {
		return nil, fmt.Errorf("%w: lat=%v lng=%v", ErrZoneNotFound, lat, lng)
	}

	f.mu.RLock()
	loc, ok := f.zones[name]
	f.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %s: %w", name, err)
	}

	f.mu.Lock()
	f.zones[name] = loc
	f.mu.Unlock()
	return loc, nil
}
