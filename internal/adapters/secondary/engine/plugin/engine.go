package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	goplugin "plugin"

	"github.com/admin/astro/rashi-api/internal/domain"
)

// ModuleName имя модуля в статусе и ответе 503
const ModuleName = "jyotish-calculations"

const (
	symbolPositions = "GetPositions"
	symbolRashi     = "GetRashi"
)

// ephemerisSetterAliases имена функции установки пути к эфемеридам в разных сборках движка
var ephemerisSetterAliases = []string{
	"SweSetEphePath",
	"SetEphePath",
	"SweSetEphemerisPath",
	"SetEphemerisPath",
}

// ErrNoEphemerisSetter в плагине нет ни одного из известных сеттеров
var ErrNoEphemerisSetter = errors.New("no ephemeris-setter function found")

// SymbolTable источник символов, *plugin.Plugin его реализует
type SymbolTable interface {
	Lookup(name string) (goplugin.Symbol, error)
}

type positionsFunc func(details []byte) ([]byte, error)

// Engine движок, загруженный из Go-плагина.
// Граница плагина - JSON, общих Go-типов у сервиса и плагина нет.
type Engine struct {
	positions positionsFunc
	rashi     func(longitude float64) string
	symbols   SymbolTable
}

// Open загружает .so и проверяет обязательные символы
func Open(path string) (*Engine, error) {
	p, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine plugin %s: %w", path, err)
	}
	return New(p)
}

// New собирает движок из таблицы символов
func New(symbols SymbolTable) (*Engine, error) {
	sym, err := symbols.Lookup(symbolPositions)
	if err != nil {
		return nil, fmt.Errorf("engine plugin has no %s: %w", symbolPositions, err)
	}

	positions, ok := asPositionsFunc(sym)
	if !ok {
		return nil, fmt.Errorf("engine plugin symbol %s has unexpected type %T", symbolPositions, sym)
	}

	e := &Engine{
		positions: positions,
		symbols:   symbols,
	}

	if sym, err := symbols.Lookup(symbolRashi); err == nil {
		e.rashi = asRashiFunc(sym)
	}

	return e, nil
}

func (e *Engine) Name() string {
	return ModuleName
}

func (e *Engine) Positions(_ context.Context, details domain.NormalizedBirthDetails) (domain.PlanetPositions, error) {
	in, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal birth details: %w", err)
	}

	out, err := e.positions(in)
	if err != nil {
		return nil, err
	}

	var planets domain.PlanetPositions
	if err := json.Unmarshal(out, &planets); err != nil {
		return nil, fmt.Errorf("engine returned malformed positions: %w", err)
	}

	return planets, nil
}

// Rashi знак от плагина, если он экспортирует GetRashi, иначе по таблице 30° секторов
func (e *Engine) Rashi(_ context.Context, longitude float64) (string, error) {
	if e.rashi == nil {
		return domain.RashiForLongitude(longitude), nil
	}
	sign := e.rashi(longitude)
	if sign == "" {
		return "", fmt.Errorf("engine returned empty rashi for longitude %v", longitude)
	}
	return sign, nil
}

// SetEphemerisPath ищет сеттер по известным алиасам и вызывает первый найденный
func (e *Engine) SetEphemerisPath(path string) error {
	for _, name := range ephemerisSetterAliases {
		sym, err := e.symbols.Lookup(name)
		if err != nil {
			continue
		}
		switch setter := sym.(type) {
		case func(string):
			setter(path)
			return nil
		case *func(string):
			(*setter)(path)
			return nil
		case func(string) error:
			return setter(path)
		case *func(string) error:
			return (*setter)(path)
		}
	}
	return ErrNoEphemerisSetter
}

// Символ может быть функцией или экспортированной переменной с функцией
func asPositionsFunc(sym goplugin.Symbol) (positionsFunc, bool) {
	switch fn := sym.(type) {
	case func([]byte) ([]byte, error):
		return fn, true
	case *func([]byte) ([]byte, error):
		return *fn, true
	default:
		return nil, false
	}
}

func asRashiFunc(sym goplugin.Symbol) func(float64) string {
	switch fn := sym.(type) {
	case func(float64) string:
		return fn
	case *func(float64) string:
		return *fn
	default:
		return nil
	}
}
