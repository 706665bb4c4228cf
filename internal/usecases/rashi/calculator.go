package rashi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/admin/astro/rashi-api/internal/domain"
	"github.com/admin/astro/rashi-api/internal/ports/engine"
)

const defaultCalcTimeout = 10 * time.Second

var errMoonMissing = errors.New("engine result has no moon position")

// Calculator вызывает движок и собирает результат.
// Доступность движка проверяет вызывающий код.
type Calculator struct {
	timeout time.Duration
}

func NewCalculator(timeout time.Duration) *Calculator {
	if timeout <= 0 {
		timeout = defaultCalcTimeout
	}
	return &Calculator{timeout: timeout}
}

type calcOutcome struct {
	result domain.CalculationResult
	err    error
}

// Calculate любая ошибка движка, паника или истечение дедлайна
// возвращаются как domain.EngineFailureError
func (c *Calculator) Calculate(ctx context.Context, eng engine.Engine, details domain.NormalizedBirthDetails) (domain.CalculationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan calcOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- calcOutcome{err: fmt.Errorf("engine panic: %v", r)}
			}
		}()
		res, err := c.calculate(ctx, eng, details)
		done <- calcOutcome{result: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return domain.CalculationResult{}, domain.WrapEngineFailure(out.err)
		}
		return out.result, nil
	case <-ctx.Done():
		return domain.CalculationResult{}, domain.WrapEngineFailure(ctx.Err())
	}
}

func (c *Calculator) calculate(ctx context.Context, eng engine.Engine, details domain.NormalizedBirthDetails) (domain.CalculationResult, error) {
	planets, err := eng.Positions(ctx, details)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	longitude, err := moonLongitude(planets)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	sign, err := eng.Rashi(ctx, longitude)
	if err != nil {
		return domain.CalculationResult{}, err
	}

	return domain.CalculationResult{
		Moon: domain.MoonPosition{
			Longitude: longitude,
			Rashi:     sign,
		},
		AllPlanets: planets,
	}, nil
}

func moonLongitude(planets domain.PlanetPositions) (float64, error) {
	raw, ok := planets[domain.MoonSymbol]
	if !ok {
		return 0, errMoonMissing
	}

	var moon struct {
		Longitude *float64 `json:"longitude"`
	}
	if err := json.Unmarshal(raw, &moon); err != nil {
		return 0, fmt.Errorf("malformed moon position: %w", err)
	}
	if moon.Longitude == nil {
		return 0, fmt.Errorf("moon position has no longitude")
	}
	if math.IsNaN(*moon.Longitude) || math.IsInf(*moon.Longitude, 0) {
		return 0, fmt.Errorf("moon longitude is not finite")
	}

	return *moon.Longitude, nil
}
