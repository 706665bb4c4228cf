package domain

import (
	"errors"
	"fmt"
)

// ErrorKind класс ошибки, определяет HTTP-статус ответа
type ErrorKind int

const (
	KindClientInput ErrorKind = iota + 1
	KindCapabilityUnavailable
	KindEngineFailure
	KindUpstreamNotFound
	KindUpstreamFailure
)

const (
	MsgMissingParams      = "Missing required parameters: dateTime, latitude, longitude"
	MsgInvalidDate        = "Invalid date format"
	MsgInvalidCoordinates = "Invalid latitude or longitude"
	MsgLatitudeRange      = "Latitude must be between -90 and 90"
	MsgLongitudeRange     = "Longitude must be between -180 and 180"
	MsgInvalidTimezone    = "Invalid timezone"
	MsgInvalidJSON        = "Invalid JSON body"
	MsgCalculationFailed  = "Failed to calculate rashi"
	MsgMissingLocation    = "Missing location query"
	MsgLocationNotFound   = "Location not found"
	MsgGeocodingFailed    = "Failed to geocode location"
)

// ClientInputError некорректный ввод клиента, сообщение фиксированное
type ClientInputError struct {
	Message string
}

func (e *ClientInputError) Error() string {
	return e.Message
}

func NewClientInputError(message string) error {
	return &ClientInputError{Message: message}
}

// CapabilityUnavailableError опциональный модуль не загрузился при старте
type CapabilityUnavailableError struct {
	Module string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("%s module not available", e.Module)
}

// EngineFailureError движок расчётов упал во время вычисления.
// Текст исходной ошибки идёт только в диагностическое поле message.
type EngineFailureError struct {
	Err error
}

func (e *EngineFailureError) Error() string {
	return MsgCalculationFailed
}

func (e *EngineFailureError) Unwrap() error {
	return e.Err
}

// Detail текст исходной ошибки движка
func (e *EngineFailureError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func WrapEngineFailure(err error) error {
	if err == nil {
		return nil
	}
	return &EngineFailureError{Err: err}
}

// UpstreamProviderError ошибка геокодера или пустой результат
type UpstreamProviderError struct {
	NotFound bool
	Err      error
}

func (e *UpstreamProviderError) Error() string {
	if e.NotFound {
		return MsgLocationNotFound
	}
	return MsgGeocodingFailed
}

func (e *UpstreamProviderError) Unwrap() error {
	return e.Err
}

// KindOf определяет класс ошибки; неизвестные ошибки считаются сбоем движка
func KindOf(err error) ErrorKind {
	var (
		inputErr    *ClientInputError
		capErr      *CapabilityUnavailableError
		upstreamErr *UpstreamProviderError
	)
	switch {
	case errors.As(err, &inputErr):
		return KindClientInput
	case errors.As(err, &capErr):
		return KindCapabilityUnavailable
	case errors.As(err, &upstreamErr):
		if upstreamErr.NotFound {
			return KindUpstreamNotFound
		}
		return KindUpstreamFailure
	default:
		return KindEngineFailure
	}
}
