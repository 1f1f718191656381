package handle_cancellation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("handle_cancellation: invalid input data")

	// ErrCalendarUnavailable возвращается, когда календарный сервис не ответил
	// на запрос освободившегося слота
	ErrCalendarUnavailable = errors.New("handle_cancellation: calendar service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("handle_cancellation: internal error")
)
