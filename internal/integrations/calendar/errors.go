package calendar

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда слот уже занят или не существует.
	// Бизнес-исход, а не сбой: вызывающий код переходит к следующему кандидату.
	ErrSlotUnavailable = errors.New("calendar client: slot is not available")

	// ErrNoMatchingSlot возвращается, когда на дату нет подходящего свободного слота
	ErrNoMatchingSlot = errors.New("calendar client: no matching free slot")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("calendar client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("calendar client: invalid response")

	// ErrUnavailable возвращается, когда календарный сервис недоступен
	// или не ответил в таймаут. Операция должна завершиться без изменения
	// состояния (fail closed).
	ErrUnavailable = errors.New("calendar client: service unavailable")
)
