package resolve_claim

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resolve_claim: invalid input data")

	// ErrCalendarUnavailable возвращается, когда календарный сервис не ответил
	// при попытке конвертации. Оффер при этом не гасится (fail closed):
	// клиент может повторить попытку, пока оффер не истек.
	ErrCalendarUnavailable = errors.New("resolve_claim: calendar service unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("resolve_claim: internal error")
)
