package waitlist

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist entry not found")

	// ErrNoContactChannel возвращается, когда не указан ни один канал связи
	ErrNoContactChannel = errors.New("at least one contact channel is required")

	// ErrCannotWithdraw возвращается, когда запись уже в терминальном статусе
	ErrCannotWithdraw = errors.New("entry cannot be withdrawn")

	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = errors.New("invalid entry status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
