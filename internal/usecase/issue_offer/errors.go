package issue_offer

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись не найдена в салоне вызывающего
	ErrEntryNotFound = errors.New("issue_offer: entry not found")

	// ErrOfferPending возвращается, когда по записи уже есть активный оффер.
	// Второй инициатор проигрывает гонку и должен показать
	// "по записи уже есть действующее предложение".
	ErrOfferPending = errors.New("issue_offer: a pending offer already exists")

	// ErrEntryNotWaiting возвращается, когда запись не в статусе waiting
	// (забронирована, отозвана или истекла)
	ErrEntryNotWaiting = errors.New("issue_offer: entry is not in waiting status")

	// ErrEntryInCooldown возвращается, когда запись в окне подавления после отказа
	ErrEntryInCooldown = errors.New("issue_offer: entry is in cooldown window")

	// ErrSlotUnavailable возвращается, когда календарь сообщил, что слот
	// уже занят. Отдельная ошибка, чтобы координатор отмены мог перейти
	// к следующему кандидату.
	ErrSlotUnavailable = errors.New("issue_offer: slot is no longer available")

	// ErrIncompatibleSlot возвращается, когда слот не попадает в окно
	// предпочтений клиента или не совпадает по мастеру
	ErrIncompatibleSlot = errors.New("issue_offer: slot does not match entry preferences")

	// ErrCalendarUnavailable возвращается, когда календарный сервис не ответил.
	// Состояние записи при этом не меняется (fail closed).
	ErrCalendarUnavailable = errors.New("issue_offer: calendar service unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("issue_offer: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("issue_offer: internal error")
)
