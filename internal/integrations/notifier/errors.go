package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrDeliveryFailed возвращается, когда сервис доставки недоступен или
	// отклонил отправку. Не откатывает выдачу оффера: токен остается
	// действительным и может быть передан клиенту другим каналом.
	ErrDeliveryFailed = errors.New("notifier client: delivery failed")
)
