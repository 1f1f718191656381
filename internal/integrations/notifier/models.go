package notifier

import "github.com/m04kA/SMC-WaitlistService/pkg/types"

// TemplateWaitlistOffer шаблон уведомления об оффере листа ожидания
const TemplateWaitlistOffer = "waitlist_offer"

// Contact контактные данные получателя: минимум один канал обязателен
type Contact struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// OfferPayload содержимое уведомления об оффере
type OfferPayload struct {
	SlotDate  string           `json:"slotDate"` // YYYY-MM-DD
	SlotStart types.TimeString `json:"slotStart"`
	SlotEnd   types.TimeString `json:"slotEnd"`
	ClaimLink string           `json:"claimLink"`
	ExpiresAt string           `json:"expiresAt"` // ISO 8601
}

// sendRequest запрос на отправку уведомления
type sendRequest struct {
	Template string       `json:"template"`
	Contact  Contact      `json:"contact"`
	Payload  OfferPayload `json:"payload"`
}

// sendResponse ответ сервиса доставки
type sendResponse struct {
	Delivered bool `json:"delivered"`
}
