package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса доставки уведомлений (email/SMS/push).
// Транспорт доставки - ответственность внешнего сервиса; здесь только
// решение об отправке и контракт содержимого.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendOffer отправляет клиенту уведомление об оффере со ссылкой-токеном.
// Возвращает delivered=false с ErrDeliveryFailed при любом сбое доставки:
// вызывающий код не откатывает выдачу оффера, а лишь фиксирует факт
// недоставки (graceful degradation - токен остается действительным).
func (c *Client) SendOffer(ctx context.Context, contact Contact, payload OfferPayload) (bool, error) {
	reqBody := sendRequest{
		Template: TemplateWaitlistOffer,
		Contact:  contact,
		Payload:  payload,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications/send", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("SendOffer: notifier unavailable: %v", err)
		return false, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		c.log.Error("SendOffer: unexpected status code %d: %s", resp.StatusCode, string(respBody))
		return false, fmt.Errorf("%w: unexpected status code %d", ErrDeliveryFailed, resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.Delivered, nil
}
