package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m04kA/SMC-WaitlistService/internal/domain"
	"github.com/m04kA/SMC-WaitlistService/pkg/types"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с календарным сервисом (движок доступности).
// Сервис владеет календарем броней; этот клиент потребляет его как
// черный ящик с атомарной конвертацией слота в бронь.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента календарного сервиса.
// timeout ограничивает каждый вызов целиком: по его истечении операция
// завершается ErrUnavailable без частичных изменений состояния.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FindMatchingFreeSlot ищет свободный слот под услугу на указанную дату.
// Возвращает ErrNoMatchingSlot, если подходящих слотов нет.
func (c *Client) FindMatchingFreeSlot(ctx context.Context, salonID, serviceID int64, date time.Time, employeeID *int64) (*domain.Slot, error) {
	query := url.Values{}
	query.Set("serviceId", fmt.Sprintf("%d", serviceID))
	query.Set("date", date.Format(domain.DateFormat))
	if employeeID != nil {
		query.Set("employeeId", fmt.Sprintf("%d", *employeeID))
	}

	reqURL := fmt.Sprintf("%s/internal/salons/%d/free-slots/first?%s", c.baseURL, salonID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrNoMatchingSlot
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var slot FreeSlot
	if err := json.NewDecoder(resp.Body).Decode(&slot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return c.toDomainSlot(&slot)
}

// CheckSlotAvailable проверяет, свободен ли конкретный слот прямо сейчас.
// Используется при выдаче оффера: доступность на момент создания записи
// устаревает, перед выдачей слот перепроверяется.
func (c *Client) CheckSlotAvailable(ctx context.Context, salonID, serviceID int64, slot *domain.Slot) (bool, error) {
	query := url.Values{}
	query.Set("serviceId", fmt.Sprintf("%d", serviceID))
	query.Set("date", slot.Date.Format(domain.DateFormat))
	query.Set("startTime", slot.StartTime.String())
	query.Set("endTime", slot.EndTime.String())
	if slot.EmployeeID != nil {
		query.Set("employeeId", fmt.Sprintf("%d", *slot.EmployeeID))
	}

	reqURL := fmt.Sprintf("%s/internal/salons/%d/free-slots/check?%s", c.baseURL, salonID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result checkSlotResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.Available, nil
}

// ConvertOfferToBooking атомарно конвертирует слот в бронь.
// Календарный сервис гарантирует all-or-nothing: из двух конкурентных
// конвертаций одного слота пройдет ровно одна, вторая получит
// ErrSlotUnavailable. Вызов идемпотентен по idempotencyKey.
func (c *Client) ConvertOfferToBooking(
	ctx context.Context,
	salonID, serviceID int64,
	slot *domain.Slot,
	customer BookingCustomer,
	idempotencyKey string,
) (int64, error) {
	payload := convertRequest{
		SalonID:        salonID,
		ServiceID:      serviceID,
		EmployeeID:     slot.EmployeeID,
		Date:           slot.Date.Format(domain.DateFormat),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Customer:       customer,
		IdempotencyKey: idempotencyKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	reqURL := fmt.Sprintf("%s/internal/salons/%d/bookings/convert", c.baseURL, salonID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusConflict, http.StatusGone:
		// Слот перехвачен другой бронью
		return 0, ErrSlotUnavailable
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return result.BookingID, nil
}

// ReleaseSlot сообщает календарю, что слот снова свободен (после отказа
// клиента). Best effort: ошибка логируется вызывающим кодом, но не
// блокирует обработку отказа.
func (c *Client) ReleaseSlot(ctx context.Context, salonID, serviceID int64, slot *domain.Slot) error {
	payload := convertRequest{
		SalonID:    salonID,
		ServiceID:  serviceID,
		EmployeeID: slot.EmployeeID,
		Date:       slot.Date.Format(domain.DateFormat),
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	reqURL := fmt.Sprintf("%s/internal/salons/%d/free-slots/release", c.baseURL, salonID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// toDomainSlot конвертирует модель API в доменный слот
func (c *Client) toDomainSlot(slot *FreeSlot) (*domain.Slot, error) {
	date, err := time.Parse(domain.DateFormat, slot.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid slot date %q: %v", ErrInvalidResponse, slot.Date, err)
	}

	for _, ts := range []types.TimeString{slot.StartTime, slot.EndTime} {
		if err := ts.Validate(); err != nil {
			return nil, fmt.Errorf("%w: invalid slot time: %v", ErrInvalidResponse, err)
		}
	}

	if !slot.StartTime.IsBefore(slot.EndTime) {
		return nil, fmt.Errorf("%w: slot end must be after start", ErrInvalidResponse)
	}

	return &domain.Slot{
		Date:       date,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		EmployeeID: slot.EmployeeID,
	}, nil
}

// IsBusinessError возвращает true для ожидаемых бизнес-исходов календаря,
// не являющихся сбоями
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrNoMatchingSlot)
}
