package claim_offer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resolveClaim "github.com/m04kA/SMC-WaitlistService/internal/usecase/resolve_claim"
)

type fakeUseCase struct {
	resp    *resolveClaim.Response
	err     error
	lastReq *resolveClaim.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *resolveClaim.Request) (*resolveClaim.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRouter(uc ResolveClaimUseCase) *mux.Router {
	h := NewHandler(uc, nopLogger{})
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/claims/{offerToken}", h.Handle).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/claims/{offerToken}/decline", h.HandleDecline).Methods(http.MethodGet)
	return r
}

func doPost(t *testing.T, router *mux.Router, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/"+token, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_AcceptReturnsBookingID(t *testing.T) {
	bookingID := int64(555)
	uc := &fakeUseCase{resp: &resolveClaim.Response{Status: resolveClaim.StatusAccepted, BookingID: &bookingID}}
	router := newRouter(uc)

	rec := doPost(t, router, "token123", ClaimOfferRequest{Action: "accept"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ClaimOfferResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	require.NotNil(t, resp.BookingID)
	assert.Equal(t, int64(555), *resp.BookingID)

	require.NotNil(t, uc.lastReq)
	assert.Equal(t, "token123", uc.lastReq.Token)
	assert.Equal(t, "link", uc.lastReq.Channel, "channel defaults to link")
}

func TestHandle_OutcomeStaysInBodyNotStatus(t *testing.T) {
	// expired и invalid - штатные исходы протокола, HTTP статус всегда 200
	for _, status := range []string{resolveClaim.StatusExpired, resolveClaim.StatusInvalid, resolveClaim.StatusDeclined} {
		uc := &fakeUseCase{resp: &resolveClaim.Response{Status: status}}
		router := newRouter(uc)

		rec := doPost(t, router, "token123", ClaimOfferRequest{Action: "decline"})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp ClaimOfferResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, status, resp.Status)
		assert.Nil(t, resp.BookingID)
	}
}

func TestHandle_InvalidActionIsBadRequest(t *testing.T) {
	uc := &fakeUseCase{err: resolveClaim.ErrInvalidInput}
	router := newRouter(uc)

	rec := doPost(t, router, "token123", ClaimOfferRequest{Action: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_CalendarDownIsServiceUnavailable(t *testing.T) {
	uc := &fakeUseCase{err: resolveClaim.ErrCalendarUnavailable}
	router := newRouter(uc)

	rec := doPost(t, router, "token123", ClaimOfferRequest{Action: "accept"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleDecline_OneClick(t *testing.T) {
	uc := &fakeUseCase{resp: &resolveClaim.Response{Status: resolveClaim.StatusDeclined}}
	router := newRouter(uc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/claims/token123/decline?channel=operator", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastReq)
	assert.Equal(t, resolveClaim.ActionDecline, uc.lastReq.Action)
	assert.Equal(t, "operator", uc.lastReq.Channel)
}
