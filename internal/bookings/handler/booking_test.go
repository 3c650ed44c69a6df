package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "campsite/pkg/errors"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"campsite/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock service for testing
type mockBookingService struct {
	createFunc       func(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	modifyFunc       func(ctx context.Context, id int64, req *model.BookingModify) (*model.Booking, error)
	getBookingFunc   func(ctx context.Context, id int64) (*model.Booking, error)
	getBookingsFunc  func(ctx context.Context, email, from, to, status string) ([]*model.Booking, error)
	availabilityFunc func(ctx context.Context, from, to string) ([]string, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	return m.createFunc(ctx, req)
}

func (m *mockBookingService) Modify(ctx context.Context, id int64, req *model.BookingModify) (*model.Booking, error) {
	return m.modifyFunc(ctx, id, req)
}

func (m *mockBookingService) Cancel(ctx context.Context, id int64, reason string) (*model.Booking, error) {
	return m.modifyFunc(ctx, id, &model.BookingModify{Action: model.ActionCancel, Reason: reason})
}

func (m *mockBookingService) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	return m.getBookingFunc(ctx, id)
}

func (m *mockBookingService) GetBookings(ctx context.Context, email, from, to, status string) ([]*model.Booking, error) {
	return m.getBookingsFunc(ctx, email, from, to, status)
}

func (m *mockBookingService) GetAvailability(ctx context.Context, from, to string) ([]string, error) {
	return m.availabilityFunc(ctx, from, to)
}

func newTestRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Output: io.Discard, Service: "test"})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(logger.ContextWithTransactionID(req.Context(), "T100"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeErrors(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreate_Returns201(t *testing.T) {
	var received *model.BookingCreate
	svc := &mockBookingService{
		createFunc: func(_ context.Context, req *model.BookingCreate) (*model.Booking, error) {
			received = req
			return &model.Booking{BookingID: 1, Email: req.Email, FromDate: req.FromDate, ToDate: req.ToDate, Status: model.StatusConfirmed}, nil
		},
	}

	body := []byte(`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","fromDate":"2030-06-16","toDate":"2030-06-17"}`)
	rec := serve(newTestRouter(svc), http.MethodPost, BookingsPath, body)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, received)
	assert.Equal(t, "Jane", received.FirstName)

	var resp struct {
		Data model.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.BookingID)
	assert.Equal(t, model.StatusConfirmed, resp.Data.Status)
}

func TestCreate_ErrorPayloadCarriesTransactionID(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(context.Context, *model.BookingCreate) (*model.Booking, error) {
			return nil, apperrors.DateNotAvailable(errors.New("duplicate key"))
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, BookingsPath, []byte(`{"firstName":"a"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrors(t, rec)
	assert.Equal(t, "T100", resp.TransactionID)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Booking dates not available", resp.Errors[0].Description)
}

func TestCreate_MalformedBody(t *testing.T) {
	svc := &mockBookingService{
		createFunc: func(context.Context, *model.BookingCreate) (*model.Booking, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPost, BookingsPath, []byte(`{"firstName":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.MsgMalformedBody, decodeErrors(t, rec).Errors[0].Description)
}

func TestGetByID(t *testing.T) {
	svc := &mockBookingService{
		getBookingFunc: func(_ context.Context, id int64) (*model.Booking, error) {
			if id == 7 {
				return &model.Booking{BookingID: 7}, nil
			}
			return nil, apperrors.NotFoundWithID("BookingId", id)
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"found", "/api/v1/bookings/7", http.StatusOK},
		{"missing", "/api/v1/bookings/8", http.StatusNotFound},
		{"not a number", "/api/v1/bookings/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestUpdate_PassesActionThrough(t *testing.T) {
	var gotID int64
	var gotReq *model.BookingModify
	svc := &mockBookingService{
		modifyFunc: func(_ context.Context, id int64, req *model.BookingModify) (*model.Booking, error) {
			gotID, gotReq = id, req
			return &model.Booking{BookingID: id, Status: model.StatusCancelled, CancellationReason: req.Reason}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPut, "/api/v1/bookings/3", []byte(`{"action":"CANCEL","reason":"weather"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), gotID)
	assert.Equal(t, model.ActionCancel, gotReq.Action)
	assert.Equal(t, "weather", gotReq.Reason)
}

func TestUpdate_AlreadyInProgress(t *testing.T) {
	svc := &mockBookingService{
		modifyFunc: func(context.Context, int64, *model.BookingModify) (*model.Booking, error) {
			return nil, apperrors.AlreadyInProgress("Booking is already in progress and cannot be modified")
		},
	}

	rec := serve(newTestRouter(svc), http.MethodPut, "/api/v1/bookings/3", []byte(`{"action":"MODIFY","fromDate":"2030-06-16","toDate":"2030-06-16"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_ForwardsQuery(t *testing.T) {
	var got []string
	svc := &mockBookingService{
		getBookingsFunc: func(_ context.Context, email, from, to, status string) ([]*model.Booking, error) {
			got = []string{email, from, to, status}
			return []*model.Booking{}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/bookings?email=a%40b.com&fromDate=2020-12-33&status=CONFIRMED", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a@b.com", "2020-12-33", "", "CONFIRMED"}, got)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestSearch_SystemFailure(t *testing.T) {
	svc := &mockBookingService{
		getBookingsFunc: func(context.Context, string, string, string, string) ([]*model.Booking, error) {
			return nil, apperrors.SystemFailure("Failed to retrieve bookings", errors.New("timeout"))
		},
	}

	rec := serve(newTestRouter(svc), http.MethodGet, BookingsPath, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "timeout")
}

func TestAvailability(t *testing.T) {
	svc := &mockBookingService{
		availabilityFunc: func(_ context.Context, from, to string) ([]string, error) {
			assert.Equal(t, "2030-06-16", from)
			assert.Equal(t, "2030-06-18", to)
			return []string{"2030-06-16", "2030-06-18"}, nil
		},
	}

	rec := serve(newTestRouter(svc), http.MethodGet, "/api/v1/availability?fromDate=2030-06-16&toDate=2030-06-18", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["2030-06-16","2030-06-18"]}`, rec.Body.String())
}
