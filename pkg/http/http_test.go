package http

import (
	apperrors "campsite/pkg/errors"
	"campsite/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_UsesTransactionID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logger.ContextWithTransactionID(r.Context(), "T9"))
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, r, apperrors.NotFoundWithID("BookingId", 4)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "T9", w.Header().Get(HeaderTransactionID))

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "T9", body.TransactionID)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "BookingId: 4 is not found", body.Errors[0].Description)
}

func TestWriteError_PlainErrorIsSystemFailure(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, WriteError(w, r, errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestWriteCreated(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteCreated(w, map[string]int{"bookingId": 1}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"bookingId":1}}`, w.Body.String())
}

func TestParseID(t *testing.T) {
	for _, tc := range []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	} {
		got, err := ParseID(httprouter.Params{{Key: "id", Value: tc.raw}}, "id")
		if tc.wantErr {
			assert.True(t, apperrors.IsClientError(err), tc.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"jane"}`))
	require.NoError(t, DecodeJSON(r, &v))
	assert.Equal(t, "jane", v.Name)

	for _, body := range []string{`{"name":`, `{"name":"a"}{"name":"b"}`, ``} {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := DecodeJSON(r, &v)
		var appErr *apperrors.AppError
		require.True(t, errors.As(err, &appErr), body)
		assert.Equal(t, MsgMalformedBody, appErr.Message())
	}
}
