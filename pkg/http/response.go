package http

import (
	apperrors "campsite/pkg/errors"
	"campsite/pkg/logger"
	"encoding/json"
	"net/http"
)

const HeaderTransactionID = "X-Transaction-Id"

type SuccessResponse struct {
	Data any `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as {"transactionId", "errors": [...]}. Errors that are not
// AppErrors are reported as a system failure.
func WriteError(w http.ResponseWriter, r *http.Request, err error) error {
	appErr := apperrors.AsAppError(err)
	txID := logger.TransactionIDFromContext(r.Context())
	if txID != "" {
		w.Header().Set(HeaderTransactionID, txID)
	}
	return WriteJSON(w, appErr.StatusCode(), appErr.Response(txID))
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}
