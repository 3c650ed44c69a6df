package http

import (
	apperrors "campsite/pkg/errors"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

const (
	MsgMalformedBody = "Malformed JSON request body"
	MsgInvalidID     = "bookingId must be a positive integer"
)

// ParseID reads a positive integer path parameter.
func ParseID(ps httprouter.Params, name string) (int64, error) {
	raw := strings.TrimSpace(ps.ByName(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationFailed(MsgInvalidID)
	}
	return id, nil
}

// DecodeJSON decodes exactly one JSON object from the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.New(apperrors.CodeValidationFailed, http.StatusRequestEntityTooLarge, "Request body too large")
		}
		return apperrors.ValidationFailed(MsgMalformedBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperrors.ValidationFailed(MsgMalformedBody)
	}
	return nil
}
