package middleware

import (
	apperrors "campsite/pkg/errors"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"mime"
	"net/http"
)

const MsgContentType = "Content-Type must be application/json"

// ContentTypeValidation answers 415 when a POST, PUT or PATCH body is not declared as JSON.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				header := r.Header.Get("Content-Type")
				if mediaType, _, err := mime.ParseMediaType(header); err != nil || mediaType != "application/json" {
					log.WithTransaction(r.Context()).Warn("Rejected request body media type",
						"content_type", header,
						"method", r.Method,
						"path", r.URL.Path,
					)
					_ = httputil.WriteError(w, r, apperrors.UnsupportedMediaType(MsgContentType))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
