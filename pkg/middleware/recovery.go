package middleware

import (
	apperrors "campsite/pkg/errors"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"fmt"
	"net/http"
	"runtime/debug"
)

const MsgInternalError = "Internal server error"

// Recovery turns a handler panic into a SystemFailure response. http.ErrAbortHandler
// is re-raised so the server can drop the connection. When Recovery sits outside
// Transaction the id is taken from the response header already set downstream.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				r := withTransactionFromHeader(r, w.Header())
				log.WithTransaction(r.Context()).Error("Panic recovered",
					"panic", fmt.Sprint(p),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				_ = httputil.WriteError(w, r, apperrors.SystemFailure(MsgInternalError, fmt.Errorf("panic: %v", p)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func withTransactionFromHeader(r *http.Request, header http.Header) *http.Request {
	if logger.TransactionIDFromContext(r.Context()) != "" {
		return r
	}
	id := header.Get(httputil.HeaderTransactionID)
	if id == "" {
		return r
	}
	return r.WithContext(logger.ContextWithTransactionID(r.Context(), id))
}
