package middleware

import (
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TransactionIDGenerator mints one id per request. The booking sequence
// repository implements it with a durable counter.
type TransactionIDGenerator interface {
	NextTransactionID(ctx context.Context) (string, error)
}

// Transaction stores a fresh transaction id in the request context and echoes it in
// the X-Transaction-Id header. A random id is used when the generator fails.
func Transaction(gen TransactionIDGenerator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			txID := ""
			if gen != nil {
				id, err := gen.NextTransactionID(r.Context())
				if err != nil {
					log.Warn("Failed to allocate transaction id", "error", err, "path", r.URL.Path)
				} else {
					txID = id
				}
			}
			if txID == "" {
				txID = uuid.NewString()
			}

			w.Header().Set(httputil.HeaderTransactionID, txID)
			ctx := logger.ContextWithTransactionID(r.Context(), txID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
