package middleware

import (
	apperrors "campsite/pkg/errors"
	httputil "campsite/pkg/http"
	"context"
	"net/http"
	"sync"
	"time"
)

const MsgRequestTimeout = "Request timeout"

// guardedWriter drops everything the handler writes once the deadline response has been sent.
type guardedWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	closed  bool
	started bool
}

func (g *guardedWriter) WriteHeader(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || g.started {
		return
	}
	g.started = true
	g.ResponseWriter.WriteHeader(code)
}

func (g *guardedWriter) Write(b []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, http.ErrHandlerTimeout
	}
	g.started = true
	return g.ResponseWriter.Write(b)
}

// close marks the writer closed and reports whether the handler had started a response.
func (g *guardedWriter) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return g.started
}

// RequestTimeout bounds the request context. If the handler has not started writing
// by the deadline the client gets a 503 with the standard error payload.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			gw := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(gw, r)
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				if !gw.close() {
					_ = httputil.WriteError(w, r, apperrors.Timeout(MsgRequestTimeout))
				}
			}
		})
	}
}
