package middleware

import (
	"bytes"
	httputil "campsite/pkg/http"
	"campsite/pkg/logger"
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultIdempotencyHeader = "Idempotency-Key"
	HeaderIdempotentReplay   = "Idempotent-Replayed"
)

// IdempotencyStore keeps successful responses for replay. Keys arrive already scoped
// by method and path. Set keeps the first response stored under a key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*CachedResponse, bool, error)
	Set(ctx context.Context, key string, response *CachedResponse) error
	Stop()
}

type CachedResponse struct {
	StatusCode int         `json:"statusCode"`
	Headers    http.Header `json:"headers"`
	Body       []byte      `json:"body"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (c *CachedResponse) expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(c.CreatedAt) > ttl
}

// InMemoryIdempotencyStore serves single-replica deployments and tests.
type InMemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]*CachedResponse
	ttl     time.Duration
	stopCh  chan struct{}
	once    sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]*CachedResponse),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go s.evictLoop(min(ttl, time.Hour))
	return s
}

func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*CachedResponse, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || entry.expired(s.ttl, time.Now()) {
		return nil, false, nil
	}
	return entry, true, nil
}

func (s *InMemoryIdempotencyStore) Set(_ context.Context, key string, response *CachedResponse) error {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok && !existing.expired(s.ttl, now) {
		return nil
	}
	response.CreatedAt = now
	s.entries[key] = response
	return nil
}

func (s *InMemoryIdempotencyStore) evictLoop(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.entries {
				if entry.expired(s.ttl, now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.once.Do(func() { close(s.stopCh) })
}

// bodyRecorder copies the response body while passing it through.
type bodyRecorder struct {
	*statusRecorder
	body bytes.Buffer
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	n, err := br.statusRecorder.Write(b)
	br.body.Write(b[:n])
	return n, err
}

// Idempotency replays the stored 2xx response for a repeated key on POST and PUT.
// Store failures are logged and the request runs normally.
func Idempotency(store IdempotencyStore, headerName string, log *logger.Logger) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = DefaultIdempotencyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(headerName)
			if clientKey == "" || (r.Method != http.MethodPost && r.Method != http.MethodPut) {
				next.ServeHTTP(w, r)
				return
			}
			key := r.Method + " " + r.URL.Path + " " + clientKey
			reqLog := log.WithTransaction(r.Context())

			cached, found, err := store.Get(r.Context(), key)
			switch {
			case err != nil:
				reqLog.Warn("Idempotency store lookup failed", "error", err)
			case found:
				reqLog.Info("Replaying idempotent response", "status", cached.StatusCode, "path", r.URL.Path)
				replay(w, cached)
				return
			}

			rec := &bodyRecorder{statusRecorder: &statusRecorder{ResponseWriter: w, status: http.StatusOK}}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}
			headers := w.Header().Clone()
			headers.Del(httputil.HeaderTransactionID)
			if err := store.Set(r.Context(), key, &CachedResponse{
				StatusCode: rec.status,
				Headers:    headers,
				Body:       rec.body.Bytes(),
			}); err != nil {
				reqLog.Warn("Idempotency store write failed", "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for name, values := range cached.Headers {
		w.Header()[name] = append([]string(nil), values...)
	}
	w.Header().Set(HeaderIdempotentReplay, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}
