package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// newFakeService spins up a fake API server and a client pointed at it.
func newFakeService(t *testing.T, handler http.HandlerFunc) *youtube.Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("create fake service: %v", err)
	}
	return svc
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// noPacing removes inter-page delays so tests run instantly.
func noPacing(e *Enumerator) *Enumerator {
	e.limiter = rate.NewLimiter(rate.Inf, 1)
	e.cooldown = 0
	return e
}

// writeAPIError mimics the error envelope the real API produces, which the
// generated client parses into *googleapi.Error.
func writeAPIError(w http.ResponseWriter, code int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{
		"error": {
			"code": %d,
			"message": %q,
			"errors": [{"reason": %q, "message": %q}]
		}
	}`, code, message, reason, message)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode fake response: %v", err)
	}
}
