package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a usable default logger")
	}
}

func TestRequestLoggerInjectsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(ComponentApp, slog.NewTextHandler(&buf, nil))

	var seen *Logger
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		fields := NewFields().
			WithOperation("list customers").
			WithError(errors.New("disk gone"))
		seen.ErrorContext(r.Context(), "operation failed", fields.ToSlice()...)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil {
		t.Fatal("handler did not receive a context logger")
	}
	out := buf.String()
	for _, want := range []string{
		"operation failed",
		"list customers",
		"disk gone",
		"request completed",
		"status_code=500",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}
