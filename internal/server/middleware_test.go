package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			"x-forwarded-for single",
			map[string]string{"X-Forwarded-For": "203.0.113.7"},
			"10.0.0.1:1234",
			"203.0.113.7",
		},
		{
			"x-forwarded-for chain takes first hop",
			map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.3"},
			"10.0.0.1:1234",
			"203.0.113.7",
		},
		{
			"x-real-ip fallback",
			map[string]string{"X-Real-Ip": "198.51.100.9"},
			"10.0.0.1:1234",
			"198.51.100.9",
		},
		{
			"remote addr fallback",
			nil,
			"10.0.0.1:1234",
			"10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec}

	sr.WriteHeader(http.StatusNotFound)
	n, err := sr.Write([]byte("missing"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sr.status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", sr.status)
	}
	if sr.bytes != n || sr.bytes != len("missing") {
		t.Errorf("expected %d bytes recorded, got %d", len("missing"), sr.bytes)
	}
}

func TestStatusRecorder_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec}

	if _, err := sr.Write([]byte("body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sr.status != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", sr.status)
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	srv := New(testConfig(), &stubUpdater{})
	called := false
	handler := srv.accessLog("/test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test?key=abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("expected wrapped handler to be called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status passthrough, got %d", rec.Code)
	}
}
