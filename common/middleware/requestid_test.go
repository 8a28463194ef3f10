package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name              string
		existingRequestID string
		expectNewID       bool
	}{
		{
			name:              "generates new request ID when not present",
			existingRequestID: "",
			expectNewID:       true,
		},
		{
			name:              "propagates existing request ID",
			existingRequestID: "existing-req-123",
			expectNewID:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var capturedRequestID string

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedRequestID = GetRequestID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "http://example.com/test", nil)
			if tt.existingRequestID != "" {
				req.Header.Set("X-Request-ID", tt.existingRequestID)
			}
			w := httptest.NewRecorder()

			RequestID(handler).ServeHTTP(w, req)

			responseRequestID := w.Header().Get("X-Request-ID")
			if responseRequestID == "" {
				t.Error("expected X-Request-ID header in response")
			}
			if capturedRequestID == "" {
				t.Error("expected request ID in context")
			}

			if tt.expectNewID {
				if _, err := uuid.Parse(capturedRequestID); err != nil {
					t.Errorf("expected valid UUID, got %q: %v", capturedRequestID, err)
				}
				if responseRequestID != capturedRequestID {
					t.Errorf("response header %q doesn't match context %q", responseRequestID, capturedRequestID)
				}
			} else {
				if capturedRequestID != tt.existingRequestID {
					t.Errorf("expected request ID %q, got %q", tt.existingRequestID, capturedRequestID)
				}
				if responseRequestID != tt.existingRequestID {
					t.Errorf("expected response header %q, got %q", tt.existingRequestID, responseRequestID)
				}
			}
		})
	}
}

func TestGetRequestID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/test", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("expected empty string without middleware, got %q", got)
	}
}

func TestRequestID_UniqueIDs(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mw := RequestID(handler)

	requestIDs := make(map[string]bool)
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "http://example.com/test", nil)
		w := httptest.NewRecorder()

		mw.ServeHTTP(w, req)

		requestID := w.Header().Get("X-Request-ID")
		if requestID == "" {
			t.Fatal("expected request ID in response")
		}
		if requestIDs[requestID] {
			t.Errorf("duplicate request ID generated: %s", requestID)
		}
		requestIDs[requestID] = true
	}

	if len(requestIDs) != 100 {
		t.Errorf("expected 100 unique IDs, got %d", len(requestIDs))
	}
}
