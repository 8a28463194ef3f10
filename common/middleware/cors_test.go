package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	tests := []struct {
		name                 string
		config               CORSConfig
		origin               string
		method               string
		expectOriginHeader   bool
		expectedOrigin       string
		expectedMethods      string
		expectedHeaders      string
		expectedStatus       int
		expectedResponseBody string
	}{
		{
			name: "exact origin match",
			config: CORSConfig{
				AllowedOrigins: []string{"https://example.com"},
				AllowedMethods: []string{"GET", "POST"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:               "https://example.com",
			method:               "GET",
			expectOriginHeader:   true,
			expectedOrigin:       "https://example.com",
			expectedMethods:      "GET, POST",
			expectedHeaders:      "Content-Type",
			expectedStatus:       http.StatusOK,
			expectedResponseBody: "OK",
		},
		{
			name: "wildcard allows any origin",
			config: CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"Authorization"},
			},
			origin:               "https://app.example.com",
			method:               "GET",
			expectOriginHeader:   true,
			expectedOrigin:       "https://app.example.com",
			expectedMethods:      "GET",
			expectedHeaders:      "Authorization",
			expectedStatus:       http.StatusOK,
			expectedResponseBody: "OK",
		},
		{
			name: "origin not in allowed list",
			config: CORSConfig{
				AllowedOrigins: []string{"https://example.com"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:               "https://evil.com",
			method:               "GET",
			expectOriginHeader:   false,
			expectedMethods:      "GET",
			expectedHeaders:      "Content-Type",
			expectedStatus:       http.StatusOK,
			expectedResponseBody: "OK",
		},
		{
			name: "preflight OPTIONS request",
			config: CORSConfig{
				AllowedOrigins: []string{"https://example.com"},
				AllowedMethods: []string{"GET", "POST", "PUT"},
				AllowedHeaders: []string{"Content-Type", "Authorization"},
			},
			origin:             "https://example.com",
			method:             "OPTIONS",
			expectOriginHeader: true,
			expectedOrigin:     "https://example.com",
			expectedMethods:    "GET, POST, PUT",
			expectedHeaders:    "Content-Type, Authorization",
			expectedStatus:     http.StatusNoContent,
			// OPTIONS must not reach the next handler
			expectedResponseBody: "",
		},
		{
			name: "no origin header",
			config: CORSConfig{
				AllowedOrigins: []string{"https://example.com"},
				AllowedMethods: []string{"GET"},
				AllowedHeaders: []string{"Content-Type"},
			},
			origin:               "",
			method:               "GET",
			expectOriginHeader:   false,
			expectedMethods:      "GET",
			expectedHeaders:      "Content-Type",
			expectedStatus:       http.StatusOK,
			expectedResponseBody: "OK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "http://example.com/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()

			CORS(tt.config)(handler).ServeHTTP(w, req)

			if tt.expectOriginHeader {
				if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
					t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectedOrigin)
				}
			} else {
				if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
					t.Errorf("unexpected Access-Control-Allow-Origin %q", got)
				}
			}

			if got := w.Header().Get("Access-Control-Allow-Methods"); got != tt.expectedMethods {
				t.Errorf("Access-Control-Allow-Methods = %q, want %q", got, tt.expectedMethods)
			}
			if got := w.Header().Get("Access-Control-Allow-Headers"); got != tt.expectedHeaders {
				t.Errorf("Access-Control-Allow-Headers = %q, want %q", got, tt.expectedHeaders)
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if body := w.Body.String(); body != tt.expectedResponseBody {
				t.Errorf("body = %q, want %q", body, tt.expectedResponseBody)
			}
		})
	}
}
