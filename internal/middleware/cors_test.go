package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	cases := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"wildcard", []string{"*"}, "http://a.test", http.MethodGet, "*", http.StatusTeapot},
		{"listed origin", []string{"http://a.test"}, "http://a.test", http.MethodGet, "http://a.test", http.StatusTeapot},
		{"unlisted origin", []string{"http://a.test"}, "http://b.test", http.MethodGet, "", http.StatusTeapot},
		{"preflight", []string{"*"}, "http://a.test", http.MethodOptions, "*", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/", nil)
		req.Header.Set("Origin", tc.origin)
		resp := httptest.NewRecorder()
		CORS(tc.allowed)(next).ServeHTTP(resp, req)

		if got := resp.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
			t.Fatalf("%s: allow origin = %q, want %q", tc.name, got, tc.wantOrigin)
		}
		if resp.Code != tc.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.Code, tc.wantStatus)
		}
	}
}
