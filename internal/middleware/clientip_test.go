package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		remote     string
		want       string
	}{
		{"forwarded for ignored", false, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "192.0.2.1:1234", "192.0.2.1"},
		{"real ip ignored", false, map[string]string{"X-Real-IP": "198.51.100.2"}, "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded for behind proxy", true, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.1:5555", "203.0.113.7"},
		{"spoofed hop before proxy hop", true, map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.7"}, "10.0.0.1:5555", "203.0.113.7"},
		{"real ip behind proxy", true, map[string]string{"X-Real-IP": " 198.51.100.2 "}, "10.0.0.1:5555", "198.51.100.2"},
		{"proxy without headers", true, nil, "10.0.0.1:5555", "10.0.0.1"},
		{"remote addr", false, nil, "192.0.2.1:1234", "192.0.2.1"},
		{"ipv6 remote addr", false, nil, "[2001:db8::1]:443", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, resolveClientIP(req, tt.trustProxy))
		})
	}
}

func TestClientIP_Middleware(t *testing.T) {
	var got string
	h := ClientIP(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = getClientIP(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.9", got)
}
