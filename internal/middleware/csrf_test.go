package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/ctxkeys"
)

func csrfServe(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req = req.WithContext(ctxkeys.WithConfig(req.Context(), &config.Config{AppURL: "https://portfolio.example"}))
	rec := httptest.NewRecorder()
	CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, ctxkeys.CSRFToken(r.Context()))
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec
}

func TestCSRF_SafeMethodIssuesCookie(t *testing.T) {
	rec := csrfServe(t, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, csrfCookieName, cookies[0].Name)
		assert.True(t, cookies[0].Secure)
	}
}

func TestCSRF_APISameOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://portfolio.example")
	assert.Equal(t, http.StatusOK, csrfServe(t, req).Code)
}

func TestCSRF_APIRefererFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.Header.Set("Referer", "https://portfolio.example/dashboard")
	assert.Equal(t, http.StatusOK, csrfServe(t, req).Code)
}

func TestCSRF_APICrossOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := csrfServe(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid CSRF token"}`, rec.Body.String())
}

func TestCSRF_DoubleSubmitForm(t *testing.T) {
	token := generateCSRFToken()

	form := url.Values{csrfFormField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	assert.Equal(t, http.StatusOK, csrfServe(t, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(url.Values{csrfFormField: {"forged"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	assert.Equal(t, http.StatusForbidden, csrfServe(t, req).Code)
}

func TestCSRF_APIHeaderWithoutOrigin(t *testing.T) {
	token := generateCSRFToken()

	req := httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeader, token)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})
	assert.Equal(t, http.StatusOK, csrfServe(t, req).Code)

	req = httptest.NewRequest(http.MethodPatch, "/api/profile", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusForbidden, csrfServe(t, req).Code)
}
