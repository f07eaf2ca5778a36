// services/recaptcha_service_test.go
package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteVerifyStub(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		assert.NotEmpty(t, r.Form.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestVerifyAcceptsHighScore(t *testing.T) {
	server := siteVerifyStub(t, `{"success":true,"score":0.9}`)
	defer server.Close()

	svc := newRecaptchaService("test-secret", server.URL, 0.5)
	assert.NoError(t, svc.Verify(context.Background(), "token", "1.2.3.4"))
}

func TestVerifyRejectsLowScore(t *testing.T) {
	server := siteVerifyStub(t, `{"success":true,"score":0.2}`)
	defer server.Close()

	svc := newRecaptchaService("test-secret", server.URL, 0.5)
	assert.ErrorIs(t, svc.Verify(context.Background(), "token", ""), ErrCaptchaRejected)
}

func TestVerifyRejectsFailedToken(t *testing.T) {
	server := siteVerifyStub(t, `{"success":false,"error-codes":["invalid-input-response"]}`)
	defer server.Close()

	svc := newRecaptchaService("test-secret", server.URL, 0.5)
	assert.ErrorIs(t, svc.Verify(context.Background(), "token", ""), ErrCaptchaRejected)
}

func TestVerifyWithoutSecret(t *testing.T) {
	svc := newRecaptchaService("", "http://unused.invalid", 0.5)
	assert.ErrorIs(t, svc.Verify(context.Background(), "token", ""), ErrCaptchaNotConfigured)
}

func TestVerifyUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newRecaptchaService("test-secret", server.URL, 0.5)
	err := svc.Verify(context.Background(), "token", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCaptchaRejected)
	assert.NotErrorIs(t, err, ErrCaptchaNotConfigured)
}
