// controllers/contact_controller_test.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brighthaven/brighthaven_backend/models"
	"github.com/brighthaven/brighthaven_backend/services"
)

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

type stubVerifier struct {
	err error
}

func (s *stubVerifier) Verify(_ context.Context, token, remoteIP string) error {
	return s.err
}

type stubContactMailer struct {
	err  error
	sent []models.ContactRequest
}

func (s *stubContactMailer) SendContactMessage(msg models.ContactRequest) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

const contactBody = `{
	"name": "Jordan Blake",
	"email": "jordan@example.com",
	"phone": "+12025550147",
	"interest": "services",
	"message": "Looking for weekend care for my mother.",
	"captchaToken": "tok"
}`

func submitContact(t *testing.T, verifier *stubVerifier, mailer *stubContactMailer, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	cc := NewContactController(verifier, mailer)
	require.NoError(t, cc.SubmitContactForm(c))
	return rec
}

func TestSubmitContactForm(t *testing.T) {
	mailer := &stubContactMailer{}
	rec := submitContact(t, &stubVerifier{}, mailer, contactBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jordan@example.com", mailer.sent[0].Email)
	assert.Equal(t, "services", mailer.sent[0].Interest)
}

func TestSubmitContactFormMissingFields(t *testing.T) {
	mailer := &stubContactMailer{}
	rec := submitContact(t, &stubVerifier{}, mailer, `{"name":"Jordan"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, mailer.sent)
}

func TestSubmitContactFormInvalidInterest(t *testing.T) {
	body := strings.Replace(contactBody, `"services"`, `"other"`, 1)
	rec := submitContact(t, &stubVerifier{}, &stubContactMailer{}, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitContactFormCaptchaRejected(t *testing.T) {
	mailer := &stubContactMailer{}
	rec := submitContact(t, &stubVerifier{err: services.ErrCaptchaRejected}, mailer, contactBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, mailer.sent)
}

func TestSubmitContactFormCaptchaNotConfigured(t *testing.T) {
	rec := submitContact(t, &stubVerifier{err: services.ErrCaptchaNotConfigured}, &stubContactMailer{}, contactBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmitContactFormCaptchaUpstreamDown(t *testing.T) {
	rec := submitContact(t, &stubVerifier{err: errors.New("connection refused")}, &stubContactMailer{}, contactBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSubmitContactFormMailerNotConfigured(t *testing.T) {
	mailer := &stubContactMailer{err: services.ErrMailerNotConfigured}
	rec := submitContact(t, &stubVerifier{}, mailer, contactBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSubmitContactFormRelayFailure(t *testing.T) {
	mailer := &stubContactMailer{err: errors.New("smtp timeout")}
	rec := submitContact(t, &stubVerifier{}, mailer, contactBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
