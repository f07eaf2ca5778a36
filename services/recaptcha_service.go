// services/recaptcha_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultSiteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	// ErrCaptchaNotConfigured means RECAPTCHA_SECRET_KEY is missing; the
	// contact form cannot be served without it.
	ErrCaptchaNotConfigured = errors.New("captcha verification is not configured")
	// ErrCaptchaRejected means the token failed verification or scored
	// below the acceptance threshold.
	ErrCaptchaRejected = errors.New("captcha verification failed")
)

// RecaptchaService verifies reCAPTCHA v3 tokens against the siteverify API.
type RecaptchaService struct {
	secret   string
	endpoint string
	minScore float64
	client   *http.Client
}

func NewRecaptchaService() *RecaptchaService {
	secret := os.Getenv("RECAPTCHA_SECRET_KEY")
	if secret == "" {
		log.Println("WARNING: RECAPTCHA_SECRET_KEY is not set, contact form submissions will be rejected")
	}
	minScore := 0.5
	if v, err := strconv.ParseFloat(os.Getenv("RECAPTCHA_MIN_SCORE"), 64); err == nil && v > 0 {
		minScore = v
	}
	return newRecaptchaService(secret, defaultSiteVerifyURL, minScore)
}

func newRecaptchaService(secret, endpoint string, minScore float64) *RecaptchaService {
	return &RecaptchaService{
		secret:   secret,
		endpoint: endpoint,
		minScore: minScore,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a client token with the siteverify endpoint. remoteIP is
// optional and forwarded when present.
func (s *RecaptchaService) Verify(ctx context.Context, token, remoteIP string) error {
	if s.secret == "" {
		return ErrCaptchaNotConfigured
	}

	form := url.Values{}
	form.Set("secret", s.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha verification returned status %d", resp.StatusCode)
	}

	var result siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode captcha verification response: %w", err)
	}

	if !result.Success {
		log.Printf("Captcha token rejected: %v", result.ErrorCodes)
		return ErrCaptchaRejected
	}
	if result.Score < s.minScore {
		log.Printf("Captcha score %.2f below threshold %.2f", result.Score, s.minScore)
		return ErrCaptchaRejected
	}
	return nil
}
