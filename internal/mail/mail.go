package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mdobak/go-xerrors"
)

const defaultAPIURL = "https://api.brevo.com/v3/smtp/email"

// Sender delivers transactional email through an HTTP email API. When no
// credentials are supplied the sender is unconfigured and every send is a
// no-op error, callers treat delivery as fire-and-forget and only log it.
type Sender struct {
	apiURL     string
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewSender(apiKey, fromEmail, fromName string) *Sender {
	s := &Sender{
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	if apiKey != "" && fromEmail != "" {
		s.apiKey = apiKey
		s.fromEmail = fromEmail
		s.fromName = fromName
		s.configured = true
	}
	return s
}

// WithAPIURL points the sender at a different endpoint. Used by tests.
func (s *Sender) WithAPIURL(apiURL string) *Sender {
	s.apiURL = apiURL
	return s
}

func (s *Sender) IsConfigured() bool {
	return s.configured
}

type sendEmailRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (s *Sender) SendEmail(ctx context.Context, toEmail, subject, html string) error {
	if !s.configured {
		return xerrors.Newf("mail sender not configured, email to %s skipped", toEmail)
	}

	if toEmail == "" || subject == "" || html == "" {
		return xerrors.New("toEmail, subject and html content must be provided")
	}

	requestBody := sendEmailRequest{
		Sender:      map[string]string{"email": s.fromEmail, "name": s.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return xerrors.New(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return xerrors.New(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return xerrors.New(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return xerrors.Newf("email API returned status %d", resp.StatusCode)
	}

	return nil
}

// SendVerificationEmail mails the signed verification link for the account.
func (s *Sender) SendVerificationEmail(ctx context.Context, toEmail, frontendURL, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", frontendURL, token)
	return s.SendEmail(ctx, toEmail, "Verify Your Email", verificationHTML(link))
}
