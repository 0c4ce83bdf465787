package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TwilioSMS sends messages through the Twilio Messages REST API.
type TwilioSMS struct {
	baseURL string
	sid     string
	token   string
	from    string
	client  *http.Client
}

func NewTwilioSMS(baseURL, sid, token, from string, timeout time.Duration) *TwilioSMS {
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TwilioSMS{
		baseURL: strings.TrimRight(baseURL, "/"),
		sid:     sid,
		token:   token,
		from:    from,
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	form := url.Values{"To": {to}, "From": {t.from}, "Body": {body}}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.sid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.sid, t.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
