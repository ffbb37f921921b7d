package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Mailer sends a rendered transactional email. Every send in this system is
// best-effort: failures are logged by the caller and never fail a booking.
type Mailer interface {
	Send(to, subject, html string) error
}

// LogMailer is the fallback when no mail provider is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, html string) error {
	log.Printf("mail (not configured): to=%s subject=%q bytes=%d", to, subject, len(html))
	return nil
}

// HTTPMailer posts to a transactional-mail HTTP API.
type HTTPMailer struct {
	Endpoint string
	APIKey   string
	From     string

	client *http.Client
}

// NewMailerFromEnv returns an HTTPMailer when MAIL_API_URL is set,
// otherwise a LogMailer.
func NewMailerFromEnv() Mailer {
	endpoint := os.Getenv("MAIL_API_URL")
	if endpoint == "" {
		return LogMailer{}
	}
	return &HTTPMailer{
		Endpoint: endpoint,
		APIKey:   os.Getenv("MAIL_API_KEY"),
		From:     os.Getenv("MAIL_FROM"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *HTTPMailer) Send(to, subject, html string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    m.From,
		"to":      to,
		"subject": subject,
		"html":    html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	res, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("mail provider returned status %d: %s", res.StatusCode, string(body))
	}
	return nil
}

// RenderRoomConfirmation builds the guest-facing room booking email.
func RenderRoomConfirmation(guestName, roomName, checkIn, checkOut, confirmationID string, total float64) (subject, html string) {
	subject = fmt.Sprintf("Booking confirmed — %s", confirmationID)
	html = fmt.Sprintf(
		"<p>Dear %s,</p><p>Your booking of <strong>%s</strong> from %s to %s is confirmed.</p>"+
			"<p>Total: $%.2f<br>Confirmation: %s</p><p>We look forward to welcoming you!</p>",
		guestName, roomName, checkIn, checkOut, total, confirmationID)
	return subject, html
}

// RenderServiceConfirmation builds the guest-facing service booking email.
func RenderServiceConfirmation(guestName, serviceName, date, confirmationID string, total float64) (subject, html string) {
	subject = fmt.Sprintf("%s booking confirmed — %s", serviceName, confirmationID)
	html = fmt.Sprintf(
		"<p>Dear %s,</p><p>Your %s booking for %s is confirmed.</p>"+
			"<p>Total: $%.2f<br>Confirmation: %s</p>",
		guestName, serviceName, date, total, confirmationID)
	return subject, html
}

// SendBestEffort delivers in the caller's goroutine and only logs failures.
func SendBestEffort(m Mailer, to, subject, html string) {
	if err := m.Send(to, subject, html); err != nil {
		log.Printf("mail send failed for %s: %v", to, err)
	}
}
