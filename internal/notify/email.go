package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
)

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: host + ":" + strconv.Itoa(port),
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := BuildMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// BuildMessage renders a multipart/alternative message with the plain body
// and an HTML part converted from it as markdown.
func BuildMessage(from, to, subject, body string) ([]byte, error) {
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(body), &html); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	for _, p := range []struct {
		ctype string
		data  []byte
	}{
		{"text/plain; charset=UTF-8", []byte(body)},
		{"text/html; charset=UTF-8", html.Bytes()},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.ctype},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("create mime part: %w", err)
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write(p.data); err != nil {
			return nil, fmt.Errorf("write mime part: %w", err)
		}
		if err := qp.Close(); err != nil {
			return nil, fmt.Errorf("close mime part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var msg bytes.Buffer
	header := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("UTF-8", subject),
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary(),
	}
	msg.WriteString(strings.Join(header, "\r\n"))
	msg.WriteString("\r\n\r\n")
	msg.Write(parts.Bytes())
	return msg.Bytes(), nil
}
