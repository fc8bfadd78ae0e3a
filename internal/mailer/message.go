package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
)

// Bytes renders the message in RFC 5322 wire format.
func (m Message) Bytes(now time.Time) ([]byte, error) {
	var out bytes.Buffer
	body := multipart.NewWriter(&out)

	from := mail.Address{Name: m.FromName, Address: m.FromEmail}
	to := make([]string, len(m.To))
	for i, addr := range m.To {
		to[i] = (&mail.Address{Address: addr}).String()
	}

	fmt.Fprintf(&out, "From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n",
		from.String(),
		strings.Join(to, ", "),
		mime.QEncoding.Encode("utf-8", m.Subject),
		now.Format(time.RFC1123Z),
		body.Boundary(),
	)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", m.Text},
		{"text/html; charset=UTF-8", m.HTML},
	} {
		w, err := body.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(part.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := body.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
