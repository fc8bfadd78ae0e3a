// Package mailer delivers digest emails over SMTP.
package mailer

import (
	"context"
	"errors"
)

// ErrNoRecipientsAccepted is returned when the server refused every recipient.
var ErrNoRecipientsAccepted = errors.New("no recipients accepted")

// Message is a multipart/alternative email with a plain text and an HTML body.
type Message struct {
	FromName  string
	FromEmail string
	To        []string
	Subject   string
	Text      string
	HTML      string
}

// Receipt lists which recipients the server took responsibility for.
type Receipt struct {
	Accepted []string
	Rejected map[string]string
}

// Mailer sends a message and reports per-recipient acceptance.
type Mailer interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
