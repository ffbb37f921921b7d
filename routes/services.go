package routes

import (
	"guesthouse-server/services"
)

// Collaborators used by the handlers. Wired once in main (or swapped by
// tests); the channel client carries its own injected configuration.
var (
	channel  *services.Beds24Client
	mailer   services.Mailer          = services.LogMailer{}
	payments services.PaymentProvider = services.RecordingPaymentProvider{}
)

func InitServices(c *services.Beds24Client, m services.Mailer) {
	channel = c
	if m != nil {
		mailer = m
	}
}
