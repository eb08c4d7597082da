package notify

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioNotifier sends SMS messages through the Twilio REST API.
type TwilioNotifier struct {
	client      *twilio.RestClient
	from        string
	countryCode string
}

// NewTwilioNotifier creates a notifier with explicit credentials; nothing is
// read from ambient process state.
func NewTwilioNotifier(accountSID, authToken, from, countryCode string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioNotifier{client: client, from: from, countryCode: countryCode}
}

// SendSMS normalizes the destination number and delivers the message,
// honoring the context deadline. The Twilio client itself has no context
// support, so the call runs in a goroutine raced against ctx.
func (n *TwilioNotifier) SendSMS(ctx context.Context, phoneNumber, message string) error {
	formatted, err := NormalizePhone(phoneNumber, n.countryCode)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping SMS to unusable phone number")
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(formatted)
	params.SetFrom(n.from)
	params.SetBody(message)

	errCh := make(chan error, 1)
	go func() {
		_, err := n.client.Api.CreateMessage(params)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Str("to", formatted).Msg("Failed to send SMS")
		}
		return err
	case <-ctx.Done():
		log.Error().Err(ctx.Err()).Str("to", formatted).Msg("SMS send timed out")
		return ctx.Err()
	}
}
