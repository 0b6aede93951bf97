package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74/webhook"
)

const completedSessionEvent = `{
  "id": "evt_1",
  "object": "event",
  "api_version": "2099-01-01",
  "type": "checkout.session.completed",
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "customer_email": "hr@acme.io",
      "payment_status": "paid",
      "payment_intent": "pi_1",
      "amount_total": 800,
      "metadata": {"packageName": "Standard", "employeeLimit": "10"}
    }
  }
}`

func TestStripeProviderParseWebhook(t *testing.T) {
	provider := NewStripeProvider("sk_test_gearguard", "whsec_gearguard")
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(completedSessionEvent),
		Secret:  "whsec_gearguard",
	})

	event, err := provider.ParseWebhook(signed.Payload, signed.Header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.Equal(t, "hr@acme.io", event.Session.CustomerEmail)
	assert.True(t, event.Session.Paid)
	assert.Equal(t, "pi_1", event.Session.TransactionID())
	assert.Equal(t, int64(800), event.Session.AmountTotal)
	assert.Equal(t, "Standard", event.Session.Metadata[MetadataPackageName])
}

func TestStripeProviderParseWebhookRejectsBadSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test_gearguard", "whsec_gearguard")
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(completedSessionEvent),
		Secret:  "whsec_other",
	})

	_, err := provider.ParseWebhook(signed.Payload, signed.Header)
	assert.Error(t, err)
}
