package entitlement

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"type":"subscription.started"}`)
	secret := "whsec_test"

	assert.True(t, VerifyWebhookSignature(payload, signPayload(payload, secret), secret))
}

func TestVerifyWebhookSignatureRejectsTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	sig := signPayload([]byte(`{"amount":10}`), secret)

	assert.False(t, VerifyWebhookSignature([]byte(`{"amount":1000}`), sig, secret))
}

func TestVerifyWebhookSignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{}`)

	assert.False(t, VerifyWebhookSignature(payload, signPayload(payload, "other"), "whsec_test"))
}

func TestVerifyWebhookSignatureRejectsMissingInput(t *testing.T) {
	payload := []byte(`{}`)

	assert.False(t, VerifyWebhookSignature(payload, "", "whsec_test"))
	assert.False(t, VerifyWebhookSignature(payload, signPayload(payload, "whsec_test"), ""))
}
