package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaults(t *testing.T) {
	user, err := CreateUser("tester", "tester@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, ROLE_USER, user.Role)
	assert.Equal(t, STATUS_INACTIVE, user.Status)
	assert.Equal(t, SubscriptionInactive, user.SubscriptionStatus)
	assert.Nil(t, user.SubscriptionTier)
	assert.Nil(t, user.HelioSubscriptionID)
	// password must be stored hashed
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "not-an-email", "123")
	require.Error(t, err)
}

func TestHasActiveSubscription(t *testing.T) {
	u := &User{SubscriptionStatus: SubscriptionInactive}
	assert.False(t, u.HasActiveSubscription())

	u.SubscriptionStatus = SubscriptionActive
	assert.True(t, u.HasActiveSubscription())

	u.SubscriptionStatus = SubscriptionCancelled
	assert.False(t, u.HasActiveSubscription())
}

func TestGenerateActivationToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateActivationToken())

	assert.Len(t, u.ActivationToken, 32)
	require.NotNil(t, u.ActivationSentAt)

	first := u.ActivationToken
	require.NoError(t, u.GenerateActivationToken())
	assert.NotEqual(t, first, u.ActivationToken)
}

func TestSetPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("newpassword"))
	assert.True(t, u.CheckPassword("newpassword"))
}
