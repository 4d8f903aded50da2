package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken(42, time.Hour, "app-secret")
	require.NoError(t, err)

	claims, err := ValidateResetToken(token, "app-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestResetTokenExpired(t *testing.T) {
	token, err := GenerateResetToken(42, -time.Minute, "app-secret")
	require.NoError(t, err)

	_, err = ValidateResetToken(token, "app-secret")
	require.Error(t, err)
}

func TestResetTokenWrongSecret(t *testing.T) {
	token, err := GenerateResetToken(42, time.Hour, "app-secret")
	require.NoError(t, err)

	_, err = ValidateResetToken(token, "other-secret")
	require.Error(t, err)
}

func TestResetTokenTampered(t *testing.T) {
	token, err := GenerateResetToken(42, time.Hour, "app-secret")
	require.NoError(t, err)

	_, err = ValidateResetToken(token+"x", "app-secret")
	require.Error(t, err)
	_, err = ValidateResetToken("garbage", "app-secret")
	require.Error(t, err)
	_, err = ValidateResetToken("", "app-secret")
	require.Error(t, err)
}

func TestResetTokenRequiresSecret(t *testing.T) {
	_, err := GenerateResetToken(42, time.Hour, "")
	require.Error(t, err)
}
