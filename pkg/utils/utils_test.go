package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "billing-api")

	token, expiresAt, err := m.GenerateAccessToken("STAFF-001", "Vikram Singh")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "STAFF-001", claims.StaffID)
	assert.Equal(t, "Vikram Singh", claims.StaffName)
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Hour, "billing-api").GenerateAccessToken("STAFF-001", "x")
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour, "billing-api").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute, "billing-api")
	token, _, err := m.GenerateAccessToken("STAFF-001", "x")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestGeneratedIDs(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^INV-[0-9A-F]{8}$`), GenerateInvoiceNo())
	assert.Regexp(t, regexp.MustCompile(`^GUEST-\d{4}$`), GenerateGuestPhone())
}
