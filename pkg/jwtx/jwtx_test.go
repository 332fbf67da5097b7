package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "adoptly-identity"
	testAudience = "adoptly"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestPair(t *testing.T) (*Signer, *Verifier) {
	t.Helper()

	signer, err := NewSigner(testSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	verifier, err := NewVerifier(testSecret, testIssuer, testAudience)
	require.NoError(t, err)

	return signer, verifier
}

func TestSignVerify_RoundTrip(t *testing.T) {
	signer, verifier := newTestPair(t)

	raw, err := signer.Sign(Profile{
		UserID:      "user-1",
		Email:       "ada@example.com",
		UserType:    "adopter",
		PhoneNumber: "+61400000000",
	}, time.Now())
	require.NoError(t, err)

	claims, err := verifier.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "adopter", claims.UserType)
	assert.Equal(t, "+61400000000", claims.PhoneNumber)
	assert.NotEmpty(t, claims.ID, "jti must be set")
}

func TestSign_UniqueJTI(t *testing.T) {
	signer, _ := newTestPair(t)

	a, err := signer.Sign(Profile{UserID: "u"}, time.Now())
	require.NoError(t, err)
	b, err := signer.Sign(Profile{UserID: "u"}, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_AllFailuresCollapse(t *testing.T) {
	signer, verifier := newTestPair(t)

	wrongKeySigner, err := NewSigner([]byte("another-secret-another-secret!!!"), testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	wrongIssuerSigner, err := NewSigner(testSecret, "someone-else", testAudience, time.Hour)
	require.NoError(t, err)
	wrongAudienceSigner, err := NewSigner(testSecret, testIssuer, "other-app", time.Hour)
	require.NoError(t, err)

	expired, err := signer.Sign(Profile{UserID: "u"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	wrongKey, err := wrongKeySigner.Sign(Profile{UserID: "u"}, time.Now())
	require.NoError(t, err)
	wrongIssuer, err := wrongIssuerSigner.Sign(Profile{UserID: "u"}, time.Now())
	require.NoError(t, err)
	wrongAudience, err := wrongAudienceSigner.Sign(Profile{UserID: "u"}, time.Now())
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"empty":          "",
		"garbage":        "not.a.jwt",
		"expired":        expired,
		"wrong key":      wrongKey,
		"wrong issuer":   wrongIssuer,
		"wrong audience": wrongAudience,
	} {
		claims, err := verifier.Verify(raw)
		assert.Nil(t, claims, name)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestVerify_NoLeewayAtExpiry(t *testing.T) {
	signer, verifier := newTestPair(t)

	// Already past expiry by a second: with zero leeway this must fail.
	raw, err := signer.Sign(Profile{UserID: "u"}, time.Now().Add(-time.Hour-time.Second))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPeek(t *testing.T) {
	signer, _ := newTestPair(t)

	expired, err := signer.Sign(Profile{UserID: "user-9", Email: "e@example.com", UserType: "shelter_admin"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	claims, err := Peek(expired)
	require.NoError(t, err, "peek must succeed on expired tokens")
	assert.Equal(t, "user-9", claims.UserID())
	assert.Equal(t, "shelter_admin", claims.UserType)

	_, err = Peek("definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
