package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(TokenSize512)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	other, err := GenerateToken(TokenSize512)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestFingerprintToken(t *testing.T) {
	tok := MustGenerateToken(TokenSize256)

	fp := FingerprintToken(tok)
	assert.Equal(t, fp, FingerprintToken(tok), "fingerprint must be deterministic")
	assert.NotEqual(t, fp, FingerprintToken(tok+"x"))
	assert.NotEqual(t, tok, fp)

	raw, err := base64.RawURLEncoding.DecodeString(fp)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}
