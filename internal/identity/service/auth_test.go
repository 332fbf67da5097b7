package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adoptly/adoptly/internal/identity/domain"
	"github.com/adoptly/adoptly/internal/identity/provider"
	"github.com/adoptly/adoptly/internal/identity/provider/local"
	"github.com/adoptly/adoptly/internal/identity/store"
	"github.com/adoptly/adoptly/internal/identity/store/drivers/sqlite"
	"github.com/adoptly/adoptly/pkg/cryptox"
	"github.com/adoptly/adoptly/pkg/jwtx"
)

const (
	testIssuer   = "adoptly-identity"
	testAudience = "adoptly"
	testPassword = "sufficiently long"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	auth     *Auth
	store    store.Store
	verifier *jwtx.Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "identity.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewSigner(testSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifier(testSecret, testIssuer, testAudience)
	require.NoError(t, err)

	return &fixture{
		auth:     NewAuth(st, local.New(st), signer, 30*24*time.Hour),
		store:    st,
		verifier: verifier,
	}
}

func (f *fixture) register(t *testing.T, email string) Session {
	t.Helper()

	session, err := f.auth.Register(context.Background(), provider.RegisterInput{
		Email:    email,
		Password: testPassword,
		UserType: domain.UserTypeAdopter,
	})
	require.NoError(t, err)
	return session
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	session, err := f.auth.Login(ctx, "ada@example.com", testPassword)
	require.NoError(t, err)

	claims, err := f.verifier.Verify(session.Pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.UserID, claims.UserID())
	assert.Equal(t, domain.UserTypeAdopter, claims.UserType)
	assert.Equal(t, "ada@example.com", claims.Email)

	// The refresh token must already be revocable.
	record, err := f.store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(session.Pair.RefreshToken))
	require.NoError(t, err)
	assert.True(t, record.IsActive)
	assert.Equal(t, session.User.UserID, record.UserID)

	assert.NotEmpty(t, session.Pair.RefreshToken)
	assert.NotEqual(t, record.TokenHash, session.Pair.RefreshToken, "only the fingerprint is stored")
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	_, err := f.auth.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, provider.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, "nobody@example.com", testPassword)
	assert.ErrorIs(t, err, provider.ErrInvalidCredentials)
}

func TestRefresh_Rotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.register(t, "ada@example.com")

	second, err := f.auth.Refresh(ctx, first.Pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Pair.RefreshToken, second.Pair.RefreshToken)
	assert.Equal(t, first.User.UserID, second.User.UserID)

	_, err = f.verifier.Verify(second.Pair.AccessToken)
	require.NoError(t, err)

	// The presented token died in the rotation.
	_, err = f.auth.Refresh(ctx, first.Pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Its replacement works.
	_, err = f.auth.Refresh(ctx, second.Pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = f.auth.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_RevokedToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.register(t, "ada@example.com")

	require.NoError(t, f.auth.Logout(ctx, session.Pair.RefreshToken))

	_, err := f.auth.Refresh(ctx, session.Pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_UsesFreshProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.register(t, "ada@example.com")

	// The directory changes between mint and refresh.
	at := time.Now().UTC().Add(time.Minute)
	require.NoError(t, f.store.Users().UpdateLastLogin(ctx, session.User.UserID, at))

	refreshed, err := f.auth.Refresh(ctx, session.Pair.RefreshToken)
	require.NoError(t, err)
	require.NotNil(t, refreshed.User.LastLoginAt)
	assert.WithinDuration(t, at, *refreshed.User.LastLoginAt, time.Second)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.register(t, "ada@example.com")

	require.NoError(t, f.auth.Logout(ctx, session.Pair.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, session.Pair.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, "never-issued"))
	require.NoError(t, f.auth.Logout(ctx, ""))
}

func TestRevokeAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.register(t, "ada@example.com")

	second, err := f.auth.Login(ctx, "ada@example.com", testPassword)
	require.NoError(t, err)

	n, err := f.auth.RevokeAll(ctx, first.User.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	for _, raw := range []string{first.Pair.RefreshToken, second.Pair.RefreshToken} {
		_, err := f.auth.Refresh(ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	}
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.register(t, "ada@example.com")

	// Nothing has expired yet; the live token survives.
	require.NoError(t, f.auth.CleanupExpired(ctx))
	_, err := f.auth.Refresh(ctx, session.Pair.RefreshToken)
	require.NoError(t, err)
}
