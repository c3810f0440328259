package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/domain/domaintest"
)

func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newTestMinterAndValidator(t *testing.T) (*auth.Minter, *auth.Validator, *auth.StaticKeyStore, *domaintest.FakeClock) {
	t.Helper()
	key := generateTestKey(t)
	keyID := "test-key-001"
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := domaintest.NewFakeClock(start)
	keyStore := auth.NewStaticKeyStore(key, keyID)

	minter := auth.NewMinter(auth.MinterConfig{
		KeyStore:  keyStore,
		AccessTTL: 24 * time.Hour,
		Issuer:    "listshare-platform",
		Audience:  "listshare-clients",
		Clock:     clock,
	})

	validator := auth.NewValidator(auth.ValidatorConfig{
		KeyStore: keyStore,
		Issuer:   "listshare-platform",
		Audience: "listshare-clients",
		Clock:    clock,
	})

	return minter, validator, keyStore, clock
}

func TestValidateAccessToken(t *testing.T) {
	minter, validator, _, clock := newTestMinterAndValidator(t)
	start := clock.Now()

	t.Run("valid token succeeds", func(t *testing.T) {
		clock.Set(start)
		result, err := minter.MintAccessToken("user_123", "alice")
		require.NoError(t, err)
		assert.Equal(t, start.Add(24*time.Hour), result.ExpiresAt)

		claims, err := validator.ValidateAccessToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, "user_123", claims.Subject)
		assert.Equal(t, "alice", claims.ScreenName)
		assert.Equal(t, "lists", claims.Scope)
		assert.Equal(t, result.JTI, claims.ID)
	})

	t.Run("expired token fails", func(t *testing.T) {
		clock.Set(start)
		result, err := minter.MintAccessToken("user_123", "alice")
		require.NoError(t, err)

		clock.Advance(25 * time.Hour)
		_, err = validator.ValidateAccessToken(result.Token)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
		clock.Set(start)
	})

	t.Run("token valid just before TTL", func(t *testing.T) {
		clock.Set(start)
		result, err := minter.MintAccessToken("user_123", "alice")
		require.NoError(t, err)

		clock.Advance(24*time.Hour - time.Second)
		_, err = validator.ValidateAccessToken(result.Token)
		assert.NoError(t, err)
		clock.Set(start)
	})

	t.Run("garbage token fails", func(t *testing.T) {
		_, err := validator.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong issuer fails", func(t *testing.T) {
		clock.Set(start)
		key := generateTestKey(t)
		otherStore := auth.NewStaticKeyStore(key, "other-key")
		otherMinter := auth.NewMinter(auth.MinterConfig{
			KeyStore:  otherStore,
			AccessTTL: 24 * time.Hour,
			Issuer:    "evil-issuer",
			Audience:  "listshare-clients",
			Clock:     clock,
		})
		result, err := otherMinter.MintAccessToken("user_123", "alice")
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(result.Token)
		assert.Error(t, err)
	})

	t.Run("token signed with unknown key fails", func(t *testing.T) {
		clock.Set(start)
		key := generateTestKey(t)
		otherStore := auth.NewStaticKeyStore(key, "rotated-key")
		otherMinter := auth.NewMinter(auth.MinterConfig{
			KeyStore:  otherStore,
			AccessTTL: 24 * time.Hour,
			Issuer:    "listshare-platform",
			Audience:  "listshare-clients",
			Clock:     clock,
		})
		result, err := otherMinter.MintAccessToken("user_123", "alice")
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(result.Token)
		assert.Error(t, err)
	})

	t.Run("HMAC-signed token is rejected", func(t *testing.T) {
		clock.Set(start)
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user_123",
			Issuer:    "listshare-platform",
			Audience:  jwt.ClaimStrings{"listshare-clients"},
			ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
		})
		token.Header["kid"] = "test-key-001"
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing subject is rejected", func(t *testing.T) {
		clock.Set(start)
		result, err := minter.MintAccessToken("", "alice")
		require.NoError(t, err)

		_, err = validator.ValidateAccessToken(result.Token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestKeyRotation(t *testing.T) {
	minter, validator, keyStore, clock := newTestMinterAndValidator(t)
	clock.Set(clock.Now())

	// Tokens minted under a retired key stay valid while its public half
	// remains registered.
	oldKey := generateTestKey(t)
	oldStore := auth.NewStaticKeyStore(oldKey, "retired-key")
	oldMinter := auth.NewMinter(auth.MinterConfig{
		KeyStore:  oldStore,
		AccessTTL: 24 * time.Hour,
		Issuer:    "listshare-platform",
		Audience:  "listshare-clients",
		Clock:     clock,
	})
	result, err := oldMinter.MintAccessToken("user_123", "alice")
	require.NoError(t, err)

	_, err = validator.ValidateAccessToken(result.Token)
	require.Error(t, err)

	keyStore.AddPublicKey("retired-key", &oldKey.PublicKey)
	claims, err := validator.ValidateAccessToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.Subject)

	// The current signing key keeps working alongside.
	current, err := minter.MintAccessToken("user_456", "bob")
	require.NoError(t, err)
	_, err = validator.ValidateAccessToken(current.Token)
	assert.NoError(t, err)
}
