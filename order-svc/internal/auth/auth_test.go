package auth

import (
	"testing"
	"time"

	"food-ordering/order-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	account := &domain.Account{ID: 12, Email: "op@example.com", Role: domain.RoleOperator}

	token, err := m.Generate(account)
	require.NoError(t, err)

	principal, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: 12, Email: "op@example.com", Role: domain.RoleOperator}, *principal)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	account := &domain.Account{ID: 1, Email: "a@example.com", Role: domain.RoleCustomer}

	otherKey, err := NewJWTManager("other-secret", time.Hour).Generate(account)
	require.NoError(t, err)

	expired := NewJWTManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.Generate(account)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: otherKey},
		{name: "expired", token: expiredToken},
		{name: "unsigned", token: noneToken},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			principal, err := m.Validate(testCase.token)
			assert.Nil(t, principal)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, h.Compare(hash, "secret1"))
	assert.False(t, h.Compare(hash, "secret2"))
	assert.False(t, h.Compare("not-a-hash", "secret1"))
}
