package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", "auth.clinic")
	require.NoError(t, err)

	token, err := m.NewToken(Claims{UserID: 7, Role: RoleStaff, LocationIDs: []int64{1, 3}}, time.Minute)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, RoleStaff, claims.Role)
	assert.Equal(t, []int64{1, 3}, claims.LocationIDs)
	assert.Equal(t, "auth.clinic", claims.Issuer)
}

func TestParseRejects(t *testing.T) {
	m, err := NewTokenManager("secret", "")
	require.NoError(t, err)

	expired, err := m.NewToken(Claims{UserID: 1, Role: RolePatient}, -time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenManager("other", "")
	require.NoError(t, err)
	foreign, err := other.NewToken(Claims{UserID: 1, Role: RolePatient}, time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	badRole, err := m.NewToken(Claims{UserID: 1, Role: "janitor"}, time.Minute)
	require.NoError(t, err)
	_, err = m.Parse(badRole)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: RoleAdmin}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("", "")
	assert.Error(t, err)
}

func TestCanAccessLocation(t *testing.T) {
	scoped := &Claims{Role: RoleStaff, LocationIDs: []int64{2}}
	assert.True(t, scoped.CanAccessLocation(2))
	assert.False(t, scoped.CanAccessLocation(5))

	assert.True(t, (&Claims{Role: RoleStaff}).CanAccessLocation(5))
	assert.True(t, (&Claims{Role: RoleAdmin, LocationIDs: []int64{2}}).CanAccessLocation(5))
}
