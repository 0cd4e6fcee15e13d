package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RolePhysician Role = "physician"
	RolePatient   Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RolePhysician, RolePatient:
		return true
	}
	return false
}

var ErrInvalidToken = errors.New("invalid token")

// Claims are issued by the external auth service. LocationIDs scopes staff tokens;
// an empty list means every location. PhysicianID is set for physician tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64   `json:"user_id"`
	Role        Role    `json:"role"`
	PhysicianID *int64  `json:"physician_id,omitempty"`
	LocationIDs []int64 `json:"location_ids,omitempty"`
}

// CanAccessLocation reports whether the token's location scope covers locationID.
func (c *Claims) CanAccessLocation(locationID int64) bool {
	if c.Role == RoleAdmin || len(c.LocationIDs) == 0 {
		return true
	}
	return slices.Contains(c.LocationIDs, locationID)
}

type TokenManager struct {
	signingKey []byte
	issuer     string
}

func NewTokenManager(signingKey, issuer string) (*TokenManager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	return &TokenManager{signingKey: []byte(signingKey), issuer: issuer}, nil
}

func (m *TokenManager) NewToken(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if m.issuer != "" {
		claims.Issuer = m.issuer
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return token, nil
}

func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return claims, nil
}
