package auth

import (
	"errors"
	"time"

	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the "typ" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// ErrWrongTokenType is returned when a refresh token is used as an access
// token or the other way round.
var ErrWrongTokenType = errors.New("wrong token type")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the subject a token pair is minted for.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func MintTokens(id Identity, secret string, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	now := time.Now()
	at, err := sign(id, TokenAccess, secret, now, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	rt, err := sign(id, TokenRefresh, secret, now, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: at, RefreshToken: rt}, nil
}

func sign(id Identity, typ, secret string, now time.Time, ttl time.Duration) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    id.UserID,
		Email:     id.Email,
		Role:      id.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return t.SignedString([]byte(secret))
}

func ParseClaims(tokenStr, secret string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}

// ParseTyped parses tokenStr and requires the given token kind.
func ParseTyped(tokenStr, secret, typ string) (*Claims, error) {
	c, err := ParseClaims(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if c.TokenType != typ {
		return nil, ErrWrongTokenType
	}
	return c, nil
}

// Issuer mints token pairs for users with fixed lifetimes.
type Issuer struct {
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue mints an access and refresh token for u.
func (i *Issuer) Issue(u *user.User) (TokenPair, error) {
	return MintTokens(Identity{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, i.secret, i.accessTTL, i.refreshTTL)
}

// ParseRefresh validates a refresh token.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return ParseTyped(token, i.secret, TokenRefresh)
}

// AccessTTL is the access token lifetime, used for cookie expiry.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// RefreshTTL is the refresh token lifetime.
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }
