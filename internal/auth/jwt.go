package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dovakin0007.com/notes-moderation/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSecret     = errors.New("token secret not set")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the bearer token payload. The subject and userId carry the same
// id; userId is kept for tokens minted by the accounts service.
type Claims struct {
	UserID string  `json:"userId"`
	Role   string  `json:"role"`
	Name   *string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	issuer string
}

func NewSigner(secret, issuer string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: []byte(secret), issuer: issuer}, nil
}

// Issue mints an HS256 token for the actor valid for ttl.
func (s *Signer) Issue(actor models.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: actor.ID,
		Role:   string(actor.Role),
		Name:   actor.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates the token and returns the actor it names. Tokens must be
// HS256, carry an expiry and, when the signer has an issuer, match it.
func (s *Signer) Parse(tokenString string) (*models.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	if id == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	return &models.Actor{ID: id, DisplayName: claims.Name, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
