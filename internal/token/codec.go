package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Class distinguishes short-lived access tokens from long-lived refresh
// tokens. A token is only valid for the class the verifying call expects.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

var (
	ErrInvalidToken   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongClass     = errors.New("unexpected token class")
	ErrMissingSubject = errors.New("token subject missing")
)

type Claims struct {
	SubjectID string
	Class     Class
	ExpiresAt time.Time
}

// Codec signs and verifies self-contained session tokens with a symmetric
// secret. It keeps no state; revocation is handled elsewhere.
type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewCodec(secret string, algorithm string, accessTTL time.Duration, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &Codec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (c *Codec) TTL(class Class) time.Duration {
	if class == ClassRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

func (c *Codec) Issue(subjectID string, class Class) (string, error) {
	now := c.now().UTC()
	token := jwt.NewWithClaims(c.method, jwt.MapClaims{
		"sub": subjectID,
		"typ": string(class),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(c.TTL(class)).Unix(),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", class, err)
	}
	return signed, nil
}

// Verify checks signature, expiry, class and subject, in that order, and
// returns the embedded claims. Every failure maps to one of the package's
// sentinel errors.
func (c *Codec) Verify(tokenString string, expected Class) (Claims, error) {
	parsed, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != c.method.Alg() {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.now),
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	typ, _ := claimsMap["typ"].(string)
	if Class(typ) != expected {
		return Claims{}, ErrWrongClass
	}

	subject, _ := claimsMap["sub"].(string)
	if subject == "" {
		return Claims{}, ErrMissingSubject
	}

	claims := Claims{SubjectID: subject, Class: Class(typ)}
	if exp, err := claimsMap.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
