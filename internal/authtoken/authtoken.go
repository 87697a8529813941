// Package authtoken verifies bearer JWTs and resolves the caller's User
// row, per spec.md §6: "the token carries {subject, email, iat, exp}. On
// first contact, a User row is created or fetched by external_id =
// subject."
package authtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/logging"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/store"
)

var log = logging.Logger("AUTH")

// Claims is the payload spec.md §6 requires: subject, email, issued-at,
// expiry.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier checks bearer tokens against a shared secret and resolves the
// caller's User, upserting on first contact.
type Verifier struct {
	secret []byte
	store  *store.Store
}

// New builds a Verifier. secret is AUTH_SECRET from internal/config.
func New(secret string, st *store.Store) *Verifier {
	return &Verifier{secret: []byte(secret), store: st}
}

// Authenticate parses and validates tokenString, then upserts/fetches the
// User keyed by the token's subject claim. Returns Unauthenticated for any
// parse, signature, or expiry failure.
func (v *Verifier) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := parseClaims(tokenString, v.secret)
	if err != nil {
		return nil, err
	}

	user, err := v.store.UpsertUser(ctx, claims.Subject, claims.Email, "")
	if err != nil {
		return nil, err
	}
	log.Debugf("authenticated %s as user %s", claims.Subject, user.ID)
	return user, nil
}

// parseClaims validates tokenString's signature and expiry and extracts
// its claims, the pure parsing step underlying Authenticate.
func parseClaims(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierrors.Wrap(apierrors.Unauthenticated, err, "invalid bearer token")
	}
	if claims.Subject == "" {
		return nil, apierrors.New(apierrors.Unauthenticated, "token missing subject claim")
	}
	return claims, nil
}

// Issue mints a token for tests and the CLI smoke client, carrying the
// claims spec.md §6 names with a ttl expiry.
func Issue(secret, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.New("authtoken: sign token: " + err.Error())
	}
	return signed, nil
}
