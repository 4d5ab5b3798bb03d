package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

const bearerPrefix = "Bearer "

// DevUsername is the principal of every request when authentication is disabled.
const DevUsername = "developer"

// Principal is the caller of a request.
type Principal struct {
	Username  string
	Anonymous bool
}

var anonymousPrincipal = Principal{Anonymous: true}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Identity tells anonymous callers apart by the principal stored in the request
// context. A context without principal is anonymous.
type Identity struct{}

func (Identity) IsAnonymous(ctx context.Context) bool {
	p, ok := PrincipalFrom(ctx)
	return !ok || p.Anonymous
}

// Authenticator resolves principals from HS256 signed bearer tokens.
type Authenticator struct {
	enabled bool
	secret  []byte
	issuer  string
}

func NewAuthenticator(enabled bool, secret, issuer string) *Authenticator {
	return &Authenticator{enabled: enabled, secret: []byte(secret), issuer: issuer}
}

func (a *Authenticator) Enabled() bool {
	return a.enabled
}

// Authenticate resolves the principal presenting the Authorization header value.
// A missing header yields the anonymous principal.
func (a *Authenticator) Authenticate(header string) (Principal, error) {
	if !a.enabled {
		return Principal{Username: DevUsername}, nil
	}
	if header == "" {
		return anonymousPrincipal, nil
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Principal{}, srvErrors.NewUnauthorizedError("expected a bearer token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, srvErrors.NewUnauthorizedError("token expired")
		}
		return Principal{}, srvErrors.NewUnauthorizedError(err.Error())
	}
	if claims.Subject == "" {
		return Principal{}, srvErrors.NewUnauthorizedError("token has no subject")
	}
	return Principal{Username: claims.Subject}, nil
}

// Issue signs a token for username valid for ttl.
func (a *Authenticator) Issue(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString(a.secret)
}
