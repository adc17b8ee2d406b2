package http

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/domain"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

const (
	adminSubject = "admin"
	secretSize   = 32
)

// AdminAuth checks the shared admin password and issues short-lived HS256 tokens.
type AdminAuth struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ interfaces.AdminAuthenticator = (*AdminAuth)(nil)

// NewAdminAuth signs tokens with secret. An empty secret is replaced by a random
// key, so tokens stop verifying after a restart.
func NewAdminAuth(password, secret string, ttl time.Duration) (*AdminAuth, error) {
	if password == "" {
		return nil, errors.New("admin password must not be empty")
	}

	key := []byte(secret)
	if secret == "" {
		key = make([]byte, secretSize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
	}

	// Пароль держим только в виде хеша
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &AdminAuth{hash: hash, secret: key, ttl: ttl, now: time.Now}, nil
}

func (a *AdminAuth) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (a *AdminAuth) Verify(token string) error {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.Subject != adminSubject {
		return domain.ErrUnauthorized
	}
	return nil
}

// AdminMiddleware marks the request as authorized when it carries a valid bearer token.
// It never rejects; the service decides what an unauthorized caller may do.
func AdminMiddleware(auth interfaces.AdminAuthenticator, logger logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorized := false
			if token, ok := bearerToken(r); ok {
				if err := auth.Verify(token); err != nil {
					logger.Warn("admin_token_rejected", "Admin token rejected", RequestID(r.Context()), nil, err)
				} else {
					authorized = true
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authorizedKey, authorized)))
		})
	}
}

// Authorized reports what AdminMiddleware decided for this request.
func Authorized(ctx context.Context) bool {
	ok, _ := ctx.Value(authorizedKey).(bool)
	return ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
