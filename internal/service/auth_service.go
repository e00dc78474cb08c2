package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// OperatorSubject is the JWT subject issued to the dashboard operator.
const OperatorSubject = "operator"

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
	errEmptyKey        = errors.New("signing key is empty")
)

// AuthService checks the operator password and issues session tokens.
type AuthService struct {
	passwordHash []byte
	signingKey   []byte
	tokenTTL     time.Duration
	now          func() time.Time
}

// NewAuthService hashes the configured password once at startup.
func NewAuthService(password, signingKey string, ttl time.Duration) (*AuthService, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("invalid operator password: %w", err)
	}
	if strings.TrimSpace(signingKey) == "" {
		return nil, errEmptyKey
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		passwordHash: hash,
		signingKey:   []byte(signingKey),
		tokenTTL:     ttl,
		now:          time.Now,
	}, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken validates the password and returns a JWT.
func (s *AuthService) GenerateToken(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return s.issueToken(OperatorSubject)
}

// ParseToken parses a JWT and returns its subject.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != OperatorSubject {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// helper: hash password safely
func hashPassword(password string) ([]byte, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// helper: issue a signed JWT for subject
func (s *AuthService) issueToken(subject string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}
