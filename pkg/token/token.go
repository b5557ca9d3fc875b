// Package token issues and verifies the signed bearer tokens used for
// sessions. Access and refresh tokens are signed with independent secrets and
// independent TTLs: the access token is the short-lived fast path, the
// refresh token is the long-lived store-checked trust boundary.
package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but its
	// validity window has passed. Callers prompt the refresh flow.
	ErrExpired = errors.New("token expired")
	// ErrInvalid means the token is malformed, carries a bad signature or an
	// unexpected signing method. Not retryable.
	ErrInvalid = errors.New("token invalid")
)

// AccessClaims is the payload of an access token: subject id plus display
// fields so handlers can render identity without a store round trip.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// refreshClaims carries the subject id only.
type refreshClaims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies token pairs. It is a pure function of its
// secrets and TTLs; it never touches a store.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs a short-lived access token for the given identity.
func (s *Service) IssueAccess(userID uint, username, email, fullName string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatSubject(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		Username: username,
		Email:    email,
		FullName: fullName,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

// IssueRefresh signs a long-lived refresh token carrying only the subject id.
func (s *Service) IssueRefresh(userID uint) (string, error) {
	now := time.Now()
	claims := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatSubject(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// VerifyAccess checks signature and expiry of an access token and returns its
// claims. Expiry is reported as ErrExpired, everything else as ErrInvalid.
func (s *Service) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.verify(raw, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh checks a refresh token and returns the subject user id. The
// caller still has to compare the presented value against the one stored for
// that user; a valid signature alone grants nothing.
func (s *Service) VerifyRefresh(raw string) (uint, error) {
	claims := &refreshClaims{}
	if err := s.verify(raw, claims, s.refreshSecret); err != nil {
		return 0, err
	}
	id, err := parseSubject(claims.Subject)
	if err != nil {
		return 0, ErrInvalid
	}
	return id, nil
}

func (s *Service) verify(raw string, claims jwt.Claims, secret []byte) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return ErrInvalid
	}
	if !tok.Valid {
		return ErrInvalid
	}
	return nil
}

// Subject extracts the user id from verified access claims.
func (c *AccessClaims) UserID() (uint, error) {
	return parseSubject(c.Subject)
}

func formatSubject(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseSubject(sub string) (uint, error) {
	v, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || v == 0 {
		return 0, ErrInvalid
	}
	return uint(v), nil
}
