package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/airboeing1212/expense-tracker-api/internal/core"
)

// Claims is the payload encoded into a session token. A token is fully
// self-contained: validity is determined by the signature and expiry alone.
type Claims struct {
	UserID    int64 `json:"user_id"`
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
}

// TokenService issues and verifies signed session tokens. The wire form is
// base64url(json(claims) || hmac-sha256(json(claims))).
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue produces a signed token asserting userID until now+TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(append(payload, s.sign(payload)...)), nil
}

// Verify checks the token's signature and expiry and returns the encoded
// user id. Client-supplied claims are never trusted before the signature
// checks out.
func (s *TokenService) Verify(token string) (int64, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, errors.Join(core.ErrTokenInvalid, fmt.Errorf("decode token: %w", err))
	}

	if len(data) <= sha256.Size {
		return 0, core.ErrTokenInvalid
	}

	payload := data[:len(data)-sha256.Size]
	signature := data[len(data)-sha256.Size:]

	if !hmac.Equal(signature, s.sign(payload)) {
		return 0, core.ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return 0, errors.Join(core.ErrTokenInvalid, fmt.Errorf("unmarshal claims: %w", err))
	}

	if claims.ExpiresAt < s.now().Unix() {
		return 0, core.ErrTokenExpired
	}

	return claims.UserID, nil
}

func (s *TokenService) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
