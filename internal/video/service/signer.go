package service

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const playbackTokenTTL = 6 * time.Hour

// PlaybackSigner issues signed playback tokens (RS256, audience "v").
type PlaybackSigner struct {
	keyID string
	key   *rsa.PrivateKey
	now   func() time.Time
}

// NewPlaybackSigner accepts the private key as PEM or as base64-encoded PEM,
// the form the video platform hands out.
func NewPlaybackSigner(keyID, privateKey string) (*PlaybackSigner, error) {
	pemData := []byte(privateKey)
	if !strings.Contains(privateKey, "-----BEGIN") {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(privateKey))
		if err != nil {
			return nil, fmt.Errorf("decode signing key: %w", err)
		}
		pemData = decoded
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("parse signing key: %w", err)
	}
	return &PlaybackSigner{keyID: keyID, key: key, now: time.Now}, nil
}

// Sign returns a token granting playback of playbackID.
func (s *PlaybackSigner) Sign(playbackID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   playbackID,
		Audience:  jwt.ClaimStrings{"v"},
		ExpiresAt: jwt.NewNumericDate(now.Add(playbackTokenTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = s.keyID

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign playback token: %w", err)
	}
	return signed, nil
}
