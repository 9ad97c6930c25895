package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadSigner creates and validates signed document download tokens so
// generated files can be fetched without an Authorization header.
type DownloadSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewDownloadSigner constructs a signer with the provided secret and TTL.
func NewDownloadSigner(secret string, ttl time.Duration) *DownloadSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DownloadSigner{secret: []byte(secret), ttl: ttl}
}

// Sign returns a token referencing the document request and its archived file.
func (s *DownloadSigner) Sign(requestID, filename string) (string, time.Time, error) {
	if requestID == "" || filename == "" {
		return "", time.Time{}, fmt.Errorf("requestID and filename required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	encodedName := base64.RawURLEncoding.EncodeToString([]byte(filename))
	payload := fmt.Sprintf("%s:%d:%s", requestID, expiresAt.Unix(), encodedName)
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	signature := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	token := strings.Join([]string{requestID, strconv.FormatInt(expiresAt.Unix(), 10), encodedName, signature}, ".")
	return token, expiresAt, nil
}

// Verify validates a token and returns the embedded request ID and filename.
func (s *DownloadSigner) Verify(token string) (requestID, filename string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", fmt.Errorf("invalid token format")
	}
	requestID = parts[0]

	expUnix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", "", fmt.Errorf("invalid token timestamp")
	}

	rawName, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", "", fmt.Errorf("decode filename: %w", err)
	}

	payload := fmt.Sprintf("%s:%d:%s", requestID, expUnix, parts[2])
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return "", "", fmt.Errorf("invalid token signature")
	}
	if time.Now().After(time.Unix(expUnix, 0)) {
		return "", "", fmt.Errorf("token expired")
	}
	return requestID, string(rawName), nil
}
