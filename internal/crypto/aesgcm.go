package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/GregMSThompson/budget-report/internal/errs"
)

const (
	ivSize  = 12
	tagSize = 16
)

// aesGCM seals tokens locally with AES-256-GCM. Payloads have the form
// base64(iv):base64(tag):base64(ciphertext).
type aesGCM struct {
	aead cipher.AEAD
}

// NewAESGCM derives the 256-bit key as sha256(secret).
func NewAESGCM(secret string) (*aesGCM, error) {
	if secret == "" {
		return nil, errs.NewEncryptionError("token encryption key is empty", nil)
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errs.NewEncryptionError("create cipher", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, errs.NewEncryptionError("create gcm", err)
	}
	return &aesGCM{aead: aead}, nil
}

func (a *aesGCM) Encrypt(_ context.Context, plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", errs.NewEncryptionError("generate iv", err)
	}
	sealed := a.aead.Seal(nil, iv, []byte(plaintext), nil)
	data, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	enc := base64.StdEncoding
	return enc.EncodeToString(iv) + ":" + enc.EncodeToString(tag) + ":" + enc.EncodeToString(data), nil
}

func (a *aesGCM) Decrypt(_ context.Context, payload string) (string, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		return "", errs.NewEncryptionError("malformed token payload", nil)
	}
	enc := base64.StdEncoding
	iv, err := enc.DecodeString(parts[0])
	if err != nil {
		return "", errs.NewEncryptionError("decode iv", err)
	}
	tag, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", errs.NewEncryptionError("decode tag", err)
	}
	data, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", errs.NewEncryptionError("decode ciphertext", err)
	}
	if len(iv) != ivSize || len(tag) != tagSize {
		return "", errs.NewEncryptionError("malformed token payload", errors.New("bad iv or tag length"))
	}

	plain, err := a.aead.Open(nil, iv, append(data, tag...), nil)
	if err != nil {
		return "", errs.NewEncryptionError("token payload failed authentication", err)
	}
	return string(plain), nil
}
