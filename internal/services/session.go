package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type sessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// tokenCipher seals upstream tokens at rest (KMS or local AES-GCM).
type tokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type sessionService struct {
	store    sessionStore
	cipher   tokenCipher
	ttl      time.Duration
	clockNow func() time.Time
	newID    func() string
}

func NewSessionService(store sessionStore, cipher tokenCipher, ttl time.Duration) *sessionService {
	return &sessionService{
		store:    store,
		cipher:   cipher,
		ttl:      ttl,
		clockNow: time.Now,
		newID:    uuid.NewString,
	}
}

// lookup returns the live session or nil when it is missing or expired.
func (s *sessionService) lookup(ctx context.Context, sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.store.Get(ctx, sessionID)
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(s.clockNow()) {
		return nil, nil
	}
	return session, nil
}

func (s *sessionService) Status(ctx context.Context, sessionID string) (dto.AuthStatus, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return dto.AuthStatus{}, err
	}
	return dto.AuthStatus{HasToken: session != nil}, nil
}

// SaveToken encrypts and stores token under sessionID, creating a new
// session id when none is given. It returns the session id in use.
func (s *sessionService) SaveToken(ctx context.Context, sessionID, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.NewValidationError("token required")
	}

	encrypted, err := s.cipher.Encrypt(ctx, token)
	if err != nil {
		return "", err
	}

	now := s.clockNow()
	created := now
	existing, err := s.lookup(ctx, sessionID)
	if err != nil {
		return "", err
	}
	// Only ids the store already issued are reused.
	if existing != nil {
		created = existing.CreatedAt
	} else {
		sessionID = s.newID()
	}

	session := &models.Session{
		ID:             sessionID,
		EncryptedToken: encrypted,
		CreatedAt:      created,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return "", err
	}

	logger.FromContext(ctx).Info("upstream token stored", "expires_at", session.ExpiresAt)
	return sessionID, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.store.Delete(ctx, sessionID)
}

// Token returns the decrypted upstream token of a session. A missing,
// expired or undecryptable session is unauthorized.
func (s *sessionService) Token(ctx context.Context, sessionID string) (string, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", errs.NewUnauthorizedError("not authenticated")
	}

	token, err := s.cipher.Decrypt(ctx, session.EncryptedToken)
	if err != nil || token == "" {
		logger.FromContext(ctx).Warn("stored token could not be decrypted", "error", err)
		return "", errs.NewUnauthorizedError("invalid token")
	}
	return token, nil
}

func (s *sessionService) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.store.PurgeExpired(ctx, s.clockNow())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("expired sessions purged", "count", n)
	}
	return n, nil
}

// StartJanitor purges expired sessions every interval until ctx is done.
func (s *sessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.PurgeExpired(ctx); err != nil {
					logger.FromContext(ctx).Error("session purge failed", "error", err)
				}
			}
		}
	}()
}
