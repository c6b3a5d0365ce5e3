package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/GregMSThompson/budget-report/internal/config"
	"github.com/GregMSThompson/budget-report/internal/crypto"
	"github.com/GregMSThompson/budget-report/internal/store"
)

func (bs *Bootstrap) initSessionStore(cfg *config.Config) (SessionStore, error) {
	switch cfg.SessionBackend {
	case config.BackendFirestore:
		return store.NewSessionStore(bs.Firestore), nil
	case config.BackendSQLite:
		s, err := store.NewSQLiteSessionStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite sessions: %w", err)
		}
		bs.closers = append(bs.closers, s.Close)
		return s, nil
	case config.BackendMemory:
		return store.NewMemorySessionStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// initCipher prefers Cloud KMS. Without a key name tokens are sealed locally
// with a key from Secret Manager or TOKENENCKEY.
func (bs *Bootstrap) initCipher(ctx context.Context, cfg *config.Config) (TokenCipher, error) {
	if bs.KMS != nil {
		return crypto.NewKMS(bs.KMS, cfg.KMSKeyName), nil
	}

	secret := cfg.TokenEncKey
	if bs.Secrets != nil {
		var err error
		secret, err = store.NewKeySecretStore(bs.Secrets, cfg.ProjectID).LoadOrCreate(ctx, cfg.TokenKeySecret)
		if err != nil {
			return nil, fmt.Errorf("load token key: %w", err)
		}
	}
	if secret == "" {
		return nil, errors.New("no token encryption key configured")
	}
	cipher, err := crypto.NewAESGCM(secret)
	if err != nil {
		return nil, err
	}
	return cipher, nil
}
