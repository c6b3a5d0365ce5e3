package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	kms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"

	ynabclient "github.com/GregMSThompson/budget-report/internal/client/ynab"
	"github.com/GregMSThompson/budget-report/internal/config"
	"github.com/GregMSThompson/budget-report/internal/models"
	"github.com/GregMSThompson/budget-report/pkg/logger"
)

// SessionStore is implemented by every session backend.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type TokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type Bootstrap struct {
	Log       *slog.Logger
	Location  *time.Location
	Firestore *firestore.Client
	KMS       *kms.KeyManagementClient
	Secrets   *secretmanager.Client
	Sessions  SessionStore
	Cipher    TokenCipher
	YNAB      *ynabclient.Adapter

	closers []func() error
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	if err = cfg.Validate(); err != nil {
		return bs, err
	}
	bs.Location, err = cfg.Location()
	if err != nil {
		return bs, err
	}

	if cfg.SessionBackend == config.BackendFirestore {
		bs.Firestore, err = firestore.NewClient(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.Firestore.Close)
	}
	if cfg.KMSKeyName != "" {
		bs.KMS, err = kms.NewKeyManagementClient(applicationCtx)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.KMS.Close)
	}
	if cfg.TokenKeySecret != "" {
		bs.Secrets, err = secretmanager.NewClient(applicationCtx)
		if err != nil {
			return bs, err
		}
		bs.closers = append(bs.closers, bs.Secrets.Close)
	}

	bs.Sessions, err = bs.initSessionStore(cfg)
	if err != nil {
		return bs, err
	}
	bs.Cipher, err = bs.initCipher(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}
	bs.YNAB = ynabclient.NewAdapter(cfg.YNABBaseURL, cfg.YNABTimeout, cfg.FlagGroups)

	bs.Log.Info("bootstrap complete",
		"session_backend", cfg.SessionBackend,
		"kms", cfg.KMSKeyName != "",
		"timezone", bs.Location.String())
	return bs, nil
}

// Close releases clients in reverse order of creation.
func (bs *Bootstrap) Close() error {
	var errList []error
	for i := len(bs.closers) - 1; i >= 0; i-- {
		if err := bs.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	bs.closers = nil
	return errors.Join(errList...)
}
