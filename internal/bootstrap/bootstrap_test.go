package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/GregMSThompson/budget-report/internal/config"
	"github.com/GregMSThompson/budget-report/internal/models"
)

func TestInitSessionStoreBackends(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			bs := new(Bootstrap)
			defer bs.Close()

			cfg := &config.Config{SessionBackend: backend, SQLitePath: filepath.Join(t.TempDir(), "sessions.db")}
			sessions, err := bs.initSessionStore(cfg)
			if err != nil {
				t.Fatalf("init: %v", err)
			}

			ctx := context.Background()
			now := time.Now().UTC()
			if err := sessions.Save(ctx, &models.Session{ID: "s1", EncryptedToken: "x", CreatedAt: now, UpdatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
				t.Fatalf("save: %v", err)
			}
			if _, err := sessions.Get(ctx, "s1"); err != nil {
				t.Fatalf("get: %v", err)
			}
		})
	}
}

func TestInitSessionStoreUnknown(t *testing.T) {
	bs := new(Bootstrap)
	if _, err := bs.initSessionStore(&config.Config{SessionBackend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestInitCipherLocalKey(t *testing.T) {
	bs := new(Bootstrap)
	cipher, err := bs.initCipher(context.Background(), &config.Config{TokenEncKey: "local-secret"})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	sealed, err := cipher.Encrypt(context.Background(), "token")
	if err != nil {
		t.Fatal(err)
	}
	plain, err := cipher.Decrypt(context.Background(), sealed)
	if err != nil || plain != "token" {
		t.Fatalf("round trip got %q, %v", plain, err)
	}

	if _, err := bs.initCipher(context.Background(), &config.Config{}); err == nil {
		t.Fatal("expected error without a key")
	}
}
