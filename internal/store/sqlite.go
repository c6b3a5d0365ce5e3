package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
)

// sqliteSessionStore persists sessions in a local SQLite file. Times are
// stored as unix milliseconds.
type sqliteSessionStore struct {
	db *sql.DB
}

// NewSQLiteSessionStore migrates and opens the database at path.
func NewSQLiteSessionStore(path string) (*sqliteSessionStore, error) {
	if err := RunMigrations(path); err != nil {
		return nil, errs.NewDatabaseError("migrate sessions", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.NewDatabaseError("open sessions", err)
	}
	db.SetMaxOpenConns(1)
	return &sqliteSessionStore{db: db}, nil
}

func (s *sqliteSessionStore) Close() error {
	return s.db.Close()
}

func (s *sqliteSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var (
		session                       models.Session
		createdAt, updatedAt, expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, encrypted_token, created_at, updated_at, expires_at FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.EncryptedToken, &createdAt, &updatedAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get session", err)
	}

	session.CreatedAt = fromMillis(createdAt)
	session.UpdatedAt = fromMillis(updatedAt)
	session.ExpiresAt = fromMillis(expires)
	return &session, nil
}

func (s *sqliteSessionStore) Save(ctx context.Context, session *models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, encrypted_token, created_at, updated_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			encrypted_token = excluded.encrypted_token,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`,
		session.ID, session.EncryptedToken,
		toMillis(session.CreatedAt), toMillis(session.UpdatedAt), toMillis(session.ExpiresAt),
	)
	if err != nil {
		return errs.NewDatabaseError("save session", err)
	}
	return nil
}

func (s *sqliteSessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return errs.NewDatabaseError("delete session", err)
	}
	return nil
}

func (s *sqliteSessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at > 0 AND expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, errs.NewDatabaseError("purge sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.NewDatabaseError("purge sessions", err)
	}
	return int(n), nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
