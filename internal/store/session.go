package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
)

type sessionStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewSessionStore(client *firestore.Client) *sessionStore {
	return &sessionStore{
		client:     client,
		collection: client.Collection("sessions"),
	}
}

func (s *sessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	doc, err := s.collection.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errs.NewNotFoundError("session not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("get session", err)
	}

	var session models.Session
	if err := doc.DataTo(&session); err != nil {
		return nil, errs.NewDatabaseError("decode session", err)
	}
	return &session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *models.Session) error {
	if _, err := s.collection.Doc(session.ID).Set(ctx, session); err != nil {
		return errs.NewDatabaseError("save session", err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.Doc(id).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete session", err)
	}
	return nil
}

// PurgeExpired deletes every session whose expiry is at or before now.
func (s *sessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	iter := s.collection.Where("expiresAt", "<=", now).Documents(ctx)
	defer iter.Stop()

	purged := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return purged, errs.NewDatabaseError("list expired sessions", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return purged, errs.NewDatabaseError("purge session", err)
		}
		purged++
	}
	return purged, nil
}
