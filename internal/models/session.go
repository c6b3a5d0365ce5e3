package models

import (
	"time"
)

// Session holds one browser session's encrypted upstream token.
type Session struct {
	ID             string    `firestore:"id" json:"id"`
	EncryptedToken string    `firestore:"encryptedToken" json:"-"`
	CreatedAt      time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `firestore:"updatedAt" json:"updatedAt"`
	ExpiresAt      time.Time `firestore:"expiresAt" json:"expiresAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
