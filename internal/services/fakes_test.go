package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/errs"
	"github.com/GregMSThompson/budget-report/internal/models"
)

// --- fakes ---

type fakeSessionStore struct {
	sessions  map[string]models.Session
	getErr    error
	saveErr   error
	purgeNow  time.Time
	deleted   []string
	purgeSize int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.Session{}}
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, errs.NewNotFoundError("session not found")
	}
	return &s, nil
}

func (f *fakeSessionStore) Save(ctx context.Context, session *models.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[session.ID] = *session
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	f.purgeNow = now
	return f.purgeSize, nil
}

// fakeCipher prefixes on encrypt and strips the prefix on decrypt.
type fakeCipher struct {
	encryptErr error
}

func (f *fakeCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if f.encryptErr != nil {
		return "", f.encryptErr
	}
	return "enc:" + plaintext, nil
}

func (f *fakeCipher) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("bad ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) Token(ctx context.Context, sessionID string) (string, error) {
	return f.token, f.err
}

type fakeYNAB struct {
	budgets     []models.Budget
	accounts    []models.Account
	settings    *models.BudgetSettings
	settingsErr error
	scheduled   []models.ScheduledTransaction
	forwarded   *dto.ProxyResponse

	// txs returns the transactions for call n (0-based).
	txs     func(n int, f dto.TransactionFilter) ([]models.Transaction, error)
	filters []dto.TransactionFilter
	tokens  []string
	err     error
}

func (f *fakeYNAB) ListBudgets(ctx context.Context, token string) ([]models.Budget, error) {
	f.tokens = append(f.tokens, token)
	return f.budgets, f.err
}

func (f *fakeYNAB) ListAccounts(ctx context.Context, token, budgetID string) ([]models.Account, error) {
	f.tokens = append(f.tokens, token)
	return f.accounts, f.err
}

func (f *fakeYNAB) BudgetSettings(ctx context.Context, token, budgetID string) (*models.BudgetSettings, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	if f.settings == nil {
		return &models.BudgetSettings{}, nil
	}
	return f.settings, nil
}

func (f *fakeYNAB) ListTransactions(ctx context.Context, token, budgetID string, filter dto.TransactionFilter) ([]models.Transaction, error) {
	n := len(f.filters)
	f.filters = append(f.filters, filter)
	if f.txs == nil {
		return nil, nil
	}
	return f.txs(n, filter)
}

func (f *fakeYNAB) ListScheduledTransactions(ctx context.Context, token, budgetID, accountID, flag string) ([]models.ScheduledTransaction, error) {
	f.tokens = append(f.tokens, token)
	return f.scheduled, f.err
}

func (f *fakeYNAB) Forward(ctx context.Context, token, path, rawQuery string) (*dto.ProxyResponse, error) {
	f.tokens = append(f.tokens, token)
	return f.forwarded, f.err
}
