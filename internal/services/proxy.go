package services

import (
	"context"

	"github.com/GregMSThompson/budget-report/internal/dto"
)

type tokenSource interface {
	Token(ctx context.Context, sessionID string) (string, error)
}

type forwarder interface {
	Forward(ctx context.Context, token, path, rawQuery string) (*dto.ProxyResponse, error)
}

type proxyService struct {
	tokens   tokenSource
	upstream forwarder
}

func NewProxyService(tokens tokenSource, upstream forwarder) *proxyService {
	return &proxyService{tokens: tokens, upstream: upstream}
}

// Forward relays a read-only request to the budgeting API with the
// session's token.
func (s *proxyService) Forward(ctx context.Context, sessionID, path, rawQuery string) (*dto.ProxyResponse, error) {
	token, err := s.tokens.Token(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.upstream.Forward(ctx, token, path, rawQuery)
}
