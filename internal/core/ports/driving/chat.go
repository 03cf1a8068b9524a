package driving

import (
	"context"

	"github.com/custodia-labs/webrecall/internal/core/domain"
)

// ChatService answers questions from indexed history.
type ChatService interface {
	// Ask answers a question using the best matching chunks as context.
	Ask(ctx context.Context, query string) (*domain.ChatResponse, error)
}
