package ports

import (
	"context"
	"time"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// CreateCardInput carries the fields needed to create a card.
type CreateCardInput struct {
	Name        string
	Description string
	// Color is nil when the caller did not supply one.
	Color *string
	// IdempotencyKey makes retried creates return the first result. Optional.
	IdempotencyKey string
}

// SearchCardsInput carries the optional equality filters for Search.
// Nil fields impose no constraint.
type SearchCardsInput struct {
	Name        *string
	Description *string
	Color       *string
	Status      *string
	Date        *time.Time
}

// CardPage is a page of cards plus the pagination totals.
type CardPage struct {
	Items      []*domain.Card
	Page       int
	Size       int
	Total      int64
	TotalPages int
}

// CardService defines the card use-cases. Every operation takes the caller's
// bearer token and resolves the acting user itself.
type CardService interface {
	Create(ctx context.Context, token string, input CreateCardInput) (*domain.Card, error)
	List(ctx context.Context, token string, page PageRequest) (*CardPage, error)
	Search(ctx context.Context, token string, page PageRequest, input SearchCardsInput) (*CardPage, error)
	Get(ctx context.Context, token, id string) (*domain.Card, error)
	Patch(ctx context.Context, token, id string, patch domain.CardPatch) (*domain.Card, error)
	Delete(ctx context.Context, token, id string) error
}
