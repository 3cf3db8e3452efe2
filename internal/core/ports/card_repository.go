package ports

import (
	"context"
	"time"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

// Scope restricts which cards a query may return or mutate.
// The zero value is unrestricted.
type Scope struct {
	CreatorID string // empty = all cards (admin); non-empty = owned cards only
}

// Unrestricted reports whether the scope imposes no ownership constraint.
func (s Scope) Unrestricted() bool { return s.CreatorID == "" }

// CardFilter is a scope conjoined with optional field-equality predicates.
// Nil fields impose no constraint.
type CardFilter struct {
	Scope
	Name        *string
	Description *string
	Color       *string
	Status      *domain.CardStatus
	CreatedOn   *time.Time // compared at day granularity (UTC)
}

// SortField names a card attribute pages can be ordered by.
type SortField string

const (
	SortByID          SortField = "id"
	SortByName        SortField = "name"
	SortByDescription SortField = "description"
	SortByColor       SortField = "color"
	SortByStatus      SortField = "status"
	SortByCreatedAt   SortField = "created_at"
)

// PageRequest carries offset/limit pagination and ordering.
type PageRequest struct {
	Page int // 0-based
	Size int
	Sort SortField
	Desc bool
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// CardRepository defines persistence operations for cards.
type CardRepository interface {
	// Create inserts c and sets its ID.
	Create(ctx context.Context, c *domain.Card) error
	FindByID(ctx context.Context, id string) (*domain.Card, error)
	FindByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Card, error)
	// List returns a page of cards matching filter and the total count.
	List(ctx context.Context, filter CardFilter, page PageRequest) ([]*domain.Card, int64, error)
	// Update applies patch to the card with id inside scope. Lookup and write
	// happen atomically; a card outside scope yields domain.ErrCardNotFound.
	Update(ctx context.Context, id string, scope Scope, patch domain.CardPatch) (*domain.Card, error)
	// Delete removes the card with id inside scope atomically.
	Delete(ctx context.Context, id string, scope Scope) error
}
