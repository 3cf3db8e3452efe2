package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Page*Size inside int for every accepted size.
	MaxPage = math.MaxInt / MaxPageSize
)

// Resolver resolves the acting user from a bearer token.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// IdempotencyStore remembers which card a create request with a given
// Idempotency-Key produced for a user (Redis).
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, key string) (cardID string, found bool, err error)
	Remember(ctx context.Context, userID, key, cardID string) error
}

// ActivityPublisher receives an activity for every successful mutation.
// Publish must not block the request.
type ActivityPublisher interface {
	Publish(a domain.CardActivity)
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.CardActivity) {}

// CardService implements the card use-cases on top of the identity resolver,
// the authorization policy and the card repository.
type CardService struct {
	identity Resolver
	repo     ports.CardRepository
	idem     IdempotencyStore
	activity ActivityPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCardService wires a CardService. idem and activity may be nil.
func NewCardService(
	identity Resolver,
	repo ports.CardRepository,
	idem IdempotencyStore,
	activity ActivityPublisher,
	logger zerolog.Logger,
) *CardService {
	if activity == nil {
		activity = noopPublisher{}
	}
	return &CardService{
		identity: identity,
		repo:     repo,
		idem:     idem,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// Create builds a TODO card owned by the caller and persists it. When an
// idempotency key is supplied and already seen for this caller, the card it
// produced is returned without a second insert.
func (s *CardService) Create(ctx context.Context, token string, input ports.CreateCardInput) (*domain.Card, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	if replayed := s.replay(ctx, user, input.IdempotencyKey); replayed != nil {
		return replayed, nil
	}

	card, err := domain.NewCard(input.Name, input.Description, input.Color, user.ID, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, card); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create card")
		return nil, fmt.Errorf("create card: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, user.ID, input.IdempotencyKey, card.ID); err != nil {
			s.logger.Warn().Err(err).Str("card_id", card.ID).Msg("failed to store idempotency key")
		}
	}

	s.publish(card.ID, user.ID, domain.ActionCreated)
	s.logger.Info().Str("card_id", card.ID).Str("user_id", user.ID).Msg("card created")
	return card, nil
}

// replay returns the card an earlier create with key produced, or nil when
// there is nothing to replay. Idempotency store failures are not fatal.
func (s *CardService) replay(ctx context.Context, user *domain.User, key string) *domain.Card {
	if key == "" || s.idem == nil {
		return nil
	}

	cardID, found, err := s.idem.Lookup(ctx, user.ID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}

	card, err := s.findScoped(ctx, ScopeFor(user), cardID)
	if err != nil {
		s.logger.Warn().Err(err).Str("card_id", cardID).Msg("idempotent card no longer readable, creating anew")
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("card_id", card.ID).Msg("idempotent replay")
	return card
}

// List returns a page of the cards visible to the caller.
func (s *CardService) List(ctx context.Context, token string, page ports.PageRequest) (*ports.CardPage, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, ports.CardFilter{Scope: ScopeFor(user)}, page)
}

// Search returns a page of visible cards that match every provided filter.
func (s *CardService) Search(ctx context.Context, token string, page ports.PageRequest, input ports.SearchCardsInput) (*ports.CardPage, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	filter := ports.CardFilter{
		Scope:       ScopeFor(user),
		Name:        input.Name,
		Description: input.Description,
	}
	if input.Color != nil {
		if err := domain.ValidateColor(*input.Color); err != nil {
			return nil, err
		}
		filter.Color = input.Color
	}
	if input.Status != nil {
		st, err := domain.ParseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &st
	}
	if input.Date != nil {
		day := truncateDay(*input.Date)
		filter.CreatedOn = &day
	}

	return s.page(ctx, filter, page)
}

func (s *CardService) page(ctx context.Context, filter ports.CardFilter, page ports.PageRequest) (*ports.CardPage, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	return &ports.CardPage{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		Total:      total,
		TotalPages: totalPages(total, page.Size),
	}, nil
}

// Get returns a single card inside the caller's scope.
func (s *CardService) Get(ctx context.Context, token, id string) (*domain.Card, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.findScoped(ctx, ScopeFor(user), id)
}

// Patch applies the provided fields to a card inside the caller's scope.
// An invalid field fails the whole patch before anything is written.
func (s *CardService) Patch(ctx context.Context, token, id string, patch domain.CardPatch) (*domain.Card, error) {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	scope := ScopeFor(user)
	if patch.IsEmpty() {
		return s.findScoped(ctx, scope, id)
	}

	card, err := s.repo.Update(ctx, id, scope, patch)
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("card_id", id).Msg("failed to update card")
		return nil, fmt.Errorf("update card: %w", err)
	}

	s.publish(card.ID, user.ID, domain.ActionUpdated)
	s.logger.Info().Str("card_id", card.ID).Str("user_id", user.ID).Msg("card updated")
	return card, nil
}

// Delete removes a card inside the caller's scope.
func (s *CardService) Delete(ctx context.Context, token, id string) error {
	user, err := s.identity.Resolve(ctx, token)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ScopeFor(user)); err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("card_id", id).Msg("failed to delete card")
		return fmt.Errorf("delete card: %w", err)
	}

	s.publish(id, user.ID, domain.ActionDeleted)
	s.logger.Info().Str("card_id", id).Str("user_id", user.ID).Msg("card deleted")
	return nil
}

// findScoped looks a card up by id alone for an unrestricted scope, and by
// id and creator otherwise.
func (s *CardService) findScoped(ctx context.Context, scope ports.Scope, id string) (*domain.Card, error) {
	var (
		card *domain.Card
		err  error
	)
	if scope.Unrestricted() {
		card, err = s.repo.FindByID(ctx, id)
	} else {
		card, err = s.repo.FindByIDAndCreator(ctx, id, scope.CreatorID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	return card, nil
}

func (s *CardService) publish(cardID, actorID string, action domain.CardAction) {
	s.activity.Publish(domain.CardActivity{
		CardID:  cardID,
		ActorID: actorID,
		Action:  action,
		At:      s.now().UTC(),
	})
}

func normalizePage(p ports.PageRequest) (ports.PageRequest, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		return p, &domain.ValidationError{Field: "page", Message: fmt.Sprintf("must not exceed %d", MaxPage)}
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Sort == "" {
		p.Sort = ports.SortByID
	}
	return p, nil
}

func totalPages(total int64, size int) int {
	if size <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
