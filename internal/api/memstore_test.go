package api

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// memCards is an in-memory CardRepository with the same scope semantics as
// the database stores.
type memCards struct {
	mu     sync.Mutex
	cards  map[string]domain.Card
	nextID int
}

func newMemCards() *memCards {
	return &memCards{cards: make(map[string]domain.Card)}
}

func (m *memCards) Create(_ context.Context, c *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = strconv.Itoa(m.nextID)
	m.cards[c.ID] = *c
	return nil
}

func (m *memCards) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	return m.find(id, ports.Scope{})
}

func (m *memCards) FindByIDAndCreator(_ context.Context, id, creatorID string) (*domain.Card, error) {
	return m.find(id, ports.Scope{CreatorID: creatorID})
}

func (m *memCards) find(id string, scope ports.Scope) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok || !(scope.Unrestricted() || c.CreatorID == scope.CreatorID) {
		return nil, domain.ErrCardNotFound
	}
	return &c, nil
}

func (m *memCards) List(_ context.Context, f ports.CardFilter, p ports.PageRequest) ([]*domain.Card, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.Card
	for _, c := range m.cards {
		switch {
		case !f.Unrestricted() && c.CreatorID != f.CreatorID:
		case f.Name != nil && c.Name != *f.Name:
		case f.Description != nil && c.Description != *f.Description:
		case f.Color != nil && c.Color != *f.Color:
		case f.Status != nil && c.Status != *f.Status:
		default:
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a < b
	})

	total := int64(len(out))
	start := min(p.Offset(), len(out))
	end := min(start+p.Size, len(out))
	return out[start:end], total, nil
}

func (m *memCards) Update(_ context.Context, id string, scope ports.Scope, patch domain.CardPatch) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok || !(scope.Unrestricted() || c.CreatorID == scope.CreatorID) {
		return nil, domain.ErrCardNotFound
	}
	if err := patch.Apply(&c); err != nil {
		return nil, err
	}
	m.cards[id] = c
	return &c, nil
}

func (m *memCards) Delete(_ context.Context, id string, scope ports.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok || !(scope.Unrestricted() || c.CreatorID == scope.CreatorID) {
		return domain.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]domain.User)}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	u := *user
	u.ID = "u" + strconv.Itoa(len(m.byEmail)+1)
	m.byEmail[u.Email] = u
	return &u, nil
}

type memRoles struct {
	seeded map[domain.Role]bool
}

func (m *memRoles) FindByName(_ context.Context, name domain.Role) (domain.Role, error) {
	if !m.seeded[name] {
		return "", domain.ErrRoleNotFound
	}
	return name, nil
}

func (m *memRoles) Seed(_ context.Context, roles ...domain.Role) error {
	for _, r := range roles {
		m.seeded[r] = true
	}
	return nil
}
