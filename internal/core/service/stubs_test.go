package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory card repository. Applies the same scope and filter semantics the
// real stores do.
// ---------------------------------------------------------------------------

type stubCardRepo struct {
	cards  map[string]*domain.Card
	nextID int
	err    error // if set, every call returns this error

	lastFindByID      string
	lastFindByCreator string
	lastFilter        ports.CardFilter
	lastPage          ports.PageRequest
	updates           int
}

func newStubCardRepo() *stubCardRepo {
	return &stubCardRepo{cards: make(map[string]*domain.Card)}
}

func cloneCard(c *domain.Card) *domain.Card {
	clone := *c
	return &clone
}

func (r *stubCardRepo) Create(_ context.Context, c *domain.Card) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	c.ID = strconv.Itoa(r.nextID)
	r.cards[c.ID] = cloneCard(c)
	return nil
}

func (r *stubCardRepo) FindByID(_ context.Context, id string) (*domain.Card, error) {
	r.lastFindByID = id
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.cards[id]
	if !ok {
		return nil, domain.ErrCardNotFound
	}
	return cloneCard(c), nil
}

func (r *stubCardRepo) FindByIDAndCreator(_ context.Context, id, creatorID string) (*domain.Card, error) {
	r.lastFindByCreator = creatorID
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.cards[id]
	if !ok || c.CreatorID != creatorID {
		return nil, domain.ErrCardNotFound
	}
	return cloneCard(c), nil
}

func (r *stubCardRepo) inScope(c *domain.Card, scope ports.Scope) bool {
	return scope.Unrestricted() || c.CreatorID == scope.CreatorID
}

func (r *stubCardRepo) matches(c *domain.Card, f ports.CardFilter) bool {
	if !r.inScope(c, f.Scope) {
		return false
	}
	if f.Name != nil && c.Name != *f.Name {
		return false
	}
	if f.Description != nil && c.Description != *f.Description {
		return false
	}
	if f.Color != nil && c.Color != *f.Color {
		return false
	}
	if f.Status != nil && c.Status != *f.Status {
		return false
	}
	if f.CreatedOn != nil {
		start := *f.CreatedOn
		end := start.AddDate(0, 0, 1)
		if c.CreatedAt.Before(start) || !c.CreatedAt.Before(end) {
			return false
		}
	}
	return true
}

func (r *stubCardRepo) List(_ context.Context, f ports.CardFilter, p ports.PageRequest) ([]*domain.Card, int64, error) {
	r.lastFilter = f
	r.lastPage = p
	if r.err != nil {
		return nil, 0, r.err
	}

	var matched []*domain.Card
	for _, c := range r.cards {
		if r.matches(c, f) {
			matched = append(matched, cloneCard(c))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, _ := strconv.Atoi(matched[i].ID)
		b, _ := strconv.Atoi(matched[j].ID)
		if p.Desc {
			return a > b
		}
		return a < b
	})

	total := int64(len(matched))
	skip := p.Offset()
	if skip > len(matched) {
		return []*domain.Card{}, total, nil
	}
	end := skip + p.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubCardRepo) Update(_ context.Context, id string, scope ports.Scope, patch domain.CardPatch) (*domain.Card, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.cards[id]
	if !ok || !r.inScope(c, scope) {
		return nil, domain.ErrCardNotFound
	}
	updated := cloneCard(c)
	if err := patch.Apply(updated); err != nil {
		return nil, err
	}
	r.cards[id] = updated
	r.updates++
	return cloneCard(updated), nil
}

func (r *stubCardRepo) Delete(_ context.Context, id string, scope ports.Scope) error {
	if r.err != nil {
		return r.err
	}
	c, ok := r.cards[id]
	if !ok || !r.inScope(c, scope) {
		return domain.ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

// ---------------------------------------------------------------------------
// Users, roles, tokens
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	stored := cloneUser(u)
	stored.ID = "u" + strconv.Itoa(r.nextID)
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) add(email string, roles ...domain.Role) *domain.User {
	u, _ := r.Create(context.Background(), &domain.User{Email: email, Roles: roles})
	return u
}

type stubRoleRepo struct {
	seeded map[domain.Role]bool
}

func newStubRoleRepo(roles ...domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{seeded: make(map[domain.Role]bool)}
	for _, role := range roles {
		r.seeded[role] = true
	}
	return r
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.Role) (domain.Role, error) {
	if !r.seeded[name] {
		return "", domain.ErrRoleNotFound
	}
	return name, nil
}

func (r *stubRoleRepo) Seed(_ context.Context, roles ...domain.Role) error {
	for _, role := range roles {
		r.seeded[role] = true
	}
	return nil
}

// tokenTable maps opaque test tokens straight to an email subject.
type tokenTable map[string]string

func (t tokenTable) Parse(token string) (string, error) {
	email, ok := t[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return email, nil
}

// ---------------------------------------------------------------------------
// Idempotency and activity
// ---------------------------------------------------------------------------

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
	// misses forces the next lookups to report nothing stored.
	misses int
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, userID, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	if s.misses > 0 {
		s.misses--
		return "", false, nil
	}
	id, ok := s.keys[userID+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, userID, key, cardID string) error {
	if _, ok := s.keys[userID+":"+key]; !ok {
		s.keys[userID+":"+key] = cardID
	}
	return nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	seen []domain.CardActivity
}

func (p *recordingPublisher) Publish(a domain.CardActivity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, a)
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.seen))
	for i, a := range p.seen {
		out[i] = string(a.Action) + ":" + a.CardID
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const (
	adminToken = "tok-admin"
	aliceToken = "tok-alice"
	bobToken   = "tok-bob"
	ghostToken = "tok-ghost"
)

type fixture struct {
	svc      *CardService
	cards    *stubCardRepo
	users    *stubUserRepo
	idem     *stubIdempotency
	activity *recordingPublisher
	admin    *domain.User
	alice    *domain.User
	bob      *domain.User
}

func newFixture() *fixture {
	users := newStubUserRepo()
	f := &fixture{
		cards:    newStubCardRepo(),
		users:    users,
		idem:     newStubIdempotency(),
		activity: &recordingPublisher{},
		admin:    users.add("admin@example.com", domain.RoleAdmin),
		alice:    users.add("alice@example.com", domain.RoleMember),
		bob:      users.add("bob@example.com", domain.RoleMember),
	}
	tokens := tokenTable{
		adminToken: "admin@example.com",
		aliceToken: "alice@example.com",
		bobToken:   "bob@example.com",
		ghostToken: "ghost@example.com",
	}
	f.svc = NewCardService(NewIdentityResolver(tokens, users), f.cards, f.idem, f.activity, discardLogger)
	return f
}

func (f *fixture) create(token, name string) *domain.Card {
	c, err := f.svc.Create(context.Background(), token, ports.CreateCardInput{Name: name})
	if err != nil {
		panic("fixture create: " + err.Error())
	}
	return c
}

func ptr[T any](v T) *T { return &v }

var errStoreDown = errors.New("store unavailable")

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func joined(ss []string) string { return strings.Join(ss, ",") }
