package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/apperror"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/events"
	"github.com/MuhammadShohagIslam/Graphql-Course-Server/internal/models"
)

type fakeUsers struct {
	mu       sync.Mutex
	byEmail  map[string]*models.User
	nextID   int
	err      error
	upserts  int
	updates  int
	lookups  int
	listings int
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byEmail: map[string]*models.User{}}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeUsers) UpsertUser(_ context.Context, in models.NewUser) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byEmail[in.Email]; ok {
		return u, nil
	}
	f.nextID++
	u := &models.User{
		ID:       "id-" + in.Email,
		Email:    in.Email,
		Username: fmt.Sprintf("gen%d", f.nextID),
		Role:     models.RoleUser,
		Name:     in.Name,
	}
	f.byEmail[in.Email] = u
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUsers) UpdateProfile(_ context.Context, email string, upd models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	return u, nil
}

func (f *fakeUsers) ListUsersByRole(_ context.Context, role models.Role) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings++
	out := []models.User{}
	for _, u := range f.byEmail {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeServices struct {
	items   []models.Service
	err     error
	lastLim int64
	deletes int
}

func (f *fakeServices) Insert(_ context.Context, svc *models.Service) (*models.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	svc.ID = primitive.NewObjectID()
	svc.CreatedAt = time.UnixMilli(1700000000000).UTC()
	svc.UpdatedAt = svc.CreatedAt
	f.items = append(f.items, *svc)
	return svc, nil
}

func (f *fakeServices) List(_ context.Context, limit int64) ([]models.Service, error) {
	f.lastLim = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && int64(len(f.items)) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeServices) Page(_ context.Context, page, perPage int64) (*models.ServicePage, error) {
	start := (page - 1) * perPage
	if start > int64(len(f.items)) {
		start = int64(len(f.items))
	}
	end := start + perPage
	if end > int64(len(f.items)) {
		end = int64(len(f.items))
	}
	return &models.ServicePage{Services: f.items[start:end], Total: int64(len(f.items))}, nil
}

func (f *fakeServices) Search(_ context.Context, term string) ([]models.Service, error) {
	out := []models.Service{}
	for _, s := range f.items {
		if s.Name == term {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeServices) find(id string) int {
	for i, s := range f.items {
		if s.ID.Hex() == id {
			return i
		}
	}
	return -1
}

func (f *fakeServices) GetByID(_ context.Context, id string) (*models.Service, error) {
	if i := f.find(id); i >= 0 {
		return &f.items[i], nil
	}
	return nil, apperror.NotFound("service", id)
}

func (f *fakeServices) Update(_ context.Context, id string, upd models.ServiceUpdate) (*models.Service, error) {
	i := f.find(id)
	if i < 0 {
		return nil, apperror.NotFound("service", id)
	}
	if upd.Name != nil {
		f.items[i].Name = *upd.Name
	}
	f.items[i].Price = upd.Price
	svc := f.items[i]
	return &svc, nil
}

func (f *fakeServices) Delete(_ context.Context, id string) (*models.Service, error) {
	f.deletes++
	i := f.find(id)
	if i < 0 {
		return nil, nil
	}
	svc := f.items[i]
	f.items = append(f.items[:i], f.items[i+1:]...)
	return &svc, nil
}

// fakeAuth resolves the caller through the user fake, so role changes are
// visible to both the check and the re-fetch.
type fakeAuth struct {
	users *fakeUsers
	email string
}

func (a *fakeAuth) CheckAuth(ctx context.Context) (*models.User, error) {
	if a.email == "" {
		return nil, apperror.Unauthenticated("authentication required")
	}
	a.users.mu.Lock()
	u, ok := a.users.byEmail[a.email]
	a.users.mu.Unlock()
	if !ok {
		return nil, apperror.Unauthenticated("user no longer exists")
	}
	return u, nil
}

type published struct {
	topic events.Topic
	svc   *models.Service
}

type fakeBroker struct {
	mu    sync.Mutex
	sent  []published
	err   error
	feeds map[events.Topic]chan *models.Service
}

func (b *fakeBroker) Publish(_ context.Context, topic events.Topic, svc *models.Service) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, published{topic, svc})
	return b.err
}

func (b *fakeBroker) Subscribe(_ context.Context, topic events.Topic) (<-chan *models.Service, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	ch, ok := b.feeds[topic]
	if !ok {
		return nil, errors.New("no feed")
	}
	return ch, nil
}

type harness struct {
	schema   *graphql.Schema
	users    *fakeUsers
	services *fakeServices
	auth     *fakeAuth
	broker   *fakeBroker
}

var (
	alice = &models.User{ID: "u-alice", Email: "alice@x.com", Username: "alice1", Role: models.RoleUser}
	boss  = &models.User{ID: "u-boss", Email: "boss@x.com", Username: "boss1", Role: models.RoleAdmin}
)

func newHarness(t *testing.T) *harness {
	t.Helper()
	a, b := *alice, *boss
	users := newFakeUsers(&a, &b)
	h := &harness{
		users:    users,
		services: &fakeServices{},
		auth:     &fakeAuth{users: users},
		broker:   &fakeBroker{feeds: map[events.Topic]chan *models.Service{}},
	}
	schema, err := NewSchema(NewResolver(h.users, h.services, h.auth, h.broker, zerolog.Nop()))
	require.NoError(t, err)
	h.schema = schema
	return h
}

func (h *harness) as(email string) *harness {
	h.auth.email = email
	return h
}

func (h *harness) seed(n int) {
	for i := 0; i < n; i++ {
		h.services.items = append(h.services.items, models.Service{
			ID:    primitive.NewObjectID(),
			Name:  "svc",
			Price: "1",
		})
	}
}
