package service

import (
	"context"
	"sync"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user domain.User) error
	findByEmailFunc func(ctx context.Context, email string) (domain.User, error)
	findByIDFunc    func(ctx context.Context, id domain.ID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}

type sequenceIDGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.n%len(g.ids)]
	g.n++
	return id, nil
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, queue string, body []byte) error
	calls       int
	lastQueue   string
	lastBody    []byte
}

func (m *mockPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	m.calls++
	m.lastQueue = queue
	m.lastBody = body
	if m.publishFunc != nil {
		return m.publishFunc(ctx, queue, body)
	}
	return nil
}

type mockExternalAPI struct {
	enabled      bool
	postJSONFunc func(ctx context.Context, path string, in, out any) error
	calls        int
	lastPath     string
}

func (m *mockExternalAPI) Enabled() bool { return m.enabled }

func (m *mockExternalAPI) PostJSON(ctx context.Context, path string, in, out any) error {
	m.calls++
	m.lastPath = path
	if m.postJSONFunc != nil {
		return m.postJSONFunc(ctx, path, in, out)
	}
	return nil
}
