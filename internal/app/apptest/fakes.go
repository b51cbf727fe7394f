// Package apptest provides in-memory stores and a fake media host for tests.
package apptest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"fastcart-api/internal/app"
	"fastcart-api/internal/model"
	"fastcart-api/internal/repository"
)

type UserStore struct {
	mu    sync.Mutex
	users map[string]model.User
	Err   error
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]model.User)}
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateKey
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

type CategoryStore struct {
	mu         sync.Mutex
	categories map[string]model.Category
	Err        error
	ListCalls  int
}

func NewCategoryStore(seed ...model.Category) *CategoryStore {
	s := &CategoryStore{categories: make(map[string]model.Category)}
	for _, c := range seed {
		s.categories[c.ID] = c
	}
	return s
}

func (s *CategoryStore) List(context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *CategoryStore) Create(_ context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.categories[category.ID] = *category
	return nil
}

func (s *CategoryStore) GetByID(_ context.Context, id string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CategoryStore) Update(_ context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&c)
	s.categories[id] = c
	return &c, nil
}

func (s *CategoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.categories, id)
	return nil
}

// Len reports the number of stored categories.
func (s *CategoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

// Media is a fake host that serves URLs under BaseURL.
type Media struct {
	mu      sync.Mutex
	BaseURL string

	Uploaded  []string
	Deleted   []string
	UploadErr error
	DeleteErr error
}

func NewMedia() *Media {
	return &Media{BaseURL: "https://media.test/"}
}

func (m *Media) Upload(ctx context.Context, file app.MediaFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	id := fmt.Sprintf("img-%d", len(m.Uploaded)+1)
	m.Uploaded = append(m.Uploaded, id)
	return m.BaseURL + id + ".png", nil
}

func (m *Media) PublicID(imageURL string) (string, bool) {
	if !strings.HasPrefix(imageURL, m.BaseURL) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(imageURL, m.BaseURL), ".png"), true
}

func (m *Media) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, publicID)
	return nil
}

func (m *Media) UploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Uploaded)
}

func (m *Media) DeleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Deleted)
}

// Publisher records cleanup jobs instead of sending them.
type Publisher struct {
	mu   sync.Mutex
	Jobs []model.MediaCleanupJob
	Err  error
}

func (p *Publisher) Publish(_ context.Context, job model.MediaCleanupJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Jobs = append(p.Jobs, job)
	return nil
}

// Cache is a single-slot list cache.
type Cache struct {
	mu          sync.Mutex
	list        []model.Category
	hit         bool
	GetErr      error
	Invalidated int
}

func (c *Cache) GetList(context.Context) ([]model.Category, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	return c.list, c.hit, nil
}

func (c *Cache) SetList(_ context.Context, categories []model.Category) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = categories
	c.hit = true
	return nil
}

func (c *Cache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list = nil
	c.hit = false
	c.Invalidated++
	return nil
}

// ErrBoom is a generic upstream failure.
var ErrBoom = errors.New("boom")
