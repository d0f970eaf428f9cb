package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"library-catalog-service/internal/domain"
)

type memoryRepo struct {
	mu        sync.Mutex
	resources map[string]*domain.SearchResult
	order     []string
	listErr   error
	upsertErr error
}

func newMemoryRepo(resources ...*domain.SearchResult) *memoryRepo {
	r := &memoryRepo{resources: map[string]*domain.SearchResult{}}
	_ = r.BulkUpsert(context.Background(), resources)
	return r
}

func (r *memoryRepo) ListAll(_ context.Context) ([]*domain.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.SearchResult, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.resources[id])
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.SearchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resources[id], nil
}

func (r *memoryRepo) BulkUpsert(_ context.Context, resources []*domain.SearchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, res := range resources {
		if _, ok := r.resources[res.ID]; !ok {
			r.order = append(r.order, res.ID)
		}
		r.resources[res.ID] = res
	}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resources, id)
	return nil
}

func (r *memoryRepo) Count(_ context.Context, t domain.ResourceType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, res := range r.resources {
		if t == "" || res.Type == t {
			n++
		}
	}
	return n, nil
}

type fakeProvider struct {
	name      string
	resources []*domain.SearchResult
	err       error
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(_ context.Context) ([]*domain.SearchResult, error) {
	return p.resources, p.err
}

func (p *fakeProvider) HealthCheck(_ context.Context) error { return p.err }

type memoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	broken bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

var errStoreDown = errors.New("store down")

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return nil, errStoreDown
	}
	return s.data[key], nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return errStoreDown
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return errStoreDown
	}
	delete(s.data, key)
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	return nil
}

func sampleResources() []*domain.SearchResult {
	return []*domain.SearchResult{
		{ID: "v1", Type: domain.ResourceTypeVideo, Title: "Gestão de projetos", Author: "Ana Souza", Subject: "Administração", Year: 2021, Language: "Português"},
		{ID: "v2", Type: domain.ResourceTypeVideo, Title: "Introdução à gestão pública", Author: "Carlos Lima", Subject: "Administração Pública", Year: 2023, Language: "Português"},
		{ID: "v3", Type: domain.ResourceTypeVideo, Title: "Python para iniciantes", Author: "Ana Souza", Subject: "Programação", Year: 2022, Language: "Português"},
		{ID: "b1", Type: domain.ResourceTypeTitle, Title: "Gestão estratégica", Author: "José Álvares", Subject: "Administração", Year: 2018, Language: "Português"},
		{ID: "b2", Type: domain.ResourceTypeTitle, Title: "Clean Architecture", Author: "Robert Martin", Subject: "Programação", Year: 2017, Language: "English"},
	}
}
