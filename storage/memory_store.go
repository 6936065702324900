package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"trendmoni/models"
)

var errEmptyUserID = errors.New("empty user id")

// MemoryStore keeps profiles in process memory. It is safe for concurrent use.
type MemoryStore struct {
	appID string

	mu   sync.RWMutex
	docs map[string]models.Profile
}

// NewMemoryStore creates an empty MemoryStore for appID.
func NewMemoryStore(appID string) *MemoryStore {
	return &MemoryStore{appID: appID, docs: make(map[string]models.Profile)}
}

func (m *MemoryStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	key := DocumentPath(m.appID, userID)
	if err := checkCall(ctx, userID); err != nil {
		return nil, &models.StoreError{Op: "get", Key: key, Err: err}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.docs[key]
	if !ok {
		return nil, nil
	}
	out := p.Clone()
	return &out, nil
}

func (m *MemoryStore) PutProfile(ctx context.Context, userID string, p models.Profile) error {
	key := DocumentPath(m.appID, userID)
	if err := checkCall(ctx, userID); err != nil {
		return &models.StoreError{Op: "put", Key: key, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = p.Clone()
	return nil
}

func (m *MemoryStore) MergeProfile(ctx context.Context, userID string, patch models.ProfilePatch) error {
	key := DocumentPath(m.appID, userID)
	if err := checkCall(ctx, userID); err != nil {
		return &models.StoreError{Op: "merge", Key: key, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = m.docs[key].Apply(patch)
	return nil
}

// ListProfiles returns every profile ordered by creation time.
func (m *MemoryStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.StoreError{Op: "list", Key: m.appID, Err: err}
	}

	m.mu.RLock()
	out := make([]models.Profile, 0, len(m.docs))
	for _, p := range m.docs {
		out = append(out, p.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func checkCall(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if userID == "" {
		return errEmptyUserID
	}
	return nil
}
