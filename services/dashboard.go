package services

import (
	"context"
	"sync"

	"trendmoni/auth"
	"trendmoni/models"
	"trendmoni/utils"
)

// Session ties one client's identity to its profile and the dataset derived
// from it. Construct one per client; nothing here is process-global.
type Session struct {
	provider    *auth.Provider
	profiles    *ProfileService
	generator   *Generator
	recommender *RecommendationService
	logger      *utils.Logger

	mu          sync.Mutex
	identity    *auth.Identity
	profile     *models.Profile
	dataset     *models.Dataset
	unsubscribe func()
}

// NewSession creates a Session that follows provider's identity changes.
func NewSession(provider *auth.Provider, profiles *ProfileService, generator *Generator, recommender *RecommendationService, logger *utils.Logger) *Session {
	s := &Session{
		provider:    provider,
		profiles:    profiles,
		generator:   generator,
		recommender: recommender,
		logger:      logger,
	}
	s.unsubscribe = provider.OnAuthChange(s.onAuthChange)
	return s
}

func (s *Session) onAuthChange(id *auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil || s.identity == nil || s.identity.UserID != id.UserID {
		s.profile = nil
		s.dataset = nil
	}
	s.identity = id
}

// Open loads the profile of the signed-in identity. It returns (nil, nil)
// when the identity has no profile yet.
func (s *Session) Open(ctx context.Context) (*models.Profile, error) {
	userID, err := s.userID("open")
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil || p == nil {
		return nil, err
	}
	s.setProfile(userID, p)
	return s.copyProfile(), nil
}

// SignUp registers a credential, signs in with it and creates the profile.
// Password and required-field problems are reported before any account is
// created.
func (s *Session) SignUp(ctx context.Context, email, password string, in ProfileInput) (*models.Profile, error) {
	if err := s.profiles.CheckSignUp(password, in); err != nil {
		return nil, err
	}

	id, err := s.provider.SignUpWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	in.Email = id.Email
	return s.CreateProfile(ctx, in)
}

// CreateProfile writes a new profile for the signed-in identity.
func (s *Session) CreateProfile(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	userID, err := s.userID("create-profile")
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.setProfile(userID, p)
	return s.copyProfile(), nil
}

// UpdateProfile validates and merges patch, regenerating the dataset when
// the niche set changes.
func (s *Session) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.Profile, error) {
	userID, err := s.userID("update-profile")
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	s.setProfile(userID, p)
	return s.copyProfile(), nil
}

// Profile returns a copy of the loaded profile.
func (s *Session) Profile() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return s.profile.Clone(), true
}

// Dataset returns the current snapshot, or nil before a profile is loaded.
// Callers must treat it as read-only.
func (s *Session) Dataset() *models.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset
}

// Recommendations runs the recommendation engine on the current snapshot.
func (s *Session) Recommendations() []models.Recommendation {
	ds := s.Dataset()
	if ds == nil {
		return nil
	}
	return s.recommender.Recommend(ds.GrowthData, ds.CompetitorSeries())
}

// Close stops following identity changes.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *Session) userID(op string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return "", &models.AuthError{Op: op, Reason: "not signed in"}
	}
	return s.identity.UserID, nil
}

// setProfile installs p unless the identity changed while it was loading.
func (s *Session) setProfile(userID string, p *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil || s.identity.UserID != userID {
		return
	}
	cp := p.Clone()
	if s.dataset == nil || !sameNiches(s.dataset.Niches, cp.Niches) {
		s.dataset = s.generator.Generate(cp.Niches)
		s.logger.Debug("[session] Regenerated dataset for %s", userID)
	}
	s.profile = &cp
}

func (s *Session) copyProfile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	cp := s.profile.Clone()
	return &cp
}

// DatasetCache keeps one dataset snapshot per user, regenerated when the
// user's niche set changes. It is safe for concurrent use.
type DatasetCache struct {
	generator *Generator

	mu      sync.Mutex
	entries map[string]cachedDataset
}

type cachedDataset struct {
	key string
	ds  *models.Dataset
}

func NewDatasetCache(generator *Generator) *DatasetCache {
	return &DatasetCache{generator: generator, entries: make(map[string]cachedDataset)}
}

// Get returns the snapshot for userID over niches, generating it if the
// cached one was built from a different niche set.
func (c *DatasetCache) Get(userID string, niches []string) *models.Dataset {
	key := nicheKey(niches)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[userID]; ok && e.key == key {
		return e.ds
	}
	ds := c.generator.Generate(niches)
	c.entries[userID] = cachedDataset{key: key, ds: ds}
	return ds
}

// Invalidate drops the snapshot for userID.
func (c *DatasetCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// Len returns the number of cached snapshots.
func (c *DatasetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
