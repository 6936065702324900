package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trendmoni/auth"
	"trendmoni/models"
	"trendmoni/storage"
	"trendmoni/utils"
)

// ErrProfileNotFound is returned when an update targets a user without a profile.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileInput is the data collected when a company profile is first created.
type ProfileInput struct {
	CompanyName          string   `json:"companyName"`
	Email                string   `json:"email"`
	Niches               []string `json:"selectedNiches"`
	NotificationsEnabled bool     `json:"emailNotifications"`
}

// ProfileService validates profile input and writes it to the store.
type ProfileService struct {
	store   storage.ProfileStore
	cleaner *Cleaner
	logger  *utils.Logger
	now     func() time.Time
}

func NewProfileService(store storage.ProfileStore, cleaner *Cleaner, logger *utils.Logger) *ProfileService {
	return &ProfileService{store: store, cleaner: cleaner, logger: logger, now: time.Now}
}

// Get returns the user's profile, or (nil, nil) if none exists yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	return s.store.GetProfile(ctx, userID)
}

// CheckSignUp reports password and required-field problems for a sign-up
// before any credential is registered.
func (s *ProfileService) CheckSignUp(password string, in ProfileInput) error {
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}
	return ValidateProfile(in.CompanyName, s.cleaner.CleanNiches(in.Niches))
}

// Create validates in and writes a fresh profile document for userID,
// replacing any existing one.
func (s *ProfileService) Create(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	niches := s.cleaner.CleanNiches(in.Niches)
	name := normaliseText(in.CompanyName)
	if err := ValidateProfile(name, niches); err != nil {
		return nil, err
	}

	p := models.Profile{
		UserID:               userID,
		CompanyName:          name,
		Email:                in.Email,
		Niches:               niches,
		NotificationsEnabled: in.NotificationsEnabled,
		CreatedAt:            s.now().UTC(),
	}
	if err := s.store.PutProfile(ctx, userID, p); err != nil {
		return nil, fmt.Errorf("services: create profile: %w", err)
	}

	s.logger.Info("[profile] Created profile for %s with niches %v", userID, niches)
	return &p, nil
}

// Update merges the editable fields of patch (company name, niches,
// notifications) into the user's profile and returns the merged result.
// Identity fields in patch are ignored.
func (s *ProfileService) Update(ctx context.Context, userID string, patch models.ProfilePatch) (*models.Profile, error) {
	current, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("services: update profile: %w", err)
	}
	if current == nil {
		return nil, ErrProfileNotFound
	}

	edit := models.ProfilePatch{NotificationsEnabled: patch.NotificationsEnabled}
	name := current.CompanyName
	if patch.CompanyName != nil {
		name = normaliseText(*patch.CompanyName)
		edit.CompanyName = &name
	}
	niches := current.Niches
	if patch.Niches != nil {
		niches = s.cleaner.CleanNiches(patch.Niches)
		edit.Niches = niches
	}
	if err := ValidateProfile(name, niches); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	edit.UpdatedAt = &now
	if err := s.store.MergeProfile(ctx, userID, edit); err != nil {
		return nil, fmt.Errorf("services: update profile: %w", err)
	}

	merged := current.Apply(edit)
	s.logger.Info("[profile] Updated profile for %s", userID)
	return &merged, nil
}

// Replace overwrites the editable fields of the user's profile wholesale.
// The profile must already exist.
func (s *ProfileService) Replace(ctx context.Context, userID string, in ProfileInput) (*models.Profile, error) {
	notify := in.NotificationsEnabled
	niches := in.Niches
	if niches == nil {
		niches = []string{}
	}
	return s.Update(ctx, userID, models.ProfilePatch{
		CompanyName:          &in.CompanyName,
		Niches:               niches,
		NotificationsEnabled: &notify,
	})
}
