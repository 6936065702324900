package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"trendmoni/auth"
	"trendmoni/models"
)

func newTestSession(t *testing.T) (*Session, *auth.Provider) {
	t.Helper()
	authority := auth.NewAuthority("test-app", "test-secret", time.Hour, auth.WithHashCost(bcrypt.MinCost))
	provider := auth.NewProvider(authority)
	profiles, _ := newTestProfileService()
	s := NewSession(provider, profiles, newSeededGenerator(7), NewRecommendationService(newTestLogger()), newTestLogger())
	t.Cleanup(s.Close)
	return s, provider
}

func TestSessionRequiresIdentity(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Open(context.Background())
	var aerr *models.AuthError
	if !errors.As(err, &aerr) {
		t.Errorf("Open signed out: got %v, want AuthError", err)
	}
	if s.Dataset() != nil || s.Recommendations() != nil {
		t.Error("signed-out session should have no dataset")
	}
}

func TestSessionSignUpBuildsDataset(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	p, err := s.SignUp(ctx, "owner@acme.test", "Str0ng!Pass", ProfileInput{CompanyName: "Acme", Niches: []string{"Tech", "Food"}})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	id, ok := provider.Current()
	if !ok || p.UserID != id.UserID {
		t.Fatalf("profile user %q does not match identity %+v", p.UserID, id)
	}
	if p.Email != "owner@acme.test" {
		t.Errorf("Email: got %q", p.Email)
	}

	ds := s.Dataset()
	if ds == nil {
		t.Fatal("Dataset should be built after sign-up")
	}
	if len(ds.Trends) != 6 || len(ds.Competitors) != 4 {
		t.Errorf("dataset: got %d trends, %d competitors", len(ds.Trends), len(ds.Competitors))
	}
	if len(s.Recommendations()) == 0 {
		t.Error("Recommendations should not be empty")
	}
}

func TestSessionSignUpValidatesBeforeRegistering(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "owner@acme.test", "weak", ProfileInput{CompanyName: "Acme", Niches: []string{"Tech"}})
	var verr *models.InputValidationError
	if !errors.As(err, &verr) || verr.Field != "password" {
		t.Errorf("weak password: got %v", err)
	}

	_, err = s.SignUp(ctx, "owner@acme.test", "Str0ng!Pass", ProfileInput{CompanyName: "Acme"})
	if !errors.As(err, &verr) || verr.Field != "profile" {
		t.Errorf("missing niches: got %v", err)
	}
	if _, ok := provider.Current(); ok {
		t.Error("no identity should exist after rejected sign-ups")
	}
}

func TestSessionUpdateRegeneratesOnNicheChange(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	if _, err := s.SignUp(ctx, "owner@acme.test", "Str0ng!Pass", ProfileInput{CompanyName: "Acme", Niches: []string{"Tech"}}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	before := s.Dataset()

	off := false
	if _, err := s.UpdateProfile(ctx, models.ProfilePatch{NotificationsEnabled: &off}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if s.Dataset() != before {
		t.Error("dataset should be kept when niches are unchanged")
	}

	if _, err := s.UpdateProfile(ctx, models.ProfilePatch{Niches: []string{"Fashion"}}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	after := s.Dataset()
	if after == before {
		t.Fatal("dataset should be regenerated when niches change")
	}
	for _, tr := range after.Trends {
		if tr.Topic != "Fashion" {
			t.Errorf("trend topic: got %q, want Fashion", tr.Topic)
		}
	}
}

func TestSessionSignOutClearsState(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()
	if _, err := provider.SignInAnonymous(ctx); err != nil {
		t.Fatalf("SignInAnonymous: %v", err)
	}
	if _, err := s.CreateProfile(ctx, ProfileInput{CompanyName: "Anon Co", Niches: []string{"Food"}}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, ok := s.Profile(); ok {
		t.Error("profile should be cleared on sign-out")
	}
	if s.Dataset() != nil {
		t.Error("dataset should be cleared on sign-out")
	}
}

func TestSessionOpenLoadsExistingProfile(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()
	if _, err := s.SignUp(ctx, "owner@acme.test", "Str0ng!Pass", ProfileInput{CompanyName: "Acme", Niches: []string{"Tech"}}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if err := provider.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := provider.SignInWithPassword(ctx, "owner@acme.test", "Str0ng!Pass"); err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}

	p, err := s.Open(ctx)
	if err != nil || p == nil {
		t.Fatalf("Open: %v, %v", p, err)
	}
	if p.CompanyName != "Acme" || s.Dataset() == nil {
		t.Errorf("Open: got %+v", p)
	}
}

func TestSessionOpenWithoutProfile(t *testing.T) {
	s, provider := newTestSession(t)
	ctx := context.Background()
	if _, err := provider.SignInAnonymous(ctx); err != nil {
		t.Fatalf("SignInAnonymous: %v", err)
	}
	p, err := s.Open(ctx)
	if err != nil || p != nil {
		t.Errorf("Open: got %v, %v; want nil, nil", p, err)
	}
}

func TestDatasetCache(t *testing.T) {
	c := NewDatasetCache(newSeededGenerator(8))

	a := c.Get("u1", []string{"Tech"})
	if c.Get("u1", []string{"Tech"}) != a {
		t.Error("same niches should return the cached snapshot")
	}
	b := c.Get("u1", []string{"Tech", "Food"})
	if b == a {
		t.Error("changed niches should regenerate the snapshot")
	}
	c.Get("u2", []string{"Tech"})
	if c.Len() != 2 {
		t.Errorf("Len: got %d, want 2", c.Len())
	}

	c.Invalidate("u1")
	if c.Get("u1", []string{"Tech", "Food"}) == b {
		t.Error("invalidated entry should be regenerated")
	}
}
