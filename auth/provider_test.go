package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendmoni/models"
)

func TestOnAuthChangeDeliversCurrentStateFirst(t *testing.T) {
	p := NewProvider(newTestAuthority())

	var events []*Identity
	unsubscribe := p.OnAuthChange(func(id *Identity) { events = append(events, id) })
	defer unsubscribe()

	require.Len(t, events, 1)
	assert.Nil(t, events[0])
}

func TestOnAuthChangeOneEventPerChange(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(newTestAuthority())

	var events []*Identity
	unsubscribe := p.OnAuthChange(func(id *Identity) { events = append(events, id) })

	id, err := p.SignInAnonymous(ctx)
	require.NoError(t, err)

	// Re-asserting the same identity from its own token is not a change.
	_, err = p.SignInWithToken(ctx, p.Token())
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx))
	require.NoError(t, p.SignOut(ctx))

	require.Len(t, events, 3)
	assert.Nil(t, events[0])
	require.NotNil(t, events[1])
	assert.Equal(t, id.UserID, events[1].UserID)
	assert.Nil(t, events[2])

	unsubscribe()
	unsubscribe()
	_, err = p.SignInAnonymous(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestSignUpAndPasswordSignIn(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthority()
	p := NewProvider(a)

	created, err := p.SignUpWithPassword(ctx, "ops@acme.io", "Abcdef1!")
	require.NoError(t, err)
	cur, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, created, cur)
	assert.NotEmpty(t, p.Token())

	other := NewProvider(a)
	got, err := other.SignInWithPassword(ctx, "ops@acme.io", "Abcdef1!")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, got.UserID)
}

func TestSignInFailuresLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(newTestAuthority())

	_, err := p.SignInWithToken(ctx, "garbage")
	var aerr *models.AuthError
	require.True(t, errors.As(err, &aerr))

	_, ok := p.Current()
	assert.False(t, ok)
	assert.Empty(t, p.Token())
}

func TestCancelledContextIsNotReady(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider(newTestAuthority()).SignInAnonymous(ctx)
	var aerr *models.AuthError
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "not ready", aerr.Reason)
}
