package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleOAuth_StateRoundTrip(t *testing.T) {
	g := NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "state-secret", nil)

	state, err := g.NewState()
	require.NoError(t, err)
	require.NotEmpty(t, state)

	assert.NoError(t, g.VerifyState(state))
}

func TestGoogleOAuth_StatesAreUnique(t *testing.T) {
	g := NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "state-secret", nil)

	a, err := g.NewState()
	require.NoError(t, err)
	b, err := g.NewState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGoogleOAuth_VerifyStateRejectsGarbage(t *testing.T) {
	g := NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "state-secret", nil)

	assert.Error(t, g.VerifyState(""))
	assert.Error(t, g.VerifyState("not-a-signed-state"))
}

func TestGoogleOAuth_VerifyStateRejectsForeignSecret(t *testing.T) {
	minter := NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "other-secret", nil)
	g := NewGoogleOAuth("client-id", "client-secret", "http://localhost/cb", "state-secret", nil)

	state, err := minter.NewState()
	require.NoError(t, err)
	assert.Error(t, g.VerifyState(state))
}
