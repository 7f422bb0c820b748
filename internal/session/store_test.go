package session

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CredentialsRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	want := Credentials{
		Token:      "tok",
		Address:    "0xabc",
		AgentID:    "agent-1",
		LoggedInAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveCredentials(want))

	got, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(store.credentialsPath())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestStore_MissingCredentialsIsZero(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	got, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Empty(t, got.Token)
}

func TestStore_ClearCredentials(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.SaveCredentials(Credentials{Token: "tok"}))
	require.NoError(t, store.ClearCredentials())
	// Clearing twice is not an error.
	require.NoError(t, store.ClearCredentials())

	got, err := store.LoadCredentials()
	require.NoError(t, err)
	assert.Empty(t, got.Token)
}

func TestStore_SessionRef(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, store.ReadSessionRef())

	require.NoError(t, store.WriteSessionRef("chat-42"))
	assert.Equal(t, "chat-42", store.ReadSessionRef())

	require.NoError(t, store.WriteSessionRef("  chat-43\n"))
	assert.Equal(t, "chat-43", store.ReadSessionRef())

	require.NoError(t, store.WriteSessionRef(""))
	assert.Empty(t, store.ReadSessionRef())
	_, statErr := os.Stat(store.SessionRefPath())
	assert.True(t, os.IsNotExist(statErr))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "0xabc",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(signed)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp), "want %v, got %v", exp, got)
}

func TestTokenExpiry_NoClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "0xabc",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(signed)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTokenExpiry_Garbage(t *testing.T) {
	_, err := TokenExpiry("not a jwt")
	assert.Error(t, err)
}
