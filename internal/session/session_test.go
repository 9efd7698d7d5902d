package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestOpen_FreshFile(t *testing.T) {
	path := sessionPath(t)

	s, err := Open(path)
	require.NoError(t, err)

	assert.NotEmpty(t, s.SessionID())
	assert.Empty(t, s.Auth().Token)
	assert.False(t, s.KitchenOnline())

	// The file exists after Open
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStore_WhitelistedSlicesSurviveReopen(t *testing.T) {
	path := sessionPath(t)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(AuthSlice{
		Token:       "tok-1",
		KitchenID:   "kitchen-1",
		KitchenName: "Main Canteen",
		Phone:       "555-0000",
	}))
	require.NoError(t, s.SetKitchenOnline(true))

	reopened, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, "kitchen-1", reopened.Auth().KitchenID)
	assert.Equal(t, "tok-1", reopened.Auth().Token)
	assert.True(t, reopened.KitchenOnline())
}

func TestOpen_WipesNonWhitelistedKeys(t *testing.T) {
	path := sessionPath(t)

	// A leftover file carrying slices that must never persist
	stale := map[string]any{
		"root": map[string]any{
			"version":       Version,
			"auth":          map[string]string{"token": "tok-1", "kitchenId": "kitchen-1"},
			"kitchenOnline": true,
			"orders":        []string{"O1", "O2"},
			"notifications": []string{"stale notice"},
		},
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "kitchen-1", s.Auth().KitchenID)

	// The rewritten file holds only the whitelist
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.NotContains(t, parsed["root"], "orders")
	assert.NotContains(t, parsed["root"], "notifications")
	assert.Contains(t, parsed["root"], "auth")
}

func TestOpen_VersionMismatchWipes(t *testing.T) {
	path := sessionPath(t)

	stale := map[string]any{
		"root": map[string]any{
			"version": Version + 1,
			"auth":    map[string]string{"token": "tok-old"},
		},
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	assert.Empty(t, s.Auth().Token)
}

func TestOpen_CorruptFileWipes(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	assert.Empty(t, s.Auth().Token)
	assert.False(t, s.KitchenOnline())
}

func TestStore_ResetDropsEverything(t *testing.T) {
	path := sessionPath(t)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetAuth(AuthSlice{Token: "tok-1", KitchenID: "kitchen-1"}))
	require.NoError(t, s.SetKitchenOnline(true))

	require.NoError(t, s.Reset())

	assert.Empty(t, s.Auth().Token)
	assert.False(t, s.KitchenOnline())
}
