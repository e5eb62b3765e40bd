package auth

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := NewStore(filepath.Join(t.TempDir(), "cfg"))

	ti, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, ti, "no credentials yet")

	require.NoError(t, s.Set("Bearer abc123", nil))

	ti, err = s.Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc123", ti.Token)
	assert.Equal(t, "file", ti.Source)
	assert.Nil(t, ti.ExpiresAt)

	info, err := os.Stat(filepath.Join(s.Dir, credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Delete())
	require.NoError(t, s.Delete(), "deleting twice is fine")

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStore_EnvOverride(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Set("from-file", nil))
	t.Setenv(EnvToken, "bearer from-env")

	ti, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestStore_SetRejectsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Error(t, s.Set("   ", nil))
}

func TestStore_CorruptFile(t *testing.T) {
	t.Setenv(EnvToken, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, credFileName), []byte("{"), 0o600))

	_, err := NewStore(dir).Get()
	assert.ErrorContains(t, err, "parse credentials")
}

func TestClaims(t *testing.T) {
	payload := `{"sub":"idil","exp":1900000000}`
	token := "x." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"

	got, ok := Claims(token)
	require.True(t, ok)
	assert.Equal(t, payload, got)

	_, ok = Claims("opaque-token")
	assert.False(t, ok)

	exp := jwtExpiry(token)
	require.NotNil(t, exp)
	assert.Equal(t, int64(1900000000), exp.Unix())
}
