package rollover

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{
    "name": "widget",
    "version": "1.2.9",
    "private": true,
    "scripts": {"build": "tsc", "test": "jest"},
    "dependencies": {
        "zod": "3.22.4",
        "axios": "1.6.0"
    },
    "files": []
}


`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadManifestVersion(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	v, err := ReadManifestVersion(path)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 2, 9}, v)
}

func TestReadManifestVersionErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadManifestVersion(filepath.Join(t.TempDir(), "nope.json"))
		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})
	t.Run("no version", func(t *testing.T) {
		_, err := ReadManifestVersion(writeManifest(t, `{"name": "widget"}`))
		assert.True(t, errors.Is(err, ErrNoVersionField), "got %v", err)
	})
	t.Run("numeric version", func(t *testing.T) {
		_, err := ReadManifestVersion(writeManifest(t, `{"version": 1}`))
		assert.True(t, errors.Is(err, ErrNoVersionField), "got %v", err)
	})
	t.Run("bad version", func(t *testing.T) {
		_, err := ReadManifestVersion(writeManifest(t, `{"version": "1.2"}`))
		assert.True(t, errors.Is(err, ErrInvalidVersion), "got %v", err)
	})
	t.Run("invalid json", func(t *testing.T) {
		_, err := ReadManifestVersion(writeManifest(t, `{"version": "1.2.3"`))
		assert.Error(t, err)
	})
}

func TestWriteManifestVersion(t *testing.T) {
	path := writeManifest(t, sampleManifest)
	require.NoError(t, WriteManifestVersion(path, Version{1, 3, 0}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := `{
  "name": "widget",
  "version": "1.3.0",
  "private": true,
  "scripts": {
    "build": "tsc",
    "test": "jest"
  },
  "dependencies": {
    "zod": "3.22.4",
    "axios": "1.6.0"
  },
  "files": []
}
`
	assert.Equal(t, expected, string(got))
	assert.False(t, strings.HasSuffix(string(got), "\n\n"), "expected exactly one trailing newline")

	v, err := ReadManifestVersion(path)
	require.NoError(t, err)
	assert.Equal(t, Version{1, 3, 0}, v)
}

func TestWriteManifestVersionExpandsShortArrays(t *testing.T) {
	path := writeManifest(t, `{"version": "0.1.0", "files": ["dist", "lib"], "keywords": []}`)
	require.NoError(t, WriteManifestVersion(path, Version{0, 1, 1}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `{
  "version": "0.1.1",
  "files": [
    "dist",
    "lib"
  ],
  "keywords": []
}
`
	assert.Equal(t, expected, string(got))
}

func TestWriteManifestVersionKeepsNestedVersions(t *testing.T) {
	path := writeManifest(t, `{"engines": {"version": "9.9.9"}, "version": "0.1.0"}`)
	require.NoError(t, WriteManifestVersion(path, Version{0, 1, 1}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"engines\": {\n    \"version\": \"9.9.9\"\n  },\n  \"version\": \"0.1.1\"\n}\n", string(got))
}

func TestWriteManifestVersionKeepsMode(t *testing.T) {
	path := writeManifest(t, `{"version": "0.1.0"}`)
	require.NoError(t, os.Chmod(path, 0600))
	require.NoError(t, WriteManifestVersion(path, Version{0, 1, 1}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteManifestVersionRejectsArray(t *testing.T) {
	path := writeManifest(t, `[1, 2, 3]`)
	assert.Error(t, WriteManifestVersion(path, Version{0, 1, 1}))
}
