package rollover

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultManifest is the package descriptor holding the version field.
const DefaultManifest = "package.json"

const manifestIndent = "  "

// ErrNoVersionField is returned when the manifest has no string "version".
var ErrNoVersionField = errors.New("manifest has no version field")

// ReadManifestVersion reads and parses the top-level "version" field.
func ReadManifestVersion(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, fmt.Errorf("reading manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return Version{}, fmt.Errorf("manifest %s is not valid JSON", path)
	}
	res := gjson.GetBytes(data, "version")
	if !res.Exists() || res.Type != gjson.String {
		return Version{}, fmt.Errorf("%s: %w", path, ErrNoVersionField)
	}
	return ParseVersion(res.String())
}

// WriteManifestVersion replaces the top-level "version" field and rewrites
// the file with two-space indentation and a single trailing newline. Every
// other field keeps its value and position.
func WriteManifestVersion(path string, v Version) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	out, err := setManifestVersion(data, v)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func setManifestVersion(data []byte, v Version) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("manifest is not valid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, errors.New("manifest is not a JSON object")
	}
	updated, err := sjson.SetBytes(data, "version", v.String())
	if err != nil {
		return nil, fmt.Errorf("setting version: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(updated), "", manifestIndent); err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
