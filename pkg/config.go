package rollover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the workspace when no path is given.
const DefaultConfigFile = ".rollover.yaml"

// Config controls the release procedure.
type Config struct {
	// Manifest is the JSON package descriptor, relative to the workspace.
	Manifest string `yaml:"manifest"`
	// BaseBranch is where releases are merged and tagged.
	BaseBranch string `yaml:"base_branch"`
	// DefaultBranch is offered at the branch prompt.
	DefaultBranch  string   `yaml:"default_branch"`
	Remote         string   `yaml:"remote"`
	PackageManager string   `yaml:"package_manager"`
	OpenCommand    string   `yaml:"open_command"`
	BumpFiles      []string `yaml:"bump_files,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Manifest:       DefaultManifest,
		BaseBranch:     "main",
		DefaultBranch:  "develop",
		Remote:         "origin",
		PackageManager: "yarn",
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file is not an
// error; empty fields in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Merge(fileCfg)
	return cfg, cfg.Validate()
}

// Merge copies every non-empty field of other into c.
func (c *Config) Merge(other Config) {
	if other.Manifest != "" {
		c.Manifest = other.Manifest
	}
	if other.BaseBranch != "" {
		c.BaseBranch = other.BaseBranch
	}
	if other.DefaultBranch != "" {
		c.DefaultBranch = other.DefaultBranch
	}
	if other.Remote != "" {
		c.Remote = other.Remote
	}
	if other.PackageManager != "" {
		c.PackageManager = other.PackageManager
	}
	if other.OpenCommand != "" {
		c.OpenCommand = other.OpenCommand
	}
	if len(other.BumpFiles) > 0 {
		c.BumpFiles = append([]string(nil), other.BumpFiles...)
	}
}

// Validate rejects settings that would produce broken commands.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Manifest) == "" {
		problems = append(problems, "manifest is empty")
	}
	if strings.TrimSpace(c.BaseBranch) == "" {
		problems = append(problems, "base_branch is empty")
	}
	if strings.TrimSpace(c.Remote) == "" {
		problems = append(problems, "remote is empty")
	}
	if strings.TrimSpace(c.PackageManager) == "" {
		problems = append(problems, "package_manager is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Opener returns the browser-open program and its leading arguments.
func (c Config) Opener() (string, []string) {
	if fields := strings.Fields(c.OpenCommand); len(fields) > 0 {
		return fields[0], fields[1:]
	}
	return platformOpener(runtime.GOOS)
}

func platformOpener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}
	default:
		return "xdg-open", nil
	}
}
