// Package config loads stipple settings from embedded defaults and an
// optional user file.
//
// Defaults live in defaults.yaml, embedded at build time. A user file is
// decoded on top of them, so it only needs the keys it changes. The file
// format follows the extension: .toml, .yaml/.yml or .json. Without an
// explicit path the CLI looks for $XDG_CONFIG_HOME/stipple/config.toml.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stipple/pkg/errors"
	"github.com/matzehuels/stipple/pkg/pipeline"
	"github.com/matzehuels/stipple/pkg/relax"
	"github.com/matzehuels/stipple/pkg/render"
)

//go:embed defaults.yaml
var defaultsYAML []byte

const appName = "stipple"

// File is the on-disk configuration.
type File struct {
	Relax   relax.Config  `yaml:"relax" toml:"relax" json:"relax"`
	Render  render.Style  `yaml:"render" toml:"render" json:"render"`
	Output  OutputConfig  `yaml:"output" toml:"output" json:"output"`
	Animate AnimateConfig `yaml:"animate" toml:"animate" json:"animate"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Formats []string `yaml:"formats" toml:"formats" json:"formats"`
	Cells   bool     `yaml:"cells" toml:"cells" json:"cells"`
	MaxSize int      `yaml:"max_size" toml:"max_size" json:"max_size"` // 0 keeps the original size
}

// AnimateConfig holds live view settings.
type AnimateConfig struct {
	SnapshotEvery int `yaml:"snapshot_every" toml:"snapshot_every" json:"snapshot_every"` // 0 disables snapshots
}

// Defaults returns the embedded defaults.
func Defaults() (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(defaultsYAML, f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded defaults")
	}
	return f, nil
}

// Load reads path on top of the embedded defaults. An empty path returns
// the defaults alone.
func Load(path string) (*File, error) {
	f, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return f, nil
	}

	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	// Unmarshal into the same struct - only overwrites fields present in file
	if err := decode(path, data, f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadDefault loads the file at DefaultPath if it exists, and the
// defaults otherwise. It also returns the path that was read, or "".
func LoadDefault() (*File, string, error) {
	path, err := DefaultPath()
	if err != nil {
		f, err := Defaults()
		return f, "", err
	}
	if _, err := os.Stat(path); err != nil {
		f, err := Defaults()
		return f, "", err
	}
	f, err := Load(path)
	return f, path, err
}

func decode(path string, data []byte, f *File) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		_, err = toml.Decode(string(data), f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, f)
	case ".json":
		err = json.Unmarshal(data, f)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (want .toml, .yaml or .json)", ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

// Validate checks every section.
func (f *File) Validate() error {
	if err := f.Relax.Validate(relax.Static); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "relax")
	}
	if err := f.Render.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
	}
	if err := pipeline.ValidateFormats(f.Output.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "output")
	}
	if f.Output.MaxSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "output: max_size must not be negative, got %d", f.Output.MaxSize)
	}
	if f.Animate.SnapshotEvery < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animate: snapshot_every must not be negative, got %d", f.Animate.SnapshotEvery)
	}
	return nil
}

// Apply copies the file settings into pipeline options.
func (f *File) Apply(opts *pipeline.Options) {
	opts.Relax = f.Relax
	opts.Style = f.Render
	opts.Formats = append([]string(nil), f.Output.Formats...)
	opts.Cells = f.Output.Cells
	opts.MaxSize = f.Output.MaxSize
}

// Encode renders f in the given format ("yaml", "toml" or "json").
func (f *File) Encode(format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode toml")
		}
	case "json":
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (want yaml, toml or json)", format)
	}
	return buf.Bytes(), nil
}

// DefaultPath returns the user config path using the XDG standard
// (~/.config/stipple/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
