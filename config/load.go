package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a recipe file over the defaults. The format is picked by
// extension: .yaml, .yml or .toml. Unknown keys are rejected.
func Load(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open recipe %q", path)
	}
	defer f.Close()

	r, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "recipe %q", path)
	}
	return r, nil
}

func Decode(in io.Reader, ext string) (*Recipe, error) {
	r := Default()

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(in)
		dec.KnownFields(true)
		if err := dec.Decode(r); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to parse yaml")
		}
	case ".toml":
		dec := toml.NewDecoder(in)
		dec.DisallowUnknownFields()
		if err := dec.Decode(r); err != nil {
			return nil, errors.Wrap(err, "failed to parse toml")
		}
	default:
		return nil, errors.Errorf("unknown recipe format %q", ext)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
