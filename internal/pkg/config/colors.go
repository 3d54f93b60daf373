package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrUnknownColorScheme = errors.New("unknown color scheme")

// ColorScheme is the indicator background for each state. Radial gradients list the
// centre colour first.
type ColorScheme struct {
	Off string `yaml:"off"`
	On  string `yaml:"on"`
}

func (c ColorScheme) Style(on bool) string {
	if on {
		return c.On
	}
	return c.Off
}

type ColorSchemes map[string]ColorScheme

func DefaultColorSchemes() ColorSchemes {
	return ColorSchemes{
		"green": {Off: "#145a32", On: "radial-gradient(#d5f5e3, #2ecc71)"},
		"red":   {Off: "#641e16", On: "radial-gradient(#f5b7b1, #cb4335)"},
	}
}

// LoadColorSchemes returns the built in schemes, extended or overridden by the schemes in
// the yaml file at path. An empty path only returns the built in ones.
func LoadColorSchemes(path string) (ColorSchemes, error) {
	schemes := DefaultColorSchemes()
	if path == "" {
		return schemes, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fromFile := ColorSchemes{}
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse color schemes %s: %w", path, err)
	}
	for name, scheme := range fromFile {
		if scheme.On == "" || scheme.Off == "" {
			return nil, fmt.Errorf("color scheme %q needs both on and off", name)
		}
		schemes[name] = scheme
	}
	return schemes, nil
}

func (cs ColorSchemes) Lookup(name string) (ColorScheme, error) {
	scheme, ok := cs[name]
	if !ok {
		return ColorScheme{}, fmt.Errorf("%w: %q", ErrUnknownColorScheme, name)
	}
	return scheme, nil
}
