// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package config loads header settings and language overrides from a TOML
// file.
//
// A configuration file has a [general] table with the header settings and
// any number of [language.<name>] tables that override built-in languages
// or define new ones:
//
//	[general]
//	license = "MIT"
//	copyright_holder = "Jane Doe"
//	width = 80
//
//	[language.python]
//	width = 100
//
// All errors wrap [header.ErrInvalidConfig].
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"go.astrophena.name/sourceheaders/header"
	"go.astrophena.name/sourceheaders/lang"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".sourceheaders.toml"

// Config is a loaded configuration.
type Config struct {
	Header   *header.Config
	Registry *lang.Registry
}

type file struct {
	General  general              `toml:"general"`
	Language map[string]lang.Spec `toml:"language"`
}

type general struct {
	License                      string `toml:"license"`
	LicenseText                  string `toml:"license_text"`
	CopyrightHolder              string `toml:"copyright_holder"`
	HeaderTemplate               string `toml:"header_template"`
	SPDXLicenseIdentifier        string `toml:"spdx_license_identifier"`
	IncludeSPDXLicenseIdentifier string `toml:"include_spdx_license_identifier"`
	PreferInline                 bool   `toml:"prefer_inline"`
	Width                        int    `toml:"width"`
	PreserveCopyrightYears       bool   `toml:"preserve_copyright_years"`
	PreserveCopyrightHolder      bool   `toml:"preserve_copyright_holder"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: configuration file does not exist: %s", header.ErrInvalidConfig, path)
	}
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses and validates a configuration.
func Parse(data []byte) (*Config, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", header.ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", header.ErrInvalidConfig, undecoded)
	}

	g := f.General
	if !md.IsDefined("general", "width") {
		g.Width = header.DefaultWidth
	}
	hc := &header.Config{
		License:         g.License,
		LicenseText:     g.LicenseText,
		CopyrightHolder: g.CopyrightHolder,
		Template:        g.HeaderTemplate,
		SPDXIdentifier:  g.SPDXLicenseIdentifier,
		IncludeSPDX:     g.IncludeSPDXLicenseIdentifier,
		PreferInline:    g.PreferInline,
		Width:           g.Width,
		PreserveYears:   g.PreserveCopyrightYears,
		PreserveHolder:  g.PreserveCopyrightHolder,
	}
	if err := hc.Validate(); err != nil {
		return nil, err
	}

	reg := lang.New(lang.Defaults{PreferInline: hc.PreferInline})
	for _, name := range slices.Sorted(maps.Keys(f.Language)) {
		if err := reg.Define(name, f.Language[name]); err != nil {
			return nil, fmt.Errorf("%w: %w", header.ErrInvalidConfig, err)
		}
	}

	return &Config{Header: hc, Registry: reg}, nil
}
