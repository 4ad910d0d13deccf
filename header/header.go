// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package header adds, replaces and renders license header comments in
// source files.
//
// A header is the first comment of a file, below an optional shebang or
// other marker lines that must stay on top. Any leading comment is treated
// as the header, whatever it says: [Locate] doesn't look at its content.
package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"go.astrophena.name/sourceheaders/license"
	"go.astrophena.name/sourceheaders/syncx"
	"go.astrophena.name/sourceheaders/wrap"
)

// ErrInvalidConfig is returned for a [Config] that can't produce a header.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultTemplate is used when [Config.Template] is empty.
const DefaultTemplate = "Copyright (c) {{.Year}} {{.Holder}}\n\n{{.License}}"

// DefaultWidth is the wrap column used when nothing else is configured.
const DefaultWidth = 80

// NoAssertion is the SPDX identifier used when no license is known.
const NoAssertion = "NOASSERTION"

// SPDX modes for [Config.IncludeSPDX].
const (
	SPDXAuto   = "auto"
	SPDXAlways = "always"
	SPDXNever  = "never"
)

// Config holds the settings a header is rendered from. It must not be
// modified or copied after first use.
type Config struct {
	// License is the SPDX identifier of a bundled license notice.
	License string
	// LicenseText is used as the license notice when License is empty.
	LicenseText string
	// CopyrightHolder is the copyright holder named in the header.
	CopyrightHolder string
	// Template is a text/template for the header body. It gets .Year,
	// .Holder and .License. DefaultTemplate is used if empty.
	Template string
	// SPDXIdentifier overrides the identifier written on the
	// SPDX-License-Identifier line. It defaults to License.
	SPDXIdentifier string
	// IncludeSPDX is one of SPDXAuto (the default), SPDXAlways or
	// SPDXNever. In auto mode the line is written unless the identifier is
	// NoAssertion.
	IncludeSPDX string
	// PreferInline is the default for languages that don't set it.
	PreferInline bool
	// Width is the default wrap column for languages that don't set one.
	Width int
	// PreserveYears keeps the years of an existing copyright line.
	PreserveYears bool
	// PreserveHolder keeps the holder of an existing copyright line.
	PreserveHolder bool

	tmpl syncx.Lazy[*template.Template]
}

// Validate reports whether c can render headers. Errors wrap
// [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	}
	switch c.IncludeSPDX {
	case "", SPDXAuto, SPDXAlways, SPDXNever:
	default:
		return fmt.Errorf("%w: include_spdx_license_identifier must be %q, %q or %q, got %q",
			ErrInvalidConfig, SPDXAuto, SPDXAlways, SPDXNever, c.IncludeSPDX)
	}
	if _, err := c.licenseText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.template(); err != nil {
		return fmt.Errorf("%w: header_template: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) template() (*template.Template, error) {
	return c.tmpl.GetErr(func() (*template.Template, error) {
		src := c.Template
		if src == "" {
			src = DefaultTemplate
		}
		return template.New("header").Option("missingkey=error").Parse(src)
	})
}

func (c *Config) licenseText() (string, error) {
	if c.License != "" {
		return license.Text(c.License)
	}
	return strings.TrimSpace(c.LicenseText), nil
}

func (c *Config) spdx() (id string, include bool) {
	id = c.SPDXIdentifier
	if id == "" {
		id = c.License
	}
	if id == "" {
		id = NoAssertion
	}
	switch c.IncludeSPDX {
	case SPDXAlways:
		return id, true
	case SPDXNever:
		return id, false
	default:
		return id, id != NoAssertion
	}
}

// Copyright is a parsed copyright line.
type Copyright struct {
	Years  string // e.g. "2022" or "2017-2020, 2022"
	Holder string
}

// Compose returns the plain text of a header: paragraphs separated by
// blank lines, not yet wrapped or commented. year is used unless prev
// holds years to preserve.
func Compose(cfg *Config, year int, prev *Copyright) (string, error) {
	tmpl, err := cfg.template()
	if err != nil {
		return "", fmt.Errorf("%w: header_template: %w", ErrInvalidConfig, err)
	}
	lic, err := cfg.licenseText()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	data := struct {
		Year    string
		Holder  string
		License string
	}{
		Year:    strconv.Itoa(year),
		Holder:  cfg.CopyrightHolder,
		License: lic,
	}
	if prev != nil {
		if cfg.PreserveYears && prev.Years != "" {
			data.Year = prev.Years
		}
		if cfg.PreserveHolder && prev.Holder != "" {
			data.Holder = prev.Holder
		}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("%w: header_template: %w", ErrInvalidConfig, err)
	}
	text := strings.TrimSpace(sb.String())

	if id, ok := cfg.spdx(); ok {
		if text != "" {
			text += "\n\n"
		}
		text += "SPDX-License-Identifier: " + id
	}
	if text == "" {
		return "", fmt.Errorf("%w: header text is empty", ErrInvalidConfig)
	}
	return text, nil
}

// wrapWidth returns the column the body of a comment is wrapped at, given
// the comment prefix width.
func wrapWidth(width, prefix int) (int, error) {
	if width <= 0 {
		return 0, fmt.Errorf("%w: %w, got %d", ErrInvalidConfig, wrap.ErrInvalidWidth, width)
	}
	return max(1, width-prefix), nil
}
