// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package lang maps source files to the comment syntax of their language.
//
// A [Registry] holds one immutable [Profile] per language. Profiles are
// looked up by file name, extension or, for extensionless scripts, by the
// interpreter named on the shebang line.
package lang

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"go.astrophena.name/sourceheaders/unwrap"
)

// ErrUnknownLanguage is returned by [Registry.Resolve] when no profile
// matches a file.
var ErrUnknownLanguage = errors.New("unknown language")

// ErrInvalidProfile is returned by [Registry.Define] when a language
// definition can't produce a usable profile.
var ErrInvalidProfile = errors.New("invalid language profile")

// Script is the language assumed for files that start with a shebang line
// naming an interpreter no profile claims.
const Script = "shell"

// Block describes a block comment.
type Block struct {
	Open  string // on its own line, e.g. "/*"
	Body  string // prefix of every enclosed line, e.g. " * "
	Close string // on its own line, e.g. " */"
}

// Profile is the comment syntax of one language. Profiles are never
// modified once a [Registry] hands them out.
type Profile struct {
	Name         string
	Extensions   []string
	Filenames    []string
	Interpreters []string

	// LinePrefix starts every line of an inline comment, e.g. "# ".
	// Empty when the language has no line comments.
	LinePrefix string
	// Block is nil when the language has no block comments.
	Block *Block
	// PreferInline selects line comments over a block comment when the
	// language has both.
	PreferInline bool
	// Width is the wrap column. Zero means the general width applies.
	Width int
	// SkipLine matches marker lines that must stay at the top of a file,
	// above the header.
	SkipLine *regexp.Regexp
}

// Inline reports whether headers for p are written as line comments.
func (p *Profile) Inline() bool {
	return p.Block == nil || (p.PreferInline && p.LinePrefix != "")
}

// Spec describes a language the way a configuration file does. Nil and
// empty fields leave the corresponding setting of an existing language
// untouched.
type Spec struct {
	Extensions    []string   `toml:"extensions"`
	Filenames     []string   `toml:"filenames"`
	Interpreters  []string   `toml:"interpreters"`
	InlineComment *string    `toml:"inline_comment"`
	BlockComment  *BlockSpec `toml:"block_comment"`
	SkipLine      *string    `toml:"skip_line"`
	PreferInline  *bool      `toml:"prefer_inline"`
	Width         *int       `toml:"width"`
}

// BlockSpec is the configuration form of [Block].
type BlockSpec struct {
	Start string `toml:"start"`
	Line  string `toml:"line"`
	End   string `toml:"end"`
}

// merge applies the fields set in o on top of s.
func (s Spec) merge(o Spec) Spec {
	s.Extensions = appendNew(s.Extensions, o.Extensions...)
	s.Filenames = appendNew(s.Filenames, o.Filenames...)
	s.Interpreters = appendNew(s.Interpreters, o.Interpreters...)
	if o.InlineComment != nil {
		s.InlineComment = o.InlineComment
	}
	if o.BlockComment != nil {
		s.BlockComment = o.BlockComment
	}
	if o.SkipLine != nil {
		s.SkipLine = o.SkipLine
	}
	if o.PreferInline != nil {
		s.PreferInline = o.PreferInline
	}
	if o.Width != nil {
		s.Width = o.Width
	}
	return s
}

func appendNew(dst []string, src ...string) []string {
	dst = slices.Clone(dst)
	for _, v := range src {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

// Defaults are the general settings a language inherits when its own
// definition leaves them unset.
type Defaults struct {
	PreferInline bool
	Width        int
}

//go:embed languages.toml
var languagesTOML string

var builtin = unwrap.Value(parseTable(languagesTOML))

func parseTable(data string) (map[string]Spec, error) {
	var table map[string]Spec
	md, err := toml.Decode(data, &table)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in language table: %v", undecoded)
	}
	return table, nil
}

// Registry resolves files to profiles.
//
// A Registry is built once per run. After the last call to [Registry.Define]
// it is read-only and safe for concurrent use.
type Registry struct {
	defaults Defaults
	order    []string // definition order
	specs    map[string]Spec
	profiles map[string]*Profile

	byExt      map[string]*Profile
	byFilename map[string]*Profile
	byInterp   map[string]*Profile
}

// Default returns a registry of the built-in languages with zero [Defaults].
func Default() *Registry { return New(Defaults{}) }

// New returns a registry of the built-in languages that inherit d.
func New(d Defaults) *Registry {
	r := &Registry{
		defaults: d,
		specs:    make(map[string]Spec, len(builtin)),
		profiles: make(map[string]*Profile, len(builtin)),
	}
	for _, name := range slices.Sorted(maps.Keys(builtin)) {
		unwrap.NoError(r.Define(name, builtin[name]))
	}
	return r
}

// Define adds the language name, or overrides the settings of an existing
// language with the fields set in s.
func (r *Registry) Define(name string, s Spec) error {
	if name == "" {
		return fmt.Errorf("%w: language has no name", ErrInvalidProfile)
	}
	merged := r.specs[name].merge(s)
	p, err := r.build(name, merged)
	if err != nil {
		return err
	}
	if _, ok := r.specs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.specs[name] = merged
	r.profiles[name] = p
	r.reindex()
	return nil
}

func (r *Registry) build(name string, s Spec) (*Profile, error) {
	p := &Profile{
		Name:         name,
		Extensions:   normalizeExts(s.Extensions),
		Filenames:    slices.Clone(s.Filenames),
		Interpreters: slices.Clone(s.Interpreters),
		PreferInline: r.defaults.PreferInline,
		Width:        r.defaults.Width,
	}
	if s.InlineComment != nil {
		p.LinePrefix = *s.InlineComment
	}
	if b := s.BlockComment; b != nil && (b.Start != "" || b.End != "") {
		if strings.TrimSpace(b.Start) == "" || strings.TrimSpace(b.End) == "" {
			return nil, fmt.Errorf("%w: %s: block comment needs both start and end", ErrInvalidProfile, name)
		}
		p.Block = &Block{Open: b.Start, Body: b.Line, Close: b.End}
	}
	if strings.TrimSpace(p.LinePrefix) == "" && p.Block == nil {
		return nil, fmt.Errorf("%w: %s: neither inline_comment nor block_comment is set", ErrInvalidProfile, name)
	}
	if s.PreferInline != nil {
		p.PreferInline = *s.PreferInline
	}
	if s.Width != nil {
		if *s.Width <= 0 {
			return nil, fmt.Errorf("%w: %s: width must be positive, got %d", ErrInvalidProfile, name, *s.Width)
		}
		p.Width = *s.Width
	}
	if s.SkipLine != nil && *s.SkipLine != "" {
		re, err := regexp.Compile(*s.SkipLine)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: skip_line: %v", ErrInvalidProfile, name, err)
		}
		p.SkipLine = re
	}
	return p, nil
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// reindex rebuilds the lookup tables. When two languages claim the same
// extension, file name or interpreter, the one defined last wins.
func (r *Registry) reindex() {
	r.byExt = make(map[string]*Profile)
	r.byFilename = make(map[string]*Profile)
	r.byInterp = make(map[string]*Profile)
	for _, name := range r.order {
		p := r.profiles[name]
		for _, ext := range p.Extensions {
			r.byExt[ext] = p
		}
		for _, fn := range p.Filenames {
			r.byFilename[fn] = p
		}
		for _, in := range p.Interpreters {
			r.byInterp[normalizeInterpreter(in)] = p
		}
	}
}

// Names returns the names of all languages in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.profiles))
}

// Lookup returns the profile of the language name.
func (r *Registry) Lookup(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}
