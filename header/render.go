// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"go.astrophena.name/sourceheaders/lang"
	"go.astrophena.name/sourceheaders/wrap"
)

// Render formats text as a comment in the syntax of p, one string per line
// without line terminators.
//
// Text is wrapped so that commented lines fit p.Width columns, or
// cfg.Width when the profile has no width of its own. Inline headers
// prefix every line with p.LinePrefix; block headers put the opening and
// closing markers on lines of their own. Trailing whitespace is trimmed
// from every line.
func Render(cfg *Config, p *lang.Profile, text string) ([]string, error) {
	width := p.Width
	if width == 0 {
		width = cfg.Width
	}

	inline := p.Inline()
	prefix := p.LinePrefix
	if !inline {
		prefix = p.Block.Body
	}

	w, err := wrapWidth(width, runewidth.StringWidth(prefix))
	if err != nil {
		return nil, err
	}
	body, err := wrap.Paragraphs(text, w)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(body)+2)
	if !inline {
		lines = append(lines, trimRight(p.Block.Open))
	}
	for _, l := range body {
		lines = append(lines, trimRight(prefix+l))
	}
	if !inline {
		lines = append(lines, trimRight(p.Block.Close))
	}
	return lines, nil
}

func trimRight(s string) string { return strings.TrimRight(s, " \t") }
