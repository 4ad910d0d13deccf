// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package wrap fills paragraphs of plain text to a column width.
//
// Widths are measured in terminal cells, so wide runes count twice. Words
// are never split: a word longer than the width gets a line of its own.
package wrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ErrInvalidWidth is returned for a width less than one.
var ErrInvalidWidth = errors.New("wrap width must be positive")

// Words fills words into lines no wider than width columns, separating
// words on a line with one space.
func Words(words []string, width int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidWidth, width)
	}
	var (
		lines []string
		line  strings.Builder
		cols  int
	)
	for _, w := range words {
		if w == "" {
			continue
		}
		ww := runewidth.StringWidth(w)
		if cols > 0 && cols+1+ww > width {
			lines = append(lines, line.String())
			line.Reset()
			cols = 0
		}
		if cols > 0 {
			line.WriteByte(' ')
			cols++
		}
		line.WriteString(w)
		cols += ww
	}
	if cols > 0 {
		lines = append(lines, line.String())
	}
	return lines, nil
}

// Paragraphs wraps text paragraph by paragraph. Paragraphs are separated
// by blank lines in text and by one empty line in the result. Leading and
// trailing blank lines are dropped.
func Paragraphs(text string, width int) ([]string, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidWidth, width)
	}
	var out []string
	for _, para := range split(text) {
		lines, err := Words(strings.Fields(para), width)
		if err != nil {
			return nil, err
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out, nil
}

// split returns the non-blank paragraphs of text.
func split(text string) []string {
	var (
		paras []string
		cur   []string
	)
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = cur[:0]
		}
	}
	for line := range strings.Lines(text) {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return paras
}
