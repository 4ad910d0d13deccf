// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"regexp"
	"strings"

	"go.astrophena.name/sourceheaders/lang"
)

// Span is a half-open range of lines [Start, End) holding the header of a
// file. An empty span means the file has no header and one is inserted
// before line Start.
type Span struct {
	Start, End int
	// Block is set when the header is a block comment.
	Block bool
	// Blank is set when the last line of the span is the single blank line
	// separating the header from the rest of the file.
	Blank bool
}

// Empty reports whether s holds no header.
func (s Span) Empty() bool { return s.Start == s.End }

// Comment returns the range of the comment itself, without the separating
// blank line.
func (s Span) Comment() (start, end int) {
	if s.Blank {
		return s.Start, s.End - 1
	}
	return s.Start, s.End
}

// Locate finds the header among lines, which may carry line terminators.
//
// A shebang on the first line, and any lines matching p.SkipLine after it,
// are skipped and never part of the span, and neither is a blank line
// right after them. If the next line opens a block comment, the span runs
// to the line ending with the closing marker. A block that is unterminated,
// or followed by code on its closing line, is not a header. Otherwise a run
// of lines starting with p.LinePrefix forms the span. A single blank line
// following the comment joins the span; two or more are left alone.
func Locate(lines []string, p *lang.Profile) Span {
	start := skipMarkers(lines, p)
	if start > 0 && start < len(lines) && isBlank(lines[start]) {
		start++
	}
	end, block := commentEnd(lines, start, p)
	s := Span{Start: start, End: end, Block: block}
	if s.Empty() {
		return s
	}
	if end < len(lines) && isBlank(lines[end]) && (end+1 == len(lines) || !isBlank(lines[end+1])) {
		s.End++
		s.Blank = true
	}
	return s
}

func skipMarkers(lines []string, p *lang.Profile) int {
	i := 0
	for i < len(lines) {
		l := trimEOL(lines[i])
		if i == 0 && strings.HasPrefix(l, "#!") {
			i++
			continue
		}
		if p.SkipLine != nil && p.SkipLine.MatchString(l) {
			i++
			continue
		}
		break
	}
	return i
}

func commentEnd(lines []string, i int, p *lang.Profile) (end int, block bool) {
	if i >= len(lines) {
		return i, false
	}
	first := trimEOL(lines[i])

	if b := p.Block; b != nil {
		open, close := strings.TrimSpace(b.Open), strings.TrimSpace(b.Close)
		if rest, ok := strings.CutPrefix(first, open); ok {
			for j, l := i, rest; j < len(lines); j++ {
				if j > i {
					l = trimEOL(lines[j])
				}
				if !strings.Contains(l, close) {
					continue
				}
				if strings.HasSuffix(strings.TrimSpace(l), close) {
					return j + 1, true
				}
				// Code after the closing marker.
				return i, false
			}
			return i, false
		}
	}

	prefix := trimRight(p.LinePrefix)
	if prefix == "" {
		return i, false
	}
	j := i
	for j < len(lines) && strings.HasPrefix(trimEOL(lines[j]), prefix) {
		j++
	}
	return j, false
}

// Text strips the comment markers of p from the header lines in s and
// returns what remains of each line.
func Text(lines []string, s Span, p *lang.Profile) []string {
	start, end := s.Comment()
	var out []string
	for i := start; i < end; i++ {
		l := strings.TrimSpace(trimEOL(lines[i]))
		if s.Block {
			b := p.Block
			if i == start {
				l = strings.TrimPrefix(l, strings.TrimSpace(b.Open))
			}
			if i == end-1 {
				if j := strings.LastIndex(l, strings.TrimSpace(b.Close)); j >= 0 {
					l = l[:j]
				}
			}
			if body := strings.TrimSpace(b.Body); body != "" && i != start {
				l = strings.TrimPrefix(l, body)
			}
		} else {
			l = strings.TrimPrefix(l, trimRight(p.LinePrefix))
		}
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

var copyrightRe = regexp.MustCompile(`(?i)(?:copyright\s*)?(?:\(c\)\s*|©\s*)?((?:(?:\d{4}\s*-\s*)?\d{4}\s*,\s*)*(?:\d{4}\s*-\s*)?\d{4})\s+(.+)`)

// ParseCopyright finds the first copyright line in text, as returned by
// [Text]. Recognised forms include "Copyright (c) 2022 Holder",
// "(C) 2017-2022 Holder" and "Copyright ©2022 Holder".
func ParseCopyright(text []string) (Copyright, bool) {
	for _, l := range text {
		m := copyrightRe.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		holder := strings.TrimSpace(m[2])
		if holder == "" {
			continue
		}
		return Copyright{Years: m[1], Holder: holder}, true
	}
	return Copyright{}, false
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
