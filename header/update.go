// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package header

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go4org/hashtriemap"
	"github.com/natefinch/atomic"

	"go.astrophena.name/sourceheaders/lang"
	"go.astrophena.name/sourceheaders/logger"
	"go.astrophena.name/sourceheaders/syncx"
)

// ErrDuplicatePath is the reason a file is skipped when it was already
// given to [Updater.UpdateAll] under another path.
var ErrDuplicatePath = errors.New("duplicate path")

// Outcome is the result of processing one file.
type Outcome int

// Outcomes.
const (
	Unchanged Outcome = iota // header is already up to date
	Added                    // header was inserted
	Replaced                 // existing header was replaced
	Skipped                  // file was not processed, see Result.Err
	Failed                   // file could not be read or written
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Added:
		return "added"
	case Replaced:
		return "replaced"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Modified reports whether the file was, or in a dry run would be,
// changed.
func (o Outcome) Modified() bool { return o == Added || o == Replaced }

// Result is the outcome of processing the file at Path.
type Result struct {
	Path    string
	Outcome Outcome
	// Err is the reason for Skipped and Failed outcomes.
	Err error
	// Diff holds the proposed change of a dry run.
	Diff string
}

// Updater rewrites file headers. Config and Registry are shared by all
// files and must not change while the Updater is in use.
type Updater struct {
	Config   *Config
	Registry *lang.Registry
	// Now returns the current time, which dates new copyright lines.
	// time.Now is used if nil.
	Now func() time.Time
	// DryRun disables writing. Results carry a diff instead.
	DryRun bool
	// Workers limits how many files UpdateAll processes at once.
	// runtime.GOMAXPROCS(0) is used if zero.
	Workers int
}

func (u *Updater) year() int {
	if u.Now != nil {
		return u.Now().Year()
	}
	return time.Now().Year()
}

// Apply returns content with the header for p added or replaced.
// The outcome is Added, Replaced or Unchanged; in the last case the
// returned content equals the input.
func (u *Updater) Apply(content []byte, p *lang.Profile) ([]byte, Outcome, error) {
	lines := splitLines(string(content))
	span := Locate(lines, p)

	var prev *Copyright
	if !span.Empty() && (u.Config.PreserveYears || u.Config.PreserveHolder) {
		if c, ok := ParseCopyright(Text(lines, span, p)); ok {
			prev = &c
		}
	}

	text, err := Compose(u.Config, u.year(), prev)
	if err != nil {
		return nil, Failed, err
	}
	hdr, err := Render(u.Config, p, text)
	if err != nil {
		return nil, Failed, err
	}

	eol := lineEnding(lines)
	var buf bytes.Buffer
	buf.Grow(len(content) + 64*len(hdr))
	for _, l := range lines[:span.Start] {
		buf.WriteString(l)
	}
	if span.Start > 0 && !strings.HasSuffix(lines[span.Start-1], "\n") {
		buf.WriteString(eol)
	}
	for _, l := range hdr {
		buf.WriteString(l)
		buf.WriteString(eol)
	}
	if span.Empty() || span.Blank {
		buf.WriteString(eol)
	}
	for _, l := range lines[span.End:] {
		buf.WriteString(l)
	}

	out := buf.Bytes()
	switch {
	case span.Empty():
		return out, Added, nil
	case bytes.Equal(out, content):
		return content, Unchanged, nil
	default:
		return out, Replaced, nil
	}
}

// Update processes the file at path. Files are replaced atomically: on
// failure the original file is left untouched. Unchanged files are not
// written at all.
func (u *Updater) Update(ctx context.Context, path string) Result {
	return u.update(ctx, path, nil)
}

func (u *Updater) update(ctx context.Context, path string, claim func(target string) error) Result {
	res := Result{Path: path}
	fail := func(o Outcome, err error) Result {
		res.Outcome, res.Err = o, err
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(Skipped, err)
	}

	// Write through symlinks instead of replacing them.
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fail(Failed, err)
	}
	if claim != nil {
		if err := claim(target); err != nil {
			return fail(Skipped, err)
		}
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return fail(Failed, err)
	}
	p, err := u.Registry.Resolve(path, content)
	if err != nil {
		if errors.Is(err, lang.ErrUnknownLanguage) {
			return fail(Skipped, err)
		}
		return fail(Failed, err)
	}

	out, outcome, err := u.Apply(content, p)
	if err != nil {
		return fail(Failed, fmt.Errorf("%s: %w", path, err))
	}
	res.Outcome = outcome
	logger.Debug(ctx, "processed file",
		slog.String("path", path),
		slog.String("language", p.Name),
		slog.String("outcome", outcome.String()),
	)
	if outcome == Unchanged {
		return res
	}

	if u.DryRun {
		res.Diff = Diff(content, out)
		return res
	}
	if err := atomic.WriteFile(target, bytes.NewReader(out)); err != nil {
		return fail(Failed, err)
	}
	return res
}

// UpdateAll processes paths concurrently and returns one result per path,
// in the order of paths. A file reached through several paths (for example
// through a symlink) is processed once; the other paths are skipped with
// [ErrDuplicatePath].
//
// When ctx is canceled, files not yet started are skipped. Files already
// written keep their new content.
func (u *Updater) UpdateAll(ctx context.Context, paths []string) []Result {
	workers := u.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		results = make([]Result, len(paths))
		claimed hashtriemap.HashTrieMap[string, string]
		lwg     = syncx.NewLimitedWaitGroup(workers)
	)
	for i, path := range paths {
		claim := func(target string) error {
			if owner, loaded := claimed.LoadOrStore(target, path); loaded {
				return fmt.Errorf("%w: %s is the same file as %s", ErrDuplicatePath, path, owner)
			}
			return nil
		}
		lwg.Go(func() {
			results[i] = u.update(ctx, path, claim)
		})
	}
	lwg.Wait()
	return results
}

// splitLines splits s after each "\n", keeping the terminators.
func splitLines(s string) []string {
	var lines []string
	for l := range strings.Lines(s) {
		lines = append(lines, l)
	}
	return lines
}

// lineEnding returns the terminator of the first terminated line, or "\n".
func lineEnding(lines []string) string {
	for _, l := range lines {
		if strings.HasSuffix(l, "\r\n") {
			return "\r\n"
		}
		if strings.HasSuffix(l, "\n") {
			return "\n"
		}
	}
	return "\n"
}
