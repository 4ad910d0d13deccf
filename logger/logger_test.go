// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"go.astrophena.name/sourceheaders/testutil"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	l.Attach(Console(&buf, l.Level, false))
	ctx := Put(context.Background(), l)

	Debug(ctx, "hidden")
	Warn(ctx, "skipped file", slog.String("path", "a.xyz"), slog.Any("err", errors.New("unknown language")))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record logged at info level: %q", out)
	}
	for _, want := range []string{"skipped file", "path=a.xyz", "unknown language"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q doesn't contain %q", out, want)
		}
	}

	buf.Reset()
	LevelVar(ctx).Set(slog.LevelDebug)
	Debug(ctx, "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug record not logged after lowering level: %q", buf.String())
	}
}

func TestDetach(t *testing.T) {
	var a, b bytes.Buffer
	l := New(nil)
	ha, hb := Console(&a, l.Level, false), Console(&b, l.Level, false)
	l.Attach(ha)
	l.Attach(hb)
	l.Detach(ha)

	ctx := Put(context.Background(), l)
	Warn(ctx, "hello")

	testutil.AssertEqual(t, a.Len(), 0)
	if !strings.Contains(b.String(), "hello") {
		t.Errorf("attached handler got %q", b.String())
	}
}

func TestDefaultDiscards(t *testing.T) {
	ctx := context.Background()
	if Get(ctx) != discard {
		t.Fatal("Get without logger must return the default logger")
	}
	if Get(ctx).Enabled(ctx, slog.LevelError) {
		t.Fatal("default logger has handlers")
	}
	Error(ctx, "goes nowhere")
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := New(nil)
	l.Attach(Console(&buf, l.Level, false))
	child := l.With(slog.String("path", "main.go"))

	// Handlers attached later don't reach loggers derived earlier.
	var late bytes.Buffer
	l.Attach(Console(&late, l.Level, false))

	child.Info("processed file")
	if !strings.Contains(buf.String(), "path=main.go") {
		t.Errorf("attribute missing: %q", buf.String())
	}
	testutil.AssertEqual(t, late.Len(), 0)
}
