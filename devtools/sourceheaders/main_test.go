// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"go.astrophena.name/sourceheaders/cli"
	"go.astrophena.name/sourceheaders/cli/clitest"
	"go.astrophena.name/sourceheaders/header"
	"go.astrophena.name/sourceheaders/testutil"
	"go.astrophena.name/sourceheaders/txtar"
)

const testConfig = `[general]
license_text = "Short."
copyright_holder = "A"
include_spdx_license_identifier = "never"
`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testutil.WriteFile(t, dir, "config.toml", testConfig)
	hdr := fmt.Sprintf("# Copyright (c) %d A\n#\n# Short.\n\n", time.Now().Year())

	var (
		added     = testutil.WriteFile(t, dir, "added.py", "x = 1\n")
		replaced  = testutil.WriteFile(t, dir, "replaced.sh", "# old\n\necho hi\n")
		unchanged = testutil.WriteFile(t, dir, "unchanged.py", hdr+"x = 1\n")
		unknown   = testutil.WriteFile(t, dir, "notes.xyz", "hello\n")
		dry       = testutil.WriteFile(t, dir, "dry.py", "x = 1\n")
		verbose   = testutil.WriteFile(t, dir, "verbose.py", hdr+"x = 1\n")
	)

	clitest.Run(t, func(t *testing.T) *app { return new(app) }, map[string]clitest.Case[*app]{
		"no files": {
			Args:    []string{"-config", cfg},
			WantErr: cli.ErrInvalidArgs,
		},
		"missing config": {
			Args:    []string{"-config", filepath.Join(dir, "nope.toml"), added},
			WantErr: header.ErrInvalidConfig,
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, testutil.ReadFile(t, added), "x = 1\n")
			},
		},
		"added": {
			Args:         []string{"-config", cfg, added},
			WantErr:      cli.ErrExitFailure,
			WantInStdout: "Added header to " + added,
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, testutil.ReadFile(t, added), hdr+"x = 1\n")
			},
		},
		"replaced": {
			Args:         []string{"-config", cfg, replaced},
			WantErr:      cli.ErrExitFailure,
			WantInStdout: "Replaced header in " + replaced,
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, testutil.ReadFile(t, replaced), hdr+"echo hi\n")
			},
		},
		"unchanged": {
			Args:               []string{"-config", cfg, unchanged},
			WantNothingPrinted: true,
		},
		"unknown language": {
			Args:         []string{"-config", cfg, unknown},
			WantInStderr: "skipped file",
			CheckFunc: func(t *testing.T, _ *app) {
				testutil.AssertEqual(t, testutil.ReadFile(t, unknown), "hello\n")
			},
		},
		"missing file": {
			Args:         []string{"-config", cfg, filepath.Join(dir, "gone.py")},
			WantErr:      cli.ErrExitFailure,
			WantInStderr: "failed to update file",
		},
		"dry run": {
			Args:         []string{"-config", cfg, "-dry", dry},
			WantErr:      cli.ErrExitFailure,
			WantInStdout: "+# Short.\n",
			CheckFunc: func(t *testing.T, a *app) {
				testutil.AssertEqual(t, a.dry, true)
				testutil.AssertEqual(t, testutil.ReadFile(t, dry), "x = 1\n")
			},
		},
		"verbose": {
			Args:         []string{"-config", cfg, "-v", "-j", "2", verbose},
			WantInStderr: "processed file",
			CheckFunc: func(t *testing.T, a *app) {
				testutil.AssertEqual(t, a.jobs, 2)
			},
		},
	})
}

func TestMessage(t *testing.T) {
	cases := map[string]struct {
		dry     bool
		outcome header.Outcome
		want    string
	}{
		"added":        {outcome: header.Added, want: "Added header to x.go"},
		"replaced":     {outcome: header.Replaced, want: "Replaced header in x.go"},
		"dry added":    {dry: true, outcome: header.Added, want: "Would add header to x.go"},
		"dry replaced": {dry: true, outcome: header.Replaced, want: "Would replace header in x.go"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			a := &app{dry: tc.dry}
			testutil.AssertEqual(t, a.message(header.Result{Path: "x.go", Outcome: tc.outcome}), tc.want)
		})
	}
}

func TestRunTree(t *testing.T) {
	in, err := txtar.ParseFile(filepath.Join("testdata", "tree.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := txtar.ParseFile(filepath.Join("testdata", "tree.want.txtar"))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	testutil.ExtractTxtar(t, in, dir)

	args := []string{"-config", filepath.Join(dir, "config.toml")}
	for _, f := range in.Files {
		if f.Name != "config.toml" {
			args = append(args, filepath.Join(dir, filepath.FromSlash(f.Name)))
		}
	}
	env := &cli.Env{
		Args:   args,
		Getenv: func(string) string { return "" },
		Stdout: io.Discard,
		Stderr: io.Discard,
	}
	if err := cli.Run(cli.WithEnv(context.Background(), env), new(app)); !errors.Is(err, cli.ErrExitFailure) {
		t.Fatalf("want ErrExitFailure, got %v", err)
	}

	got, err := txtar.FromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(txtar.Format(got)), string(txtar.Format(&txtar.Archive{Files: want.Files})))

	// A second run finds nothing to do.
	env.Args = args
	if err := cli.Run(cli.WithEnv(context.Background(), env), new(app)); err != nil {
		t.Fatalf("second run: %v", err)
	}
}
