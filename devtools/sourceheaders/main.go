// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.astrophena.name/sourceheaders/cli"
	"go.astrophena.name/sourceheaders/config"
	"go.astrophena.name/sourceheaders/header"
	"go.astrophena.name/sourceheaders/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	configPath string
	dry        bool
	jobs       int
	verbose    bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.StringVar(&a.configPath, "config", config.DefaultFile, "Read configuration from `file`.")
	fs.BoolVar(&a.dry, "dry", false, "Print the changes as a diff, without writing files.")
	fs.IntVar(&a.jobs, "j", 0, "Process up to `n` files at once. Defaults to the number of CPUs.")
	fs.BoolVar(&a.verbose, "v", false, "Log every processed file.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	l := logger.New(nil)
	l.Attach(logger.Console(env.Stderr, l.Level, isTerminal(env.Stderr)))
	ctx = logger.Put(ctx, l)
	if a.verbose {
		logger.LevelVar(ctx).Set(slog.LevelDebug)
	}

	if len(env.Args) == 0 {
		return fmt.Errorf("%w: no files given", cli.ErrInvalidArgs)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "loaded configuration", slog.String("path", a.configPath))

	u := &header.Updater{
		Config:   cfg.Header,
		Registry: cfg.Registry,
		DryRun:   a.dry,
		Workers:  a.jobs,
	}

	var failed bool
	for _, res := range u.UpdateAll(ctx, env.Args) {
		if a.report(ctx, env.Stdout, res) {
			failed = true
		}
	}
	if failed {
		return cli.ErrExitFailure
	}
	return nil
}

// report prints the result of one file and reports whether it counts
// towards a non-zero exit status.
func (a *app) report(ctx context.Context, w io.Writer, res header.Result) bool {
	switch res.Outcome {
	case header.Added, header.Replaced:
		fmt.Fprintln(w, a.message(res))
		if a.dry {
			fmt.Fprint(w, res.Diff)
		}
		return true
	case header.Skipped:
		logger.Warn(ctx, "skipped file", slog.String("path", res.Path), slog.Any("err", res.Err))
	case header.Failed:
		logger.Error(ctx, "failed to update file", slog.String("path", res.Path), slog.Any("err", res.Err))
		return true
	}
	return false
}

func (a *app) message(res header.Result) string {
	switch {
	case res.Outcome == header.Added && a.dry:
		return "Would add header to " + res.Path
	case res.Outcome == header.Added:
		return "Added header to " + res.Path
	case a.dry:
		return "Would replace header in " + res.Path
	default:
		return "Replaced header in " + res.Path
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && cli.IsTerminal(int(f.Fd()))
}
