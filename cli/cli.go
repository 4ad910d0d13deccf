// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package cli runs single-command command-line applications.
//
// An application implements [App], optionally [HasFlags], and is started
// from main with [Main]. Its environment (arguments, standard streams and
// variables) is carried in the context, so tests can run it with [Run] and
// a fake [Env].
package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"

	"golang.org/x/term"

	"go.astrophena.name/sourceheaders/syncx"
	"go.astrophena.name/sourceheaders/version"
)

// Main runs app and exits. Errors are printed to stderr unless they are
// marked as already reported; any error other than a request for help or
// version information exits with status 1. Interrupts cancel the context
// passed to the app.
func Main(app App) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := Run(ctx, app)
	cancel()

	switch {
	case err == nil, errors.Is(err, flag.ErrHelp), errors.Is(err, ErrExitVersion):
		return
	case isPrintable(err):
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}

// silentError is an error the user has already been told about.
type silentError struct{ err error }

func (e *silentError) Error() string { return e.err.Error() }
func (e *silentError) Unwrap() error { return e.err }

func isPrintable(err error) bool {
	var se *silentError
	return !errors.As(err, &se)
}

var (
	// ErrExitVersion is returned by Run after printing the version for
	// -version. Main exits successfully.
	ErrExitVersion = &silentError{errors.New("version printed")}

	// ErrExitFailure makes Main exit with status 1 without printing
	// anything. Apps return it after reporting what went wrong themselves.
	ErrExitFailure = &silentError{errors.New("exit with failure status")}

	// ErrInvalidArgs is wrapped by errors about wrong command-line
	// arguments.
	ErrInvalidArgs = errors.New("invalid arguments")
)

// App is a command-line application.
type App interface {
	Run(context.Context) error
}

// HasFlags is an App with command-line flags.
type HasFlags interface {
	App
	Flags(*flag.FlagSet)
}

// AppFunc turns a function into an App.
type AppFunc func(context.Context) error

// Run calls f.
func (f AppFunc) Run(ctx context.Context) error { return f(ctx) }

// Env is the environment an App runs in.
type Env struct {
	// Args are the arguments left after flag parsing.
	Args   []string
	Getenv func(string) string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSEnv returns the environment of the current process.
func OSEnv() *Env {
	return &Env{
		Args:   os.Args[1:],
		Getenv: os.Getenv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type envKey struct{}

// WithEnv returns a copy of ctx carrying e.
func WithEnv(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey{}, e)
}

// GetEnv returns the environment carried by ctx, or [OSEnv] if there is
// none.
func GetEnv(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey{}).(*Env); ok {
		return e
	}
	return OSEnv()
}

// Run parses the flags of app from the environment in ctx and runs it.
//
// Besides the app's own flags, Run defines -version (unless the app has
// one) and -cpuprofile and -memprofile for profiling.
func Run(ctx context.Context, app App) error {
	env := GetEnv(ctx)

	flags := flag.NewFlagSet(version.CmdName(), flag.ContinueOnError)
	if fa, ok := app.(HasFlags); ok {
		fa.Flags(flags)
	}
	var prof profiler
	prof.flags(flags)
	var showVersion bool
	if flags.Lookup("version") == nil {
		flags.BoolVar(&showVersion, "version", false, "Show version.")
	}

	flags.SetOutput(env.Stderr)
	flags.Usage = func() { usage(flags, env) }
	if err := flags.Parse(env.Args); err != nil {
		// The flag package has printed the problem already.
		return &silentError{err}
	}
	if showVersion {
		fmt.Fprint(env.Stderr, version.Version())
		return ErrExitVersion
	}

	if err := prof.start(); err != nil {
		return err
	}
	env.Args = flags.Args()
	if err := app.Run(WithEnv(ctx, env)); err != nil {
		prof.stopCPU()
		return err
	}
	return prof.stop()
}

type profiler struct {
	cpu, mem string
	cpuFile  *os.File
}

func (p *profiler) flags(fs *flag.FlagSet) {
	fs.StringVar(&p.cpu, "cpuprofile", "", "Write CPU profile to `file`.")
	fs.StringVar(&p.mem, "memprofile", "", "Write memory profile to `file`.")
}

func (p *profiler) start() error {
	if p.cpu == "" {
		return nil
	}
	f, err := os.Create(p.cpu)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = f
	return nil
}

func (p *profiler) stopCPU() {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		p.cpuFile.Close()
		p.cpuFile = nil
	}
}

func (p *profiler) stop() error {
	p.stopCPU()
	if p.mem == "" {
		return nil
	}
	f, err := os.Create(p.mem)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer f.Close()
	runtime.GC() // up-to-date statistics
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return nil
}

// IsTerminal reports whether fd refers to a terminal. Tests may replace it.
var IsTerminal = term.IsTerminal

func usage(flags *flag.FlagSet, env *Env) {
	var buf bytes.Buffer
	if docSrc != nil {
		fmt.Fprintln(&buf, doc.Get(parseDocComment))
	}
	buf.WriteString("Available flags:\n\n")
	flags.SetOutput(&buf)
	flags.PrintDefaults()
	flags.SetOutput(env.Stderr)
	buf.WriteString("\nHelp is shown with $PAGER when writing to a terminal.\n")
	buf.WriteString("To disable the pager, set the NO_PAGER environment variable.\n")

	if !page(env, buf.Bytes()) {
		env.Stderr.Write(buf.Bytes())
	}
}

// page pipes text through $PAGER if stderr is a terminal. It reports
// whether the pager ran.
func page(env *Env, text []byte) bool {
	if env.Getenv == nil || env.Getenv("NO_PAGER") != "" {
		return false
	}
	pager := strings.Fields(env.Getenv("PAGER"))
	if len(pager) == 0 {
		return false
	}
	f, ok := env.Stderr.(*os.File)
	if !ok || !IsTerminal(int(f.Fd())) {
		return false
	}
	cmd := exec.Command(pager[0], pager[1:]...)
	cmd.Stdin = bytes.NewReader(text)
	cmd.Stdout = f
	cmd.Stderr = f
	return cmd.Run() == nil
}

var (
	docSrc []byte
	doc    syncx.Lazy[string]
)

// SetDocComment sets the text printed above the flags by -help to the
// first /* */ comment of src, usually the embedded doc.go of the command:
//
//	//go:embed doc.go
//	var doc []byte
//
//	func init() { cli.SetDocComment(doc) }
func SetDocComment(src []byte) {
	docSrc = src
	doc = syncx.Lazy[string]{}
}

func parseDocComment() string {
	_, after, ok := strings.Cut(string(docSrc), "/*\n")
	if !ok {
		return ""
	}
	body, _, _ := strings.Cut(after, "\n*/")
	return body + "\n"
}
