// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package clitest_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"go.astrophena.name/sourceheaders/cli"
	"go.astrophena.name/sourceheaders/cli/clitest"
)

var errNotFound = errors.New("not found")

type pathError struct{ path string }

func (e *pathError) Error() string { return "bad path " + e.path }

// shellApp runs the command named by its first argument.
type shellApp struct{ ran []string }

func (a *shellApp) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) == 0 {
		return nil
	}
	a.ran = append(a.ran, env.Args[0])
	switch env.Args[0] {
	case "echo":
		fmt.Fprint(env.Stdout, strings.Join(env.Args[1:], " "))
	case "warn":
		fmt.Fprint(env.Stderr, "warning: "+strings.Join(env.Args[1:], " "))
	case "cat":
		_, err := io.Copy(env.Stdout, env.Stdin)
		return err
	case "printenv":
		fmt.Fprint(env.Stdout, env.Getenv(env.Args[1]))
	case "find":
		return fmt.Errorf("find %s: %w", env.Args[1], errNotFound)
	case "stat":
		return &pathError{path: env.Args[1]}
	}
	return nil
}

func TestRun(t *testing.T) {
	clitest.Run(t, func(t *testing.T) *shellApp { return new(shellApp) }, map[string]clitest.Case[*shellApp]{
		"nothing printed": {
			WantNothingPrinted: true,
		},
		"stdout": {
			Args:         []string{"echo", "hello", "world"},
			WantInStdout: "hello world",
		},
		"stderr": {
			Args:         []string{"warn", "disk", "full"},
			WantInStderr: "warning: disk full",
		},
		"stdin": {
			Args:         []string{"cat"},
			Stdin:        strings.NewReader("piped"),
			WantInStdout: "piped",
		},
		"env": {
			Args:         []string{"printenv", "HOME"},
			Env:          map[string]string{"HOME": "/home/jane"},
			WantInStdout: "/home/jane",
		},
		"errors.Is": {
			Args:    []string{"find", "x"},
			WantErr: errNotFound,
		},
		"errors.As": {
			Args:        []string{"stat", "x"},
			WantErrType: &pathError{},
		},
		"check func": {
			Args: []string{"echo"},
			CheckFunc: func(t *testing.T, a *shellApp) {
				if len(a.ran) != 1 || a.ran[0] != "echo" {
					t.Errorf("ran = %v, want [echo]", a.ran)
				}
			},
		},
	})
}
