// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package lang

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Resolve returns the profile for the file at path. head holds the first
// bytes of the file and is only consulted when neither the file name nor its
// extension is registered: a first line starting with "#!" selects the
// language of the named interpreter, or [Script] if no language claims it.
//
// Errors wrap [ErrUnknownLanguage].
func (r *Registry) Resolve(name string, head []byte) (*Profile, error) {
	base := filepath.Base(name)
	if p, ok := r.byFilename[base]; ok {
		return p, nil
	}
	if ext := strings.ToLower(filepath.Ext(base)); ext != "" {
		if p, ok := r.byExt[ext]; ok {
			return p, nil
		}
	}
	if interp, ok := Interpreter(head); ok {
		if p, ok := r.byInterp[normalizeInterpreter(interp)]; ok {
			return p, nil
		}
		if p, ok := r.profiles[Script]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
}

// Interpreter returns the program named on the shebang line at the start of
// head. For "#!/usr/bin/env" lines the first argument that isn't a flag or a
// variable assignment is returned.
func Interpreter(head []byte) (string, bool) {
	line, ok := bytes.CutPrefix(head, []byte("#!"))
	if !ok {
		return "", false
	}
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(string(line))
	if len(fields) == 0 {
		return "", true
	}
	prog := path.Base(fields[0])
	if prog != "env" {
		return prog, true
	}
	for _, arg := range fields[1:] {
		if strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
			continue
		}
		return path.Base(arg), true
	}
	return "", true
}

// normalizeInterpreter strips version suffixes, so that "python3.12" and
// "python" name the same interpreter.
func normalizeInterpreter(s string) string {
	return strings.TrimRight(strings.ToLower(s), "0123456789.")
}
