// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package license provides the standard header notices of common licenses,
// keyed by SPDX identifier.
package license

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed licenses/*.txt
var licenses embed.FS

// ErrUnknownLicense is returned by [Text] for an identifier without a
// bundled notice.
var ErrUnknownLicense = errors.New("unknown license")

// Text returns the header notice of the license id, without surrounding
// whitespace.
func Text(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLicense, id)
	}
	b, err := licenses.ReadFile(path.Join("licenses", id+".txt"))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q, configure license_text instead", ErrUnknownLicense, id)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// IDs returns the identifiers of all bundled licenses in sorted order.
func IDs() []string {
	entries, err := licenses.ReadDir("licenses")
	if err != nil {
		panic(err)
	}
	var ids []string
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".txt"))
	}
	slices.Sort(ids)
	return ids
}
