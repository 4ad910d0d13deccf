// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package license

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestText(t *testing.T) {
	for _, id := range IDs() {
		t.Run(id, func(t *testing.T) {
			text, err := Text(id)
			if err != nil {
				t.Fatal(err)
			}
			if text == "" {
				t.Fatal("empty notice")
			}
			if text != strings.TrimSpace(text) {
				t.Errorf("notice %q is not trimmed", text)
			}
		})
	}
}

func TestTextUnknown(t *testing.T) {
	for _, id := range []string{"", "WTFPL", "../license", "licenses/MIT"} {
		if _, err := Text(id); !errors.Is(err, ErrUnknownLicense) {
			t.Errorf("Text(%q): want ErrUnknownLicense, got %v", id, err)
		}
	}
}

func TestIDs(t *testing.T) {
	ids := IDs()
	for _, want := range []string{"Apache-2.0", "GPL-3.0-only", "MIT", "MPL-2.0"} {
		if !slices.Contains(ids, want) {
			t.Errorf("IDs() = %v, missing %q", ids, want)
		}
	}
	if !slices.IsSorted(ids) {
		t.Errorf("IDs() = %v, not sorted", ids)
	}
}
