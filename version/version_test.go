// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package version

import (
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	cases := map[string]struct {
		info Info
		want string
	}{
		"devel": {
			info: Info{Name: "sourceheaders", Module: "(devel)", GoVersion: "go1.26.0"},
			want: "sourceheaders (devel)\nbuilt with go1.26.0\n",
		},
		"dirty commit": {
			info: Info{Name: "sourceheaders", Module: "v0.1.0", Commit: "abc123", Modified: true, GoVersion: "go1.26.0"},
			want: "sourceheaders v0.1.0 (abc123, dirty)\nbuilt with go1.26.0\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.info.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	v := Version()
	if !strings.Contains(v.GoVersion, "go") {
		t.Errorf("GoVersion = %q", v.GoVersion)
	}
	if v.Name == "" {
		t.Error("empty command name")
	}
}
