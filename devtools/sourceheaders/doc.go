// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Sourceheaders adds or replaces the license header of source files.

Usage:

	$ sourceheaders [flags...] file...

For every file, the comment style is taken from its name, its extension or,
for scripts without an extension, the interpreter on its shebang line. The
first comment of the file, below a shebang and marker lines such as
"<?php", a Python coding declaration or Go build constraints, is treated
as the header and replaced with a freshly rendered one. A block comment
with code after its closing marker is not a header. Files without a
leading comment get a new header inserted on top. Everything below the
header is left as is.

An inserted header is followed by a blank line. A replaced header keeps
the spacing of the old one: if no blank line separated the old header from
the code, none is added, so a one-line docstring directly followed by an
import becomes a header directly followed by that import.

Headers are configured in a .sourceheaders.toml file in the current
directory:

	[general]
	license = "MIT"
	copyright_holder = "Jane Doe"
	width = 80
	prefer_inline = false

	[language.python]
	width = 100

The license is an SPDX identifier of a bundled license notice, or the
notice is given in full as license_text. Language tables override
built-in languages or define new ones with extensions, inline_comment and
block_comment.

A line is printed for every file that gets a header added or replaced.
Files in unknown languages are skipped with a warning. The exit status is
1 if any file was modified or could not be processed, so the command can
run as a pre-commit check. With -dry, nothing is written and the changes
are printed as a diff.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/sourceheaders/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
