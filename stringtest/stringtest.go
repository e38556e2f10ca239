// Package stringtest builds multi-line strings for test fixtures and
// expectations.
package stringtest

import (
	"strings"
)

// Input dedents a raw string literal so fixtures can be indented along with
// the surrounding code. One leading and one trailing newline are removed,
// then the longest indentation shared by all non-blank lines is stripped.
// Blank lines become empty.
//
// Example:
//
//	src := stringtest.Input(`
//	    type: object
//	    properties:
//	      name:
//	        type: string
//	`) // -> "type: object\nproperties:\n  name:\n    type: string"
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		lines[i] = line[indent:]
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins lines with LF line endings.
// Use this to construct expected output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"--- a/crd.yaml",
//		"+++ b/crd.yaml",
//		"",
//	) // -> "--- a/crd.yaml\n+++ b/crd.yaml\n"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}
