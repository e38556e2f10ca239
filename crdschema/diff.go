package crdschema

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff writes a line diff of before and after to w, with "--- a/name" and
// "+++ b/name" headers. Nothing is written when the inputs are equal. When
// colored is set, removed lines are red and added lines are green.
func Diff(w io.Writer, name string, before, after []byte, colored bool) error {
	if bytes.Equal(before, after) {
		return nil
	}

	header := color.New(color.Bold)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for _, c := range []*color.Color{header, removed, added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf bytes.Buffer

	header.Fprintln(&buf, "--- a/"+name)
	header.Fprintln(&buf, "+++ b/"+name)

	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintln(&buf, "-"+line)
			case diffmatchpatch.DiffInsert:
				added.Fprintln(&buf, "+"+line)
			case diffmatchpatch.DiffEqual:
				fmt.Fprintln(&buf, " "+line)
			}
		}
	}

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// splitLines splits s into lines, without a trailing empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
