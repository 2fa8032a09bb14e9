// Package checks holds the consistency rules that span files of one kind.
package checks

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GhostScientist/dev-toolbox/internal/catalog"
)

type Rule string

const (
	RuleDuplicateID      Rule = "duplicate_id"
	RuleFilenameMismatch Rule = "filename_mismatch"
)

// Record is the identity of one successfully parsed file.
type Record struct {
	Path string
	ID   string
}

type Violation struct {
	File     string
	ID       string
	Rule     Rule
	Expected string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.File, v.Rule, v.Message)
}

// Check reports ids used by more than one file and files whose stem differs
// from the id they declare. The first file to claim an id keeps it; every
// later claimant gets a duplicate_id violation and is not checked further.
func Check(kind catalog.Kind, records []Record) []Violation {
	var out []Violation
	owners := map[string]string{}
	for _, rec := range records {
		if owner, ok := owners[rec.ID]; ok {
			out = append(out, Violation{
				File:    rec.Path,
				ID:      rec.ID,
				Rule:    RuleDuplicateID,
				Message: fmt.Sprintf("id %q already used by %s", rec.ID, filepath.Base(owner)),
			})
			continue
		}
		owners[rec.ID] = rec.Path

		stem := Stem(rec.Path)
		if stem != rec.ID {
			expected := rec.ID + "." + kind.Ext()
			out = append(out, Violation{
				File:     rec.Path,
				ID:       rec.ID,
				Rule:     RuleFilenameMismatch,
				Expected: expected,
				Message:  fmt.Sprintf("filename %q does not match id %q (expected %s)", stem, rec.ID, expected),
			})
		}
	}
	return out
}

func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
