package components

import (
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Class merges tailwind classes; later classes win over conflicting earlier ones.
func Class(classes ...string) string {
	return twmerge.Merge(strings.Join(classes, " "))
}
