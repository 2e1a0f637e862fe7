//go:generate go run golang.org/x/tools/cmd/stringer -type=FailurePolicy

package pipeline

import (
	"strings"
)

// FailurePolicy formalizes what a Runner does once a step fails.
type FailurePolicy int

const (
	// Abort stops the pipeline at the first failed step.
	Abort FailurePolicy = iota
	// Continue runs every remaining step and reports all failures at the end.
	Continue
)

// ParseFailurePolicy parses a FailurePolicy constant from its stringified representation in a
// case-insensitive manner. Unknown policies resolve to Abort.
func ParseFailurePolicy(policy string) (FailurePolicy, bool) {
	for _, knownPolicy := range []FailurePolicy{Abort, Continue} {
		if strings.EqualFold(policy, knownPolicy.String()) {
			return knownPolicy, true
		}
	}

	return Abort, false
}
