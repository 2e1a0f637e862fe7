package pipeline

import (
	"strings"

	"golang.org/x/xerrors"

	"scopemeasure/internal/command"
)

// ErrEmptyStep is returned when a step has no operations to run.
var ErrEmptyStep = xerrors.New("pipeline: step has no operations")

// Step is a named unit of work, measured as one stopover.
type Step struct {
	Name string
	// Operations are run in order; each is an argv vector.
	Operations [][]string
}

// ParseStep builds a step from an operation sequence such as "go build ./... ; go vet ./...". An
// empty name defaults to the sequence itself.
func ParseStep(name string, run string) (Step, error) {
	operations, err := command.TokenizeOperationSequence(run)
	if err != nil {
		return Step{}, xerrors.Errorf("pipeline: error parsing step: name=%s: %w", name, err)
	}

	if len(operations) == 0 {
		return Step{}, xerrors.Errorf("pipeline: error parsing step: name=%s: %w", name, ErrEmptyStep)
	}

	if name == "" {
		name = strings.TrimSpace(run)
	}

	return Step{Name: name, Operations: operations}, nil
}

// StepsFromSequence builds one step per operation of an operation sequence, each named after its
// own command line.
func StepsFromSequence(seq string) ([]Step, error) {
	operations, err := command.TokenizeOperationSequence(seq)
	if err != nil {
		return nil, xerrors.Errorf("pipeline: error parsing steps: %w", err)
	}

	steps := make([]Step, 0, len(operations))
	for _, operation := range operations {
		steps = append(steps, Step{
			Name:       strings.Join(operation, " "),
			Operations: [][]string{operation},
		})
	}

	return steps, nil
}
