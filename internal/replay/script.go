// Package replay drives the scan core from a script of scanned tokens and
// operator actions, one per line. It backs the replay command and the
// end-to-end tests.
//
// A script line is either a raw scan token or a directive:
//
//	8412345678900          scan a barcode
//	O-CMD.EDIT             scan a command keyword
//	@qty 12                type 1 then confirm "12" in the quantity dialog
//	@pending origin PO-7   leave an uncommitted edit in a field
//	@view kanban           switch the lines sub-view (list or kanban)
//	@mode edit             switch the editor mode (edit or view) by hand
//	# comment
package replay

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/records"
)

// StepKind is what a script line asks for.
type StepKind int

const (
	StepScan StepKind = iota
	StepQuantity
	StepPending
	StepView
	StepMode
)

// String returns the directive name of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepScan:
		return "scan"
	case StepQuantity:
		return "qty"
	case StepPending:
		return "pending"
	case StepView:
		return "view"
	case StepMode:
		return "mode"
	default:
		return "unknown"
	}
}

// Step is one parsed script line.
type Step struct {
	Kind StepKind
	Line int
	// Arg is the token, quantity input, field name, view kind or mode.
	Arg string
	// Value is the pending edit for StepPending.
	Value string
}

// Read parses a whole script, failing on the first invalid line.
func Read(r io.Reader) ([]Step, error) {
	var steps []Step
	err := Scan(r, func(step Step, err error) error {
		if err != nil {
			return err
		}
		steps = append(steps, step)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return steps, nil
}

// Scan parses r line by line and calls fn for each step as soon as its line
// is read. An invalid line is passed to fn as an error instead; Scan stops
// at the first error fn returns.
func Scan(r io.Reader, fn func(Step, error) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseLine(line)
		if err != nil {
			err = fmt.Errorf("line %d: %w", n, err)
		}
		step.Line = n
		if err := fn(step, err); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

func parseLine(line string) (Step, error) {
	if !strings.HasPrefix(line, "@") {
		return Step{Kind: StepScan, Arg: line}, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty directive")
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "qty":
		if len(args) != 1 {
			return Step{}, fmt.Errorf("@qty takes one quantity")
		}
		return Step{Kind: StepQuantity, Arg: args[0]}, nil
	case "pending":
		if len(args) < 2 {
			return Step{}, fmt.Errorf("@pending takes a field and a value")
		}
		return Step{Kind: StepPending, Arg: args[0], Value: strings.Join(args[1:], " ")}, nil
	case "view":
		if len(args) != 1 {
			return Step{}, fmt.Errorf("@view takes list or kanban")
		}
		kind := records.Kind(args[0])
		if kind != records.KindList && kind != records.KindKanban {
			return Step{}, fmt.Errorf("unknown view %q", args[0])
		}
		return Step{Kind: StepView, Arg: args[0]}, nil
	case "mode":
		if len(args) != 1 {
			return Step{}, fmt.Errorf("@mode takes edit or view")
		}
		mode := host.Mode(args[0])
		if mode != host.ModeEdit && mode != host.ModeView {
			return Step{}, fmt.Errorf("unknown mode %q", args[0])
		}
		return Step{Kind: StepMode, Arg: args[0]}, nil
	default:
		return Step{}, fmt.Errorf("unknown directive @%s", name)
	}
}
