// Package filter defines the contract shared by Mork output filters.
//
// A filter renders a whole core.Database to some destination. Each filter
// declares the arguments it understands as a Usage list; the CLI checks user
// arguments against it with ConvertArgs before the filter runs and renders
// the same list as help text.
package filter

import (
	"context"
	"fmt"
	"sort"

	"github.com/leapstack-labs/morkxml/pkg/core"
)

// Filter writes a database somewhere.
type Filter interface {
	// Name is the registry name of the filter.
	Name() string

	// Description is a one-line summary shown in help output.
	Description() string

	// Usage lists the arguments the filter accepts.
	Usage() []Argument

	// Output renders db. args holds raw argument text keyed by name.
	Output(ctx context.Context, db *core.Database, args map[string]string) error
}

// Argument describes one filter argument.
type Argument struct {
	Name        string
	Description string

	// Convert turns the argument text into its typed value.
	// Nil keeps the text as a string.
	Convert func(string) (any, error)
}

// ConvertArgs checks args against usage and converts each value.
// Unknown names are rejected. Missing arguments are not an error; filters
// apply their own defaults.
func ConvertArgs(usage []Argument, args map[string]string) (map[string]any, error) {
	known := make(map[string]Argument, len(usage))
	for _, a := range usage {
		known[a.Name] = a
	}

	// Sorted so the reported unknown argument is deterministic.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]any, len(args))
	for _, name := range names {
		arg, ok := known[name]
		if !ok {
			return nil, &UnknownArgumentError{Name: name, Known: argumentNames(usage)}
		}
		text := args[name]
		if arg.Convert == nil {
			out[name] = text
			continue
		}
		v, err := arg.Convert(text)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for argument %s: %w", text, name, err)
		}
		out[name] = v
	}
	return out, nil
}

func argumentNames(usage []Argument) []string {
	names := make([]string, len(usage))
	for i, a := range usage {
		names[i] = a.Name
	}
	return names
}

// UnknownArgumentError is returned when an argument is not in a filter's usage.
type UnknownArgumentError struct {
	Name  string
	Known []string
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unknown argument %q\nAccepted arguments: %v\nHint: Run 'morkxml filters' to see each filter's usage", e.Name, e.Known)
}
