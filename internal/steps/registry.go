// Package steps binds natural-language scenario sentences to request and
// assertion functions. Patterns use {name:d} for integers and {name} for
// strings (a string placeholder never spans a double quote).
package steps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the step keyword family. And/But inherit the previous kind.
type Kind int

const (
	Given Kind = iota
	When
	Then
)

func (k Kind) String() string {
	switch k {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	// ErrUndefinedStep is returned when no definition matches a step.
	ErrUndefinedStep = errors.New("undefined step")
	// ErrAmbiguousStep is returned when more than one definition matches.
	ErrAmbiguousStep = errors.New("ambiguous step")
	// ErrNoPreviousStep is returned for And/But at the start of a step list.
	ErrNoPreviousStep = errors.New("And/But without a preceding step")
)

// Args holds the typed placeholder values of a matched step.
type Args map[string]any

// Int returns an integer placeholder.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// String returns a string placeholder.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// StepFunc implements one step against the scenario world.
type StepFunc func(ctx context.Context, w *World, args Args) error

type param struct {
	name    string
	integer bool
}

// Definition is a registered step pattern.
type Definition struct {
	Kind    Kind
	Pattern string
	Fn      StepFunc
	re      *regexp.Regexp
	params  []param
}

// Registry holds step definitions.
type Registry struct {
	defs []*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var placeholderRE = regexp.MustCompile(`\{(\w+)(?::(\w+))?\}`)

func compile(pattern string) (*regexp.Regexp, []param, error) {
	var (
		sb     strings.Builder
		params []param
		last   int
	)
	sb.WriteString("^")
	for _, m := range placeholderRE.FindAllStringSubmatchIndex(pattern, -1) {
		sb.WriteString(regexp.QuoteMeta(pattern[last:m[0]]))
		name := pattern[m[2]:m[3]]
		format := ""
		if m[4] >= 0 {
			format = pattern[m[4]:m[5]]
		}
		switch format {
		case "":
			sb.WriteString(`([^"]*)`)
			params = append(params, param{name: name})
		case "d":
			sb.WriteString(`(-?\d+)`)
			params = append(params, param{name: name, integer: true})
		default:
			return nil, nil, fmt.Errorf("pattern %q: unknown format %q for {%s}", pattern, format, name)
		}
		last = m[1]
	}
	sb.WriteString(regexp.QuoteMeta(pattern[last:]))
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	return re, params, nil
}

// Add registers a definition. It panics on a malformed pattern, since
// patterns are fixed at program start.
func (r *Registry) Add(kind Kind, pattern string, fn StepFunc) {
	re, params, err := compile(pattern)
	if err != nil {
		panic(err)
	}
	r.defs = append(r.defs, &Definition{Kind: kind, Pattern: pattern, Fn: fn, re: re, params: params})
}

// Given registers a Given step.
func (r *Registry) Given(pattern string, fn StepFunc) { r.Add(Given, pattern, fn) }

// When registers a When step.
func (r *Registry) When(pattern string, fn StepFunc) { r.Add(When, pattern, fn) }

// Then registers a Then step.
func (r *Registry) Then(pattern string, fn StepFunc) { r.Add(Then, pattern, fn) }

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	return r.defs
}

// Match finds the single definition of kind matching text.
func (r *Registry) Match(kind Kind, text string) (*Definition, Args, error) {
	var (
		found *Definition
		args  Args
	)
	for _, d := range r.defs {
		if d.Kind != kind {
			continue
		}
		m := d.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if found != nil {
			return nil, nil, fmt.Errorf("%w: %q matches %q and %q", ErrAmbiguousStep, text, found.Pattern, d.Pattern)
		}
		a := make(Args, len(d.params))
		for i, p := range d.params {
			raw := m[i+1]
			if !p.integer {
				a[p.name] = raw
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("step %q: {%s}: %w", text, p.name, err)
			}
			a[p.name] = n
		}
		found, args = d, a
	}
	if found == nil {
		return nil, nil, fmt.Errorf("%w: %s %s", ErrUndefinedStep, kind, text)
	}
	return found, args, nil
}

// ParseLine splits a step line into its kind and text. And, But and "*"
// inherit prev; hasPrev is false for the first line of a step list.
func ParseLine(line string, prev Kind, hasPrev bool) (Kind, string, error) {
	line = strings.TrimSpace(line)
	keyword, text, _ := strings.Cut(line, " ")
	text = strings.TrimSpace(text)
	switch keyword {
	case "Given":
		return Given, text, nil
	case "When":
		return When, text, nil
	case "Then":
		return Then, text, nil
	case "And", "But", "*":
		if !hasPrev {
			return 0, "", fmt.Errorf("%w: %q", ErrNoPreviousStep, line)
		}
		return prev, text, nil
	default:
		return 0, "", fmt.Errorf("step %q must start with Given, When, Then, And or But", line)
	}
}
