// Package renderscript implements the small JSON-configured
// orchestration layer that selects input files, assigns colors, orders
// layers and composes them, and tracks which steps are deliverables.
// Grounded in original_source/gerber's Renderscript.py.
package renderscript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ComposeSource names one layer step to fold into a compose step, and
// the blend operator to fold it in with.
type ComposeSource struct {
	Name     string `json:"name"`
	Operator string `json:"operator"`
}

// Step is one named unit of work: render a single Gerber/drill file
// matched by FileRegex, or compose a set of previously rendered steps.
type Step struct {
	Action        string          `json:"action"` // render-gerber | render-drill | compose
	FileRegex     string          `json:"file_regex,omitempty"`
	FileRegexOpts string          `json:"file_regex_opts,omitempty"`
	Color         string          `json:"color,omitempty"`
	Background    string          `json:"background,omitempty"`
	Postprocess   []string        `json:"postprocess,omitempty"`
	Deliverable   bool            `json:"deliverable,omitempty"`
	Sources       []ComposeSource `json:"sources,omitempty"`
}

// Script is the root JSON document: named variable substitutions and
// an ordered-by-iteration map of named steps.
type Script struct {
	Definitions map[string]string `json:"definitions,omitempty"`
	Steps       map[string]Step   `json:"steps"`
	// order preserves step declaration order from the raw JSON, since
	// Go's map iteration is unordered but step execution is not.
	order []string
}

const (
	ActionRenderGerber = "render-gerber"
	ActionRenderDrill  = "render-drill"
	ActionCompose      = "compose"
)

// Load parses and validates one raw JSON script document, expanding
// $-definitions in each step's file_regex, color and background
// fields. Mirrors Renderscript.add_script/_check; it does not merge
// several script documents.
func Load(data []byte) (*Script, error) {
	var raw struct {
		Definitions map[string]string          `json:"definitions"`
		Steps       map[string]json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("renderscript: invalid script JSON: %w", err)
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("renderscript: script has no steps")
	}

	s := &Script{Definitions: raw.Definitions, Steps: make(map[string]Step, len(raw.Steps))}

	var stepsEnvelope struct {
		Steps json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(data, &stepsEnvelope); err != nil {
		return nil, fmt.Errorf("renderscript: invalid script JSON: %w", err)
	}
	order, err := stepOrder(stepsEnvelope.Steps)
	if err != nil {
		return nil, fmt.Errorf("renderscript: invalid steps object: %w", err)
	}
	s.order = order

	for name, rawStep := range raw.Steps {
		var step Step
		if err := json.Unmarshal(rawStep, &step); err != nil {
			return nil, fmt.Errorf("renderscript: step %q: %w", name, err)
		}
		if err := s.check(name, step); err != nil {
			return nil, err
		}
		s.Steps[name] = s.expand(step)
	}
	return s, nil
}

// stepOrder decodes the raw steps object token by token to recover
// source declaration order, which encoding/json's map-based Unmarshal
// otherwise discards; each step's value is decoded generically via
// dec.Decode and thrown away regardless of its internal shape.
func stepOrder(stepsRaw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(stepsRaw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string key")
		}
		order = append(order, key)
		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *Script) check(name string, step Step) error {
	switch step.Action {
	case ActionRenderGerber, ActionRenderDrill:
		if step.FileRegex == "" {
			return fmt.Errorf("renderscript: step %q: %s requires file_regex", name, step.Action)
		}
	case ActionCompose:
		if len(step.Sources) == 0 {
			return fmt.Errorf("renderscript: step %q: compose requires sources", name)
		}
	default:
		return fmt.Errorf("renderscript: step %q: unknown action %q", name, step.Action)
	}
	return nil
}

var defRe = regexp.MustCompile(`\$(\w+)`)

func (s *Script) expand(step Step) Step {
	step.FileRegex = s.substitute(step.FileRegex)
	step.Color = s.substitute(step.Color)
	step.Background = s.substitute(step.Background)
	return step
}

func (s *Script) substitute(text string) string {
	if text == "" {
		return text
	}
	return defRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1:]
		if v, ok := s.Definitions[name]; ok {
			return v
		}
		return m
	})
}

// Order returns step names in declaration order.
func (s *Script) Order() []string { return append([]string(nil), s.order...) }

// DeliverableNames returns the names of steps marked deliverable:true,
// in declaration order.
func (s *Script) DeliverableNames() []string {
	var names []string
	for _, name := range s.order {
		if step, ok := s.Steps[name]; ok && step.Deliverable {
			names = append(names, name)
		}
	}
	return names
}

// ParseColor parses a "#RRGGBB" or "#RRGGBBAA" hex color, per
// Renderscript._parse_color.
func ParseColor(hex string) (r, g, b, a uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, 0, 0, 0, fmt.Errorf("renderscript: malformed color %q", hex)
	}
	parse := func(s string) (uint8, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		return uint8(v), err
	}
	rv, err1 := parse(hex[0:2])
	gv, err2 := parse(hex[2:4])
	bv, err3 := parse(hex[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, 0, fmt.Errorf("renderscript: malformed color %q", hex)
	}
	av := uint8(255)
	if len(hex) == 8 {
		av, err = parse(hex[6:8])
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("renderscript: malformed color %q", hex)
		}
	}
	return rv, gv, bv, av, nil
}
