package memuc

import (
	"fmt"
	"strconv"
)

type selectorKind uint8

const (
	selectorNone selectorKind = iota
	selectorIndex
	selectorName
)

// Selector identifies exactly one VM, either by its numeric index or by its
// name. The zero value selects nothing and is rejected by every VM-scoped
// operation with ErrNoSelector.
type Selector struct {
	kind  selectorKind
	index int
	name  string
}

// Index selects a VM by index.
func Index(i int) Selector {
	return Selector{kind: selectorIndex, index: i}
}

// Name selects a VM by name.
func Name(name string) Selector {
	return Selector{kind: selectorName, name: name}
}

// SelectorFrom builds a Selector from optional CLI-style inputs. When both
// are present the index wins. An empty name counts as absent.
func SelectorFrom(index *int, name string) Selector {
	switch {
	case index != nil:
		return Index(*index)
	case name != "":
		return Name(name)
	default:
		return Selector{}
	}
}

// IsZero reports whether the selector selects nothing.
func (s Selector) IsZero() bool {
	return s.kind == selectorNone
}

// ByIndex returns the index if the selector is index-based.
func (s Selector) ByIndex() (int, bool) {
	return s.index, s.kind == selectorIndex
}

// ByName returns the name if the selector is name-based.
func (s Selector) ByName() (string, bool) {
	return s.name, s.kind == selectorName
}

func (s Selector) String() string {
	switch s.kind {
	case selectorIndex:
		return "index " + strconv.Itoa(s.index)
	case selectorName:
		return strconv.Quote(s.name)
	default:
		return "none"
	}
}

// Validate checks that the selector selects a plausible VM.
func (s Selector) Validate() error {
	switch s.kind {
	case selectorIndex:
		if s.index < 0 {
			return fmt.Errorf("%w: negative index %d", ErrInvalidSelector, s.index)
		}
	case selectorName:
		if s.name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidSelector)
		}
	default:
		return ErrNoSelector
	}
	return nil
}

// Args renders the selector as the memuc arguments that precede a verb.
func (s Selector) Args() ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.kind == selectorIndex {
		return []string{"-i", strconv.Itoa(s.index)}, nil
	}
	return []string{"-n", s.name}, nil
}
