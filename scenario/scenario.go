// Package scenario reads problems for the ground solver from YAML files.
//
//	name: refute
//	expect: unsat
//	sorts:
//	  - name: U
//	    domain: [u1, u2]
//	functions:
//	  - name: P
//	    args: [U]
//	    sort: Bool
//	assertions:
//	  - (forall ((x U)) (P x))
//	  - (not (P u1))
//
// Assertions are s-expressions over forall, exists, not, and, or, =>, =,
// distinct, +, integer numerals, true, false and the declared functions.
// The elements of a finite domain are constants of their sort.
package scenario

import (
	"os"

	"github.com/netrixframework/qengine/term"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrSyntax        = errors.New("syntax error")
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrUnknownSort   = errors.New("unknown sort")
	ErrArity         = errors.New("wrong number of arguments")
	ErrSort          = errors.New("sort mismatch")
	ErrRedeclared    = errors.New("symbol declared twice")
)

// SortDecl declares an uninterpreted sort, finite when Domain is set
type SortDecl struct {
	Name   string   `yaml:"name"`
	Domain []string `yaml:"domain,omitempty"`
}

// FunctionDecl declares a function symbol. A function without arguments is
// a constant.
type FunctionDecl struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args,omitempty"`
	Sort string   `yaml:"sort"`
}

// File is the YAML layout of a scenario
type File struct {
	Name       string         `yaml:"name"`
	Expect     string         `yaml:"expect,omitempty"`
	Sorts      []SortDecl     `yaml:"sorts,omitempty"`
	Functions  []FunctionDecl `yaml:"functions,omitempty"`
	Assertions []string       `yaml:"assertions"`
}

// Problem is a parsed scenario
type Problem struct {
	Name string
	// Expect is the expected answer, empty if not given
	Expect     string
	Terms      *term.Manager
	Assertions []*term.Node
	Domains    map[term.Sort][]*term.Node
}

// Load reads and parses the scenario at path
func Load(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading scenario file")
	}
	return Parse(data)
}

// Parse parses a YAML scenario
func Parse(data []byte) (*Problem, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling scenario")
	}
	return f.Build(term.NewManager())
}

// Build creates the terms of the scenario with tm
func (f *File) Build(tm *term.Manager) (*Problem, error) {
	b := newBuilder(tm)
	for _, s := range f.Sorts {
		if err := b.declareSort(s); err != nil {
			return nil, err
		}
	}
	for _, fn := range f.Functions {
		if err := b.declareFunction(fn); err != nil {
			return nil, err
		}
	}
	p := &Problem{
		Name:       f.Name,
		Expect:     f.Expect,
		Terms:      tm,
		Assertions: make([]*term.Node, 0, len(f.Assertions)),
		Domains:    b.domains,
	}
	for i, src := range f.Assertions {
		e, err := parseSexp(src)
		if err != nil {
			return nil, errors.Wrapf(err, "assertion %d", i)
		}
		n, err := b.build(e)
		if err != nil {
			return nil, errors.Wrapf(err, "assertion %d", i)
		}
		if n.Sort() != term.SortBool {
			return nil, errors.Wrapf(ErrSort, "assertion %d is not a formula", i)
		}
		p.Assertions = append(p.Assertions, n)
	}
	return p, nil
}
