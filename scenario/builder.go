package scenario

import (
	"strconv"

	"github.com/netrixframework/qengine/term"
	"github.com/pkg/errors"
)

type signature struct {
	args []term.Sort
	sort term.Sort
}

type builder struct {
	tm        *term.Manager
	sorts     map[string]term.Sort
	functions map[string]signature
	domains   map[term.Sort][]*term.Node
	// bound variables in scope, innermost last
	scopes []map[string]*term.Node
}

func newBuilder(tm *term.Manager) *builder {
	return &builder{
		tm: tm,
		sorts: map[string]term.Sort{
			string(term.SortBool): term.SortBool,
			string(term.SortInt):  term.SortInt,
		},
		functions: make(map[string]signature),
		domains:   make(map[term.Sort][]*term.Node),
		scopes:    make([]map[string]*term.Node, 0),
	}
}

func (b *builder) declareSort(d SortDecl) error {
	if _, ok := b.sorts[d.Name]; ok {
		return errors.Wrapf(ErrRedeclared, "sort %s", d.Name)
	}
	s := term.Sort(d.Name)
	b.sorts[d.Name] = s
	if len(d.Domain) == 0 {
		return nil
	}
	elems := make([]*term.Node, 0, len(d.Domain))
	for _, name := range d.Domain {
		if err := b.declareFunction(FunctionDecl{Name: name, Sort: d.Name}); err != nil {
			return err
		}
		elems = append(elems, b.tm.Const(name, s))
	}
	b.domains[s] = elems
	return nil
}

func (b *builder) sort(name string) (term.Sort, error) {
	s, ok := b.sorts[name]
	if !ok {
		return "", errors.Wrapf(ErrUnknownSort, "%s", name)
	}
	return s, nil
}

func (b *builder) declareFunction(d FunctionDecl) error {
	if _, ok := b.functions[d.Name]; ok || isKeyword(d.Name) {
		return errors.Wrapf(ErrRedeclared, "function %s", d.Name)
	}
	sig := signature{args: make([]term.Sort, len(d.Args))}
	var err error
	if sig.sort, err = b.sort(d.Sort); err != nil {
		return err
	}
	for i, a := range d.Args {
		if sig.args[i], err = b.sort(a); err != nil {
			return err
		}
	}
	b.functions[d.Name] = sig
	return nil
}

func isKeyword(s string) bool {
	switch s {
	case "forall", "exists", "not", "and", "or", "=>", "=", "distinct", "+", "true", "false":
		return true
	}
	return false
}

func (b *builder) lookupVar(name string) (*term.Node, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if v, ok := b.scopes[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (b *builder) build(e *sexp) (*term.Node, error) {
	if !e.isList {
		return b.buildAtom(e.atom)
	}
	if len(e.list) == 0 {
		return nil, errors.Wrap(ErrSyntax, "empty list")
	}
	head := e.head()
	if head == "" {
		return nil, errors.Wrapf(ErrSyntax, "no operator in %s", e)
	}
	switch head {
	case "forall", "exists":
		return b.buildQuantifier(e)
	}
	args := make([]*term.Node, 0, len(e.list)-1)
	for _, c := range e.list[1:] {
		n, err := b.build(c)
		if err != nil {
			return nil, err
		}
		args = append(args, n)
	}
	switch head {
	case "not":
		if err := b.expect(e, args, 1, term.SortBool); err != nil {
			return nil, err
		}
		return b.tm.Not(args[0]), nil
	case "and", "or":
		if err := b.expect(e, args, -1, term.SortBool); err != nil {
			return nil, err
		}
		if head == "and" {
			return b.tm.And(args...), nil
		}
		return b.tm.Or(args...), nil
	case "=>":
		if err := b.expect(e, args, 2, term.SortBool); err != nil {
			return nil, err
		}
		return b.tm.Implies(args[0], args[1]), nil
	case "=", "distinct":
		if err := b.expect(e, args, -1, ""); err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, errors.Wrapf(ErrArity, "%s", e)
		}
		if head == "=" {
			if len(args) != 2 {
				return nil, errors.Wrapf(ErrArity, "%s", e)
			}
			return b.tm.Eq(args[0], args[1]), nil
		}
		diseqs := make([]*term.Node, 0)
		for i := range args {
			for j := i + 1; j < len(args); j++ {
				diseqs = append(diseqs, b.tm.Not(b.tm.Eq(args[i], args[j])))
			}
		}
		return b.tm.And(diseqs...), nil
	case "+":
		if err := b.expect(e, args, 2, term.SortInt); err != nil {
			return nil, err
		}
		return b.tm.Plus(args[0], args[1]), nil
	}
	sig, ok := b.functions[head]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "%s", head)
	}
	if len(args) != len(sig.args) {
		return nil, errors.Wrapf(ErrArity, "%s", e)
	}
	for i, a := range args {
		if a.Sort() != sig.args[i] {
			return nil, errors.Wrapf(ErrSort, "argument %d of %s", i+1, e)
		}
	}
	return b.tm.Apply(head, sig.sort, args...), nil
}

// expect checks the number of args, -1 for at least one, and their sort.
// An empty sort requires all args to have the same sort.
func (b *builder) expect(e *sexp, args []*term.Node, n int, s term.Sort) error {
	if (n < 0 && len(args) == 0) || (n >= 0 && len(args) != n) {
		return errors.Wrapf(ErrArity, "%s", e)
	}
	if s == "" {
		s = args[0].Sort()
	}
	for _, a := range args {
		if a.Sort() != s {
			return errors.Wrapf(ErrSort, "%s", e)
		}
	}
	return nil
}

func (b *builder) buildAtom(tok string) (*term.Node, error) {
	switch tok {
	case "true":
		return b.tm.True(), nil
	case "false":
		return b.tm.False(), nil
	}
	if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return b.tm.Int(v), nil
	}
	if v, ok := b.lookupVar(tok); ok {
		return v, nil
	}
	sig, ok := b.functions[tok]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSymbol, "%s", tok)
	}
	if len(sig.args) > 0 {
		return nil, errors.Wrapf(ErrArity, "%s", tok)
	}
	return b.tm.Const(tok, sig.sort), nil
}

// buildQuantifier builds (forall ((x S) ...) body). exists is built as the
// negation of a universal formula.
func (b *builder) buildQuantifier(e *sexp) (*term.Node, error) {
	if len(e.list) != 3 || !e.list[1].isList || len(e.list[1].list) == 0 {
		return nil, errors.Wrapf(ErrSyntax, "malformed %s", e)
	}
	scope := make(map[string]*term.Node)
	vars := make([]*term.Node, 0, len(e.list[1].list))
	for _, d := range e.list[1].list {
		if !d.isList || len(d.list) != 2 || d.list[0].isList || d.list[1].isList {
			return nil, errors.Wrapf(ErrSyntax, "malformed binder %s", d)
		}
		s, err := b.sort(d.list[1].atom)
		if err != nil {
			return nil, err
		}
		v := b.tm.BoundVar(d.list[0].atom, s)
		scope[d.list[0].atom] = v
		vars = append(vars, v)
	}
	b.scopes = append(b.scopes, scope)
	body, err := b.build(e.list[2])
	b.scopes = b.scopes[:len(b.scopes)-1]
	if err != nil {
		return nil, err
	}
	if body.Sort() != term.SortBool {
		return nil, errors.Wrapf(ErrSort, "body of %s", e)
	}
	if e.head() == "exists" {
		return b.tm.Not(b.tm.Forall(vars, b.tm.Not(body))), nil
	}
	return b.tm.Forall(vars, body), nil
}
