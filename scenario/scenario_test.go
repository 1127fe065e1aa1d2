package scenario

import (
	"testing"

	"github.com/netrixframework/qengine/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, f *File) (*Problem, error) {
	t.Helper()
	return f.Build(term.NewManager())
}

func TestBuildTerms(t *testing.T) {
	f := &File{
		Name: "terms",
		Sorts: []SortDecl{
			{Name: "U", Domain: []string{"u1", "u2"}},
		},
		Functions: []FunctionDecl{
			{Name: "f", Args: []string{"U"}, Sort: "U"},
			{Name: "P", Args: []string{"U", "Int"}, Sort: "Bool"},
		},
		Assertions: []string{
			"(forall ((x U)) (P (f x) (+ 1 2)))",
			"(distinct u1 u2 (f u1))",
			"(exists ((y Int)) (P u1 y))",
		},
	}
	p, err := build(t, f)
	require.NoError(t, err)
	require.Len(t, p.Assertions, 3)
	tm := p.Terms
	u := term.Sort("U")

	x := tm.BoundVar("x", u)
	fx := tm.Apply("f", u, x)
	assert.Same(t, tm.Forall([]*term.Node{x}, tm.Apply("P", term.SortBool, fx, tm.Plus(tm.Int(1), tm.Int(2)))), p.Assertions[0])

	u1, u2 := tm.Const("u1", u), tm.Const("u2", u)
	fu1 := tm.Apply("f", u, u1)
	assert.Same(t, tm.And(
		tm.Not(tm.Eq(u1, u2)),
		tm.Not(tm.Eq(u1, fu1)),
		tm.Not(tm.Eq(u2, fu1)),
	), p.Assertions[1])

	y := tm.BoundVar("y", term.SortInt)
	assert.Same(t, tm.Not(tm.Forall([]*term.Node{y}, tm.Not(tm.Apply("P", term.SortBool, u1, y)))), p.Assertions[2])

	assert.Equal(t, []*term.Node{u1, u2}, p.Domains[u])
}

func TestShadowing(t *testing.T) {
	f := &File{
		Functions: []FunctionDecl{{Name: "P", Args: []string{"Int"}, Sort: "Bool"}},
		Assertions: []string{
			"(forall ((x Int)) (forall ((x Bool)) x))",
		},
	}
	p, err := build(t, f)
	require.NoError(t, err)
	tm := p.Terms
	inner := tm.BoundVar("x", term.SortBool)
	outer := tm.BoundVar("x", term.SortInt)
	assert.Same(t, tm.Forall([]*term.Node{outer}, tm.Forall([]*term.Node{inner}, inner)), p.Assertions[0])
}

func TestBuildErrors(t *testing.T) {
	decls := []FunctionDecl{
		{Name: "a", Sort: "Int"},
		{Name: "P", Args: []string{"Int"}, Sort: "Bool"},
	}
	cases := []struct {
		name      string
		assertion string
		err       error
	}{
		{"unknown symbol", "(Q a)", ErrUnknownSymbol},
		{"unbound variable", "(P x)", ErrUnknownSymbol},
		{"arity", "(P a a)", ErrArity},
		{"constant arity", "(and P)", ErrArity},
		{"argument sort", "(P true)", ErrSort},
		{"equality sorts", "(= a true)", ErrSort},
		{"not a formula", "(+ a 1)", ErrSort},
		{"quantifier body", "(forall ((x Int)) x)", ErrSort},
		{"binder", "(forall (x Int) (P x))", ErrSyntax},
		{"binder sort", "(forall ((x V)) true)", ErrUnknownSort},
		{"operator", "((P a) a)", ErrSyntax},
		{"empty", "()", ErrSyntax},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := build(t, &File{Functions: decls, Assertions: []string{c.assertion}})
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestDeclarationErrors(t *testing.T) {
	_, err := build(t, &File{Sorts: []SortDecl{{Name: "Int"}}})
	assert.ErrorIs(t, err, ErrRedeclared)

	_, err = build(t, &File{Functions: []FunctionDecl{{Name: "f", Args: []string{"V"}, Sort: "Int"}}})
	assert.ErrorIs(t, err, ErrUnknownSort)

	_, err = build(t, &File{Functions: []FunctionDecl{{Name: "forall", Sort: "Bool"}}})
	assert.ErrorIs(t, err, ErrRedeclared)

	_, err = build(t, &File{
		Sorts:     []SortDecl{{Name: "U", Domain: []string{"u1"}}},
		Functions: []FunctionDecl{{Name: "u1", Sort: "U"}},
	})
	assert.ErrorIs(t, err, ErrRedeclared)
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte(`
name: small
expect: sat
functions:
  - name: p
    sort: Bool
assertions:
  - p
`))
	require.NoError(t, err)
	assert.Equal(t, "small", p.Name)
	assert.Equal(t, "sat", p.Expect)
	assert.Same(t, p.Terms.Const("p", term.SortBool), p.Assertions[0])

	_, err = Parse([]byte("assertions: [\"(p\"]"))
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = Parse([]byte("assertions: {"))
	assert.Error(t, err)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}
