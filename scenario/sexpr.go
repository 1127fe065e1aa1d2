package scenario

import (
	"strings"

	"github.com/pkg/errors"
)

// sexp is a parsed s-expression: an atom or a list
type sexp struct {
	atom   string
	list   []*sexp
	isList bool
}

func (s *sexp) String() string {
	if !s.isList {
		return s.atom
	}
	parts := make([]string, len(s.list))
	for i, c := range s.list {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// head returns the leading symbol of a list, "" if there is none
func (s *sexp) head() string {
	if !s.isList || len(s.list) == 0 || s.list[0].isList {
		return ""
	}
	return s.list[0].atom
}

func tokenize(src string) []string {
	tokens := make([]string, 0)
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	comment := false
	for _, r := range src {
		if comment {
			if r == '\n' {
				comment = false
			}
			continue
		}
		switch r {
		case ';':
			flush()
			comment = true
		case '(', ')':
			flush()
			tokens = append(tokens, string(r))
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// parseSexp parses exactly one s-expression from src
func parseSexp(src string) (*sexp, error) {
	tokens := tokenize(src)
	if len(tokens) == 0 {
		return nil, errors.Wrap(ErrSyntax, "empty expression")
	}
	s, rest, err := parseTokens(tokens)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, errors.Wrapf(ErrSyntax, "unexpected %q after expression", rest[0])
	}
	return s, nil
}

func parseTokens(tokens []string) (*sexp, []string, error) {
	if len(tokens) == 0 {
		return nil, nil, errors.Wrap(ErrSyntax, "unexpected end of expression")
	}
	tok := tokens[0]
	tokens = tokens[1:]
	switch tok {
	case ")":
		return nil, nil, errors.Wrap(ErrSyntax, "unexpected )")
	case "(":
		list := &sexp{isList: true, list: make([]*sexp, 0)}
		for {
			if len(tokens) == 0 {
				return nil, nil, errors.Wrap(ErrSyntax, "missing )")
			}
			if tokens[0] == ")" {
				return list, tokens[1:], nil
			}
			var child *sexp
			var err error
			child, tokens, err = parseTokens(tokens)
			if err != nil {
				return nil, nil, err
			}
			list.list = append(list.list, child)
		}
	}
	return &sexp{atom: tok}, tokens, nil
}
