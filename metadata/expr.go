package metadata

import (
	"fmt"
	"strings"
)

// Shared recursive-descent engine for the bracketed USE-conditional
// expression languages (LICENSE, REQUIRED_USE, RESTRICT/PROPERTIES,
// SRC_URI). Each grammar supplies its atom parser, group operators, and
// bare-group policy; the engine owns whitespace skipping, one-character
// dispatch, USE-conditional recognition, and error positions.

// SyntaxError reports a located failure inside an expression value.
type SyntaxError struct {
	Msg    string // what went wrong, e.g. "unterminated group"
	Label  string // construct being parsed, e.g. "USE conditional group"
	Offset int    // byte offset into the field value
}

func (e *SyntaxError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s in %s at offset %d", e.Msg, e.Label, e.Offset)
	}
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

// ============================================================
// Scanner
// ============================================================

type scanner struct {
	in  string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.in) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.in[s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.in[s.pos]) {
		s.pos++
	}
}

// takeWhile consumes and returns the run of bytes satisfying pred.
func (s *scanner) takeWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.in[s.pos]) {
		s.pos++
	}
	return s.in[start:s.pos]
}

// accept consumes c if it is the next byte.
func (s *scanner) accept(c byte) bool {
	if !s.eof() && s.in[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

// literal consumes tok if the input continues with it.
func (s *scanner) literal(tok string) bool {
	if strings.HasPrefix(s.in[s.pos:], tok) {
		s.pos += len(tok)
		return true
	}
	return false
}

// rest returns the unconsumed input, truncated for error messages.
func (s *scanner) rest() string {
	r := s.in[s.pos:]
	if len(r) > 32 {
		r = r[:32] + "..."
	}
	return r
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// ============================================================
// Grammar engine
// ============================================================

// groupOp is a two-character operator token followed by a mandatory
// parenthesized child group, e.g. "||", "^^", "??".
type groupOp[T any] struct {
	token string
	label string
	build func(children []T) T
}

// grammar parametrizes the engine for one expression language.
type grammar[T any] struct {
	ops      []groupOp[T]
	flagChar func(byte) bool

	// atom parses a leaf at the current position. ok=false means no leaf
	// starts here; the entry loop stops and unconsumed input becomes a
	// positional error.
	atom func(sc *scanner) (node T, ok bool, err error)

	// conditional builds a `[!]flag? ( ... )` node.
	conditional func(flag string, negated bool, children []T) T

	// bareGroup decides what a bare parenthesized group contributes to
	// the surrounding entry list.
	bareGroup func(children []T) []T
}

// parse runs the grammar over a complete field value. Every non-whitespace
// byte must be consumed; zero entries is a successful empty parse.
func (g *grammar[T]) parse(input string) ([]T, error) {
	sc := &scanner{in: input}
	entries, err := g.entries(sc)
	if err != nil {
		return nil, err
	}
	sc.skipSpace()
	if !sc.eof() {
		return nil, &SyntaxError{
			Msg:    fmt.Sprintf("unexpected input %q", sc.rest()),
			Offset: sc.pos,
		}
	}
	return entries, nil
}

func (g *grammar[T]) entries(sc *scanner) ([]T, error) {
	var out []T
	for {
		sc.skipSpace()
		if sc.eof() {
			return out, nil
		}
		batch, ok, err := g.entry(sc)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, batch...)
	}
}

// entry parses one entry at the current position. A soft mismatch
// (ok=false) stops the caller's loop without consuming input.
func (g *grammar[T]) entry(sc *scanner) ([]T, bool, error) {
	c := sc.peek()

	if c == '(' {
		children, err := g.parenGroup(sc, "closing ')'")
		if err != nil {
			return nil, false, err
		}
		return g.bareGroup(children), true, nil
	}

	for _, op := range g.ops {
		if op.token[0] != c {
			continue
		}
		if !sc.literal(op.token) {
			// Operator sigil without its full token: not an entry.
			return nil, false, nil
		}
		children, err := g.childGroup(sc, op.label)
		if err != nil {
			return nil, false, err
		}
		return []T{op.build(children)}, true, nil
	}

	// USE conditional attempt: [!]flag? ( ... ). Once the '?' is seen the
	// parse is committed; a missing group is fatal, not a fallback.
	start := sc.pos
	negated := sc.accept('!')
	flag := sc.takeWhile(g.flagChar)
	if flag != "" && sc.peek() == '?' {
		sc.pos++
		children, err := g.childGroup(sc, "USE conditional group")
		if err != nil {
			return nil, false, err
		}
		return []T{g.conditional(flag, negated, children)}, true, nil
	}
	sc.pos = start

	node, ok, err := g.atom(sc)
	if err != nil || !ok {
		return nil, ok, err
	}
	return []T{node}, true, nil
}

// childGroup parses the mandatory parenthesized child list that follows an
// operator token or a USE conditional.
func (g *grammar[T]) childGroup(sc *scanner, label string) ([]T, error) {
	sc.skipSpace()
	if sc.peek() != '(' {
		return nil, &SyntaxError{Msg: "expected '('", Label: label, Offset: sc.pos}
	}
	return g.parenGroup(sc, label)
}

// parenGroup parses "( entries )" with the opening paren at the current
// position. A missing closing paren is fatal.
func (g *grammar[T]) parenGroup(sc *scanner, label string) ([]T, error) {
	sc.pos++ // consume '('
	children, err := g.entries(sc)
	if err != nil {
		return nil, err
	}
	sc.skipSpace()
	if !sc.accept(')') {
		return nil, &SyntaxError{Msg: "unterminated group", Label: label, Offset: sc.pos}
	}
	return children, nil
}
