// Package depspec parses Portage dependency specification strings: the
// value syntax shared by DEPEND, RDEPEND, BDEPEND, PDEPEND and IDEPEND.
//
// A dependency specification is a whitespace-separated sequence of
// package atoms, `|| ( ... )` any-of groups, `[!]flag? ( ... )`
// USE-conditional groups and bare parenthesized groups. Atoms are kept as
// opaque validated text; this package does not resolve versions or
// evaluate USE conditions.
package depspec

import (
	"fmt"
	"strings"
)

// DepKind discriminates Dep nodes.
type DepKind uint8

const (
	// DepKindAtom is a package atom, kept as opaque text. Blocker
	// prefixes (`!`, `!!`) are part of the atom.
	DepKindAtom DepKind = iota
	// DepKindAnyOf is `|| ( ... )`.
	DepKindAnyOf
	// DepKindUseConditional is `[!]flag? ( ... )`.
	DepKindUseConditional
	// DepKindGroup is a bare parenthesized group, preserved as written.
	DepKindGroup
)

// Dep is a node in a dependency specification.
type Dep struct {
	Kind     DepKind
	Atom     string // DepKindAtom
	Flag     string // DepKindUseConditional
	Negated  bool   // DepKindUseConditional: true for !flag?
	Children []*Dep
}

// ParseError reports a failed dependency specification parse.
type ParseError struct {
	Reason string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("depspec: %s at offset %d", e.Reason, e.Offset)
}

// Parse parses a dependency specification into its ordered top-level
// entries. An empty or whitespace-only input yields an empty list.
func Parse(input string) ([]*Dep, error) {
	p := &parser{in: input}
	entries, err := p.entries()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.in) {
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected input %q", p.remainder()), Offset: p.pos}
	}
	return entries, nil
}

// String renders the canonical form of the node.
func (d *Dep) String() string {
	var sb strings.Builder
	d.write(&sb)
	return sb.String()
}

func (d *Dep) write(sb *strings.Builder) {
	switch d.Kind {
	case DepKindAtom:
		sb.WriteString(d.Atom)
	case DepKindAnyOf:
		sb.WriteString("|| ( ")
		writeEntries(sb, d.Children)
		sb.WriteString(" )")
	case DepKindUseConditional:
		if d.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(d.Flag)
		sb.WriteString("? ( ")
		writeEntries(sb, d.Children)
		sb.WriteString(" )")
	case DepKindGroup:
		sb.WriteString("( ")
		writeEntries(sb, d.Children)
		sb.WriteString(" )")
	}
}

func writeEntries(sb *strings.Builder, entries []*Dep) {
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		entry.write(sb)
	}
}

// ============================================================
// Parser
// ============================================================

type parser struct {
	in  string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.in) && isSpace(p.in[p.pos]) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) remainder() string {
	r := p.in[p.pos:]
	if len(r) > 32 {
		r = r[:32] + "..."
	}
	return r
}

func (p *parser) entries() ([]*Dep, error) {
	var out []*Dep
	for {
		p.skipSpace()
		c := p.peek()
		if c == 0 || c == ')' {
			return out, nil
		}
		entry, err := p.entry()
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return out, nil
		}
		out = append(out, entry)
	}
}

func (p *parser) entry() (*Dep, error) {
	switch p.peek() {
	case '|':
		if !strings.HasPrefix(p.in[p.pos:], "||") {
			return nil, &ParseError{Reason: "expected '||'", Offset: p.pos}
		}
		p.pos += 2
		children, err := p.group("any-of group")
		if err != nil {
			return nil, err
		}
		return &Dep{Kind: DepKindAnyOf, Children: children}, nil
	case '(':
		children, err := p.group("group")
		if err != nil {
			return nil, err
		}
		return &Dep{Kind: DepKindGroup, Children: children}, nil
	}

	// USE conditional before atom: blockers also start with '!'.
	start := p.pos
	negated := p.peek() == '!'
	if negated {
		p.pos++
	}
	flagStart := p.pos
	for p.pos < len(p.in) && isFlagChar(p.in[p.pos]) {
		p.pos++
	}
	if p.pos > flagStart && p.peek() == '?' {
		flag := p.in[flagStart:p.pos]
		p.pos++
		children, err := p.group("USE conditional group")
		if err != nil {
			return nil, err
		}
		return &Dep{Kind: DepKindUseConditional, Flag: flag, Negated: negated, Children: children}, nil
	}
	p.pos = start

	return p.atom()
}

// group parses the mandatory `( entries )` after an operator token,
// skipping leading whitespace.
func (p *parser) group(label string) ([]*Dep, error) {
	p.skipSpace()
	if p.peek() != '(' {
		return nil, &ParseError{Reason: "expected '(' for " + label, Offset: p.pos}
	}
	p.pos++
	children, err := p.entries()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ')' {
		return nil, &ParseError{Reason: "unterminated " + label, Offset: p.pos}
	}
	p.pos++
	return children, nil
}

func (p *parser) atom() (*Dep, error) {
	start := p.pos
	for p.pos < len(p.in) && isAtomChar(p.in[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, nil
	}
	return &Dep{Kind: DepKindAtom, Atom: p.in[start:p.pos]}, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isFlagChar(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-' || c == '+' || c == '@'
}

// isAtomChar admits the package atom syntax: version operators, blockers,
// category/name, slots, USE dependencies and wildcards.
func isAtomChar(c byte) bool {
	if isAlnum(c) {
		return true
	}
	switch c {
	case '<', '>', '=', '!', '~', '*', '/', ':', '.', '_', '+', '-', '[', ']', '@', ',', '?':
		return true
	}
	return false
}
