package metadata

import "strings"

// RestrictKind discriminates Restrict nodes.
type RestrictKind uint8

const (
	// RestrictKindToken is a bare token (e.g. mirror, test, live).
	RestrictKindToken RestrictKind = iota
	// RestrictKindUseConditional is `[!]flag? ( ... )` (EAPI 8+).
	RestrictKindUseConditional
)

// Restrict is a node in a RESTRICT or PROPERTIES expression. Both fields
// share the same grammar.
type Restrict struct {
	Kind     RestrictKind
	Token    string // RestrictKindToken
	Flag     string // RestrictKindUseConditional
	Negated  bool   // RestrictKindUseConditional: true for !flag?
	Children []*Restrict
}

// RestrictToken creates a bare token node.
func RestrictToken(token string) *Restrict {
	return &Restrict{Kind: RestrictKindToken, Token: token}
}

// RestrictConditional creates a `[!]flag? ( ... )` node.
func RestrictConditional(flag string, negated bool, entries ...*Restrict) *Restrict {
	return &Restrict{Kind: RestrictKindUseConditional, Flag: flag, Negated: negated, Children: entries}
}

func isRestrictTokenChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '.' || c == '+'
}

var restrictGrammar = &grammar[*Restrict]{
	flagChar: isUseFlagChar,
	atom: func(sc *scanner) (*Restrict, bool, error) {
		token := sc.takeWhile(isRestrictTokenChar)
		if token == "" {
			return nil, false, nil
		}
		return RestrictToken(token), true, nil
	},
	conditional: func(flag string, negated bool, children []*Restrict) *Restrict {
		return RestrictConditional(flag, negated, children...)
	},
	bareGroup: func(children []*Restrict) []*Restrict {
		// Bare paren groups do not normally appear in RESTRICT or
		// PROPERTIES. A single-child group collapses to its child; any
		// other child count collapses to an empty token. Compatibility
		// behavior, kept bit-for-bit.
		if len(children) == 1 {
			return children
		}
		return []*Restrict{RestrictToken("")}
	},
}

// ParseRestrict parses a RESTRICT or PROPERTIES expression string into an
// ordered entry list. Both the simple space-separated form (EAPI <8) and
// the USE-conditional form (EAPI 8+) are accepted.
func ParseRestrict(input string) ([]*Restrict, error) {
	entries, err := restrictGrammar.parse(input)
	if err != nil {
		return nil, newExprError(ErrInvalidRestrict, err)
	}
	return entries, nil
}

// FlatRestrictTokens collects all token values, recursively inlining
// USE-conditional children. Useful for conditional-agnostic membership
// checks like "does RESTRICT contain test?".
func FlatRestrictTokens(entries []*Restrict) []string {
	var out []string
	for _, entry := range entries {
		switch entry.Kind {
		case RestrictKindToken:
			out = append(out, entry.Token)
		case RestrictKindUseConditional:
			out = append(out, FlatRestrictTokens(entry.Children)...)
		}
	}
	return out
}

// String renders the canonical form of the entry.
func (e *Restrict) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Restrict) write(sb *strings.Builder) {
	switch e.Kind {
	case RestrictKindToken:
		sb.WriteString(e.Token)
	case RestrictKindUseConditional:
		if e.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(e.Flag)
		sb.WriteString("? ( ")
		for i, entry := range e.Children {
			if i > 0 {
				sb.WriteByte(' ')
			}
			entry.write(sb)
		}
		sb.WriteString(" )")
	}
}
