package metadata

import "strings"

// RequiredUseKind discriminates RequiredUse nodes.
type RequiredUseKind uint8

const (
	// RequiredUseKindFlag is a bare, possibly negated USE flag.
	RequiredUseKindFlag RequiredUseKind = iota
	// RequiredUseKindAnyOf is `|| ( ... )`: at least one child holds.
	RequiredUseKindAnyOf
	// RequiredUseKindExactlyOne is `^^ ( ... )` (EAPI 4+).
	RequiredUseKindExactlyOne
	// RequiredUseKindAtMostOne is `?? ( ... )` (EAPI 5+).
	RequiredUseKindAtMostOne
	// RequiredUseKindUseConditional is `[!]flag? ( ... )`.
	RequiredUseKindUseConditional
	// RequiredUseKindAll is an implicit conjunction.
	RequiredUseKindAll
)

// RequiredUse is a node in a REQUIRED_USE constraint tree.
type RequiredUse struct {
	Kind     RequiredUseKind
	Name     string // RequiredUseKindFlag
	Flag     string // RequiredUseKindUseConditional
	Negated  bool   // flag or conditional negation
	Children []*RequiredUse
}

// RequiredUseFlag creates a bare flag node.
func RequiredUseFlag(name string, negated bool) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindFlag, Name: name, Negated: negated}
}

// RequiredUseAnyOf creates a `|| ( ... )` node.
func RequiredUseAnyOf(entries ...*RequiredUse) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindAnyOf, Children: entries}
}

// RequiredUseExactlyOne creates a `^^ ( ... )` node.
func RequiredUseExactlyOne(entries ...*RequiredUse) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindExactlyOne, Children: entries}
}

// RequiredUseAtMostOne creates a `?? ( ... )` node.
func RequiredUseAtMostOne(entries ...*RequiredUse) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindAtMostOne, Children: entries}
}

// RequiredUseConditional creates a `[!]flag? ( ... )` node.
func RequiredUseConditional(flag string, negated bool, entries ...*RequiredUse) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindUseConditional, Flag: flag, Negated: negated, Children: entries}
}

// RequiredUseAll creates an implicit conjunction node.
func RequiredUseAll(entries ...*RequiredUse) *RequiredUse {
	return &RequiredUse{Kind: RequiredUseKindAll, Children: entries}
}

// USE flag names: no '.' or '@', unlike license identifiers.
func isUseFlagChar(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-' || c == '+'
}

var requiredUseGrammar = &grammar[*RequiredUse]{
	ops: []groupOp[*RequiredUse]{
		{token: "||", label: "'||' group", build: func(children []*RequiredUse) *RequiredUse {
			return RequiredUseAnyOf(children...)
		}},
		{token: "^^", label: "'^^' group", build: func(children []*RequiredUse) *RequiredUse {
			return RequiredUseExactlyOne(children...)
		}},
		{token: "??", label: "'??' group", build: func(children []*RequiredUse) *RequiredUse {
			return RequiredUseAtMostOne(children...)
		}},
	},
	flagChar: isUseFlagChar,
	atom: func(sc *scanner) (*RequiredUse, bool, error) {
		start := sc.pos
		negated := sc.accept('!')
		name := sc.takeWhile(isUseFlagChar)
		if name == "" {
			sc.pos = start
			return nil, false, nil
		}
		return RequiredUseFlag(name, negated), true, nil
	},
	conditional: func(flag string, negated bool, children []*RequiredUse) *RequiredUse {
		return RequiredUseConditional(flag, negated, children...)
	},
	bareGroup: func(children []*RequiredUse) []*RequiredUse {
		return children
	},
}

// ParseRequiredUse parses a REQUIRED_USE expression string.
//
// The grammar accepts all group operators regardless of the record's EAPI;
// the EAPI predicates (HasRequiredUse, HasAtMostOneOf) stay advisory.
func ParseRequiredUse(input string) (*RequiredUse, error) {
	entries, err := requiredUseGrammar.parse(input)
	if err != nil {
		return nil, newExprError(ErrInvalidRequiredUse, err)
	}
	switch len(entries) {
	case 0:
		return RequiredUseAll(), nil
	case 1:
		return entries[0], nil
	default:
		return RequiredUseAll(entries...), nil
	}
}

// String renders the canonical form of the constraint.
func (e *RequiredUse) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *RequiredUse) write(sb *strings.Builder) {
	switch e.Kind {
	case RequiredUseKindFlag:
		if e.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(e.Name)
	case RequiredUseKindAnyOf:
		writeRequiredUseGroup(sb, "||", e.Children)
	case RequiredUseKindExactlyOne:
		writeRequiredUseGroup(sb, "^^", e.Children)
	case RequiredUseKindAtMostOne:
		writeRequiredUseGroup(sb, "??", e.Children)
	case RequiredUseKindUseConditional:
		if e.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(e.Flag)
		sb.WriteString("? ( ")
		writeRequiredUseEntries(sb, e.Children)
		sb.WriteString(" )")
	case RequiredUseKindAll:
		writeRequiredUseEntries(sb, e.Children)
	}
}

func writeRequiredUseGroup(sb *strings.Builder, op string, entries []*RequiredUse) {
	sb.WriteString(op)
	sb.WriteString(" ( ")
	writeRequiredUseEntries(sb, entries)
	sb.WriteString(" )")
}

func writeRequiredUseEntries(sb *strings.Builder, entries []*RequiredUse) {
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		entry.write(sb)
	}
}
