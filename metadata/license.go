package metadata

import "strings"

// LicenseKind discriminates LicenseExpr nodes.
type LicenseKind uint8

const (
	// LicenseKindName is a single license identifier (e.g. MIT, GPL-2+).
	LicenseKindName LicenseKind = iota
	// LicenseKindAnyOf is `|| ( ... )`: any one license is acceptable.
	LicenseKindAnyOf
	// LicenseKindUseConditional is `[!]flag? ( ... )`.
	LicenseKindUseConditional
	// LicenseKindAll is an implicit conjunction: all entries apply.
	LicenseKindAll
)

// LicenseExpr is a node in a LICENSE expression tree.
type LicenseExpr struct {
	Kind     LicenseKind
	Name     string // LicenseKindName
	Flag     string // LicenseKindUseConditional
	Negated  bool   // LicenseKindUseConditional: true for !flag?
	Children []*LicenseExpr
}

// License creates a single license identifier node.
func License(name string) *LicenseExpr {
	return &LicenseExpr{Kind: LicenseKindName, Name: name}
}

// LicenseAnyOf creates a `|| ( ... )` node.
func LicenseAnyOf(entries ...*LicenseExpr) *LicenseExpr {
	return &LicenseExpr{Kind: LicenseKindAnyOf, Children: entries}
}

// LicenseConditional creates a `[!]flag? ( ... )` node.
func LicenseConditional(flag string, negated bool, entries ...*LicenseExpr) *LicenseExpr {
	return &LicenseExpr{Kind: LicenseKindUseConditional, Flag: flag, Negated: negated, Children: entries}
}

// LicenseAll creates an implicit conjunction node.
func LicenseAll(entries ...*LicenseExpr) *LicenseExpr {
	return &LicenseExpr{Kind: LicenseKindAll, Children: entries}
}

func isLicenseChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '.' || c == '+'
}

// LICENSE conditional flags additionally allow '@' (license groups).
func isLicenseFlagChar(c byte) bool {
	return isAlnum(c) || c == '_' || c == '-' || c == '+' || c == '@'
}

var licenseGrammar = &grammar[*LicenseExpr]{
	ops: []groupOp[*LicenseExpr]{
		{token: "||", label: "'||' group", build: func(children []*LicenseExpr) *LicenseExpr {
			return LicenseAnyOf(children...)
		}},
	},
	flagChar: isLicenseFlagChar,
	atom: func(sc *scanner) (*LicenseExpr, bool, error) {
		start := sc.pos
		name := sc.takeWhile(isLicenseChar)
		if name == "" {
			return nil, false, nil
		}
		// A license name may contain but not start with these.
		switch name[0] {
		case '-', '.', '+':
			sc.pos = start
			return nil, false, nil
		}
		return License(name), true, nil
	},
	conditional: func(flag string, negated bool, children []*LicenseExpr) *LicenseExpr {
		return LicenseConditional(flag, negated, children...)
	},
	bareGroup: func(children []*LicenseExpr) []*LicenseExpr {
		// Bare paren groups flatten into the surrounding list.
		return children
	},
}

// ParseLicense parses a LICENSE expression string.
//
// An empty value parses to an empty conjunction; a single top-level entry
// is returned unwrapped; multiple entries are wrapped in LicenseKindAll.
func ParseLicense(input string) (*LicenseExpr, error) {
	entries, err := licenseGrammar.parse(input)
	if err != nil {
		return nil, newExprError(ErrInvalidLicense, err)
	}
	switch len(entries) {
	case 0:
		return LicenseAll(), nil
	case 1:
		return entries[0], nil
	default:
		return LicenseAll(entries...), nil
	}
}

// String renders the canonical form of the expression.
func (e *LicenseExpr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *LicenseExpr) write(sb *strings.Builder) {
	switch e.Kind {
	case LicenseKindName:
		sb.WriteString(e.Name)
	case LicenseKindAnyOf:
		sb.WriteString("|| ( ")
		writeLicenseEntries(sb, e.Children)
		sb.WriteString(" )")
	case LicenseKindUseConditional:
		if e.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(e.Flag)
		sb.WriteString("? ( ")
		writeLicenseEntries(sb, e.Children)
		sb.WriteString(" )")
	case LicenseKindAll:
		writeLicenseEntries(sb, e.Children)
	}
}

func writeLicenseEntries(sb *strings.Builder, entries []*LicenseExpr) {
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		entry.write(sb)
	}
}
