package metadata

import "strings"

// SrcURIKind discriminates SrcURI nodes.
type SrcURIKind uint8

const (
	// SrcURIKindURI is a download URI, optionally renamed via `-> target`
	// and optionally carrying a fetch/mirror restriction prefix.
	SrcURIKindURI SrcURIKind = iota
	// SrcURIKindUseConditional is `[!]flag? ( ... )`.
	SrcURIKindUseConditional
	// SrcURIKindGroup is a bare parenthesized group, preserved as written.
	SrcURIKindGroup
)

// Restriction is a selective URI restriction prefix (EAPI 8+).
type Restriction uint8

const (
	RestrictionNone Restriction = iota
	RestrictionFetch
	RestrictionMirror
)

// String returns the prefix form, without the trailing '+'.
func (r Restriction) String() string {
	switch r {
	case RestrictionFetch:
		return "fetch"
	case RestrictionMirror:
		return "mirror"
	default:
		return ""
	}
}

// SrcURI is a node in a SRC_URI expression.
//
// For SrcURIKindURI, Rename is set when the entry uses EAPI 2+ arrow
// renaming (`url -> target`); otherwise Filename holds the name derived
// from the URL so consumers need not re-derive it.
type SrcURI struct {
	Kind        SrcURIKind
	URL         string
	Filename    string // derived from URL; empty when Rename is set
	Rename      string // explicit `-> target`, empty when absent
	Restriction Restriction
	Flag        string // SrcURIKindUseConditional
	Negated     bool   // SrcURIKindUseConditional: true for !flag?
	Children    []*SrcURI
}

// SrcURIPlain creates a plain URI node with its derived filename.
func SrcURIPlain(url string, restriction Restriction) *SrcURI {
	return &SrcURI{
		Kind:        SrcURIKindURI,
		URL:         url,
		Filename:    filenameFromURL(url),
		Restriction: restriction,
	}
}

// SrcURIRenamed creates a `url -> target` node.
func SrcURIRenamed(url, target string, restriction Restriction) *SrcURI {
	return &SrcURI{
		Kind:        SrcURIKindURI,
		URL:         url,
		Rename:      target,
		Restriction: restriction,
	}
}

// SrcURIConditional creates a `[!]flag? ( ... )` node.
func SrcURIConditional(flag string, negated bool, entries ...*SrcURI) *SrcURI {
	return &SrcURI{Kind: SrcURIKindUseConditional, Flag: flag, Negated: negated, Children: entries}
}

// SrcURIGroup creates a bare parenthesized group node.
func SrcURIGroup(entries ...*SrcURI) *SrcURI {
	return &SrcURI{Kind: SrcURIKindGroup, Children: entries}
}

// filenameFromURL takes the text after the last '/', truncated at the
// first '?'.
func filenameFromURL(url string) string {
	name := url
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return name
}

func isURIChar(c byte) bool {
	if isAlnum(c) {
		return true
	}
	switch c {
	case ':', '/', '.', '-', '_', '~', '$', '&', '\'', '*', '+', ',', ';', '=', '%', '@', '#', '?':
		return true
	}
	return false
}

func isFilenameChar(c byte) bool {
	return isAlnum(c) || c == '.' || c == '-' || c == '_' || c == '+'
}

var srcURIGrammar = &grammar[*SrcURI]{
	flagChar: isUseFlagChar,
	atom: func(sc *scanner) (*SrcURI, bool, error) {
		start := sc.pos
		// Restriction prefixes bind tighter than the URI charset, which
		// itself admits '+'.
		restriction := RestrictionNone
		if sc.literal("fetch+") {
			restriction = RestrictionFetch
		} else if sc.literal("mirror+") {
			restriction = RestrictionMirror
		}
		url := sc.takeWhile(isURIChar)
		if url == "" {
			sc.pos = start
			return nil, false, nil
		}
		// Optional arrow rename: `-> target`. Backtracks cleanly when the
		// arrow or target is absent.
		save := sc.pos
		sc.skipSpace()
		if sc.literal("->") {
			sc.skipSpace()
			if target := sc.takeWhile(isFilenameChar); target != "" {
				return SrcURIRenamed(url, target, restriction), true, nil
			}
		}
		sc.pos = save
		return SrcURIPlain(url, restriction), true, nil
	},
	conditional: func(flag string, negated bool, children []*SrcURI) *SrcURI {
		return SrcURIConditional(flag, negated, children...)
	},
	bareGroup: func(children []*SrcURI) []*SrcURI {
		// SRC_URI legitimately nests unconditioned groups for
		// readability; preserve them.
		return []*SrcURI{SrcURIGroup(children...)}
	},
}

// ParseSrcURI parses a SRC_URI expression string into an ordered entry
// list.
func ParseSrcURI(input string) ([]*SrcURI, error) {
	entries, err := srcURIGrammar.parse(input)
	if err != nil {
		return nil, newExprError(ErrInvalidSrcURI, err)
	}
	return entries, nil
}

// String renders the canonical form of the entry.
func (e *SrcURI) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *SrcURI) write(sb *strings.Builder) {
	switch e.Kind {
	case SrcURIKindURI:
		if e.Restriction != RestrictionNone {
			sb.WriteString(e.Restriction.String())
			sb.WriteByte('+')
		}
		sb.WriteString(e.URL)
		if e.Rename != "" {
			sb.WriteString(" -> ")
			sb.WriteString(e.Rename)
		}
	case SrcURIKindUseConditional:
		if e.Negated {
			sb.WriteByte('!')
		}
		sb.WriteString(e.Flag)
		sb.WriteString("? ( ")
		writeSrcURIEntries(sb, e.Children)
		sb.WriteString(" )")
	case SrcURIKindGroup:
		sb.WriteString("( ")
		writeSrcURIEntries(sb, e.Children)
		sb.WriteString(" )")
	}
}

func writeSrcURIEntries(sb *strings.Builder, entries []*SrcURI) {
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		entry.write(sb)
	}
}
