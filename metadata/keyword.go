package metadata

import "strings"

// Stability is the stability level of an architecture keyword.
type Stability uint8

const (
	// StabilityStable — the package is stable (e.g. amd64).
	StabilityStable Stability = iota
	// StabilityTesting — testing/unstable (e.g. ~amd64).
	StabilityTesting
	// StabilityDisabled — disabled on this architecture (e.g. -amd64).
	StabilityDisabled
	// StabilityDisabledAll — all architectures disabled (-*).
	StabilityDisabledAll
)

// Keyword is one entry from the KEYWORDS variable: an architecture name
// plus its stability classification.
type Keyword struct {
	Arch      string
	Stability Stability
}

// ParseKeyword parses a single keyword token.
func ParseKeyword(s string) (Keyword, error) {
	switch {
	case s == "":
		return Keyword{}, &Error{Kind: ErrInvalidKeyword, Detail: "empty keyword"}
	case s == "-*":
		return Keyword{Arch: "*", Stability: StabilityDisabledAll}, nil
	case s[0] == '~':
		if len(s) == 1 {
			return Keyword{}, &Error{Kind: ErrInvalidKeyword, Detail: s}
		}
		return Keyword{Arch: s[1:], Stability: StabilityTesting}, nil
	case s[0] == '-':
		if len(s) == 1 {
			return Keyword{}, &Error{Kind: ErrInvalidKeyword, Detail: s}
		}
		return Keyword{Arch: s[1:], Stability: StabilityDisabled}, nil
	default:
		return Keyword{Arch: s, Stability: StabilityStable}, nil
	}
}

// ParseKeywordLine parses a whitespace-separated KEYWORDS line.
func ParseKeywordLine(input string) ([]Keyword, error) {
	fields := strings.Fields(input)
	out := make([]Keyword, 0, len(fields))
	for _, f := range fields {
		kw, err := ParseKeyword(f)
		if err != nil {
			return nil, err
		}
		out = append(out, kw)
	}
	return out, nil
}

// String renders the keyword with its stability prefix.
func (k Keyword) String() string {
	switch k.Stability {
	case StabilityTesting:
		return "~" + k.Arch
	case StabilityDisabled:
		return "-" + k.Arch
	case StabilityDisabledAll:
		return "-*"
	default:
		return k.Arch
	}
}
