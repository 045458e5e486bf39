package metadata

import "strings"

// IUseDefault is the optional default state of a declared USE flag.
type IUseDefault uint8

const (
	// IUseDefaultNone — no prefix, no declared default.
	IUseDefaultNone IUseDefault = iota
	// IUseDefaultEnabled — `+flag`, enabled by default.
	IUseDefaultEnabled
	// IUseDefaultDisabled — `-flag`, disabled by default.
	IUseDefaultDisabled
)

// IUse is one USE flag declaration from the IUSE variable.
type IUse struct {
	Name    string
	Default IUseDefault
}

// ParseIUse parses a single IUSE token.
func ParseIUse(s string) (IUse, error) {
	if s == "" {
		return IUse{}, &Error{Kind: ErrInvalidIUse, Detail: "empty IUSE entry"}
	}
	switch s[0] {
	case '+':
		if len(s) == 1 {
			return IUse{}, &Error{Kind: ErrInvalidIUse, Detail: s}
		}
		return IUse{Name: s[1:], Default: IUseDefaultEnabled}, nil
	case '-':
		if len(s) == 1 {
			return IUse{}, &Error{Kind: ErrInvalidIUse, Detail: s}
		}
		return IUse{Name: s[1:], Default: IUseDefaultDisabled}, nil
	default:
		return IUse{Name: s}, nil
	}
}

// ParseIUseLine parses a whitespace-separated IUSE line.
func ParseIUseLine(input string) ([]IUse, error) {
	fields := strings.Fields(input)
	out := make([]IUse, 0, len(fields))
	for _, f := range fields {
		flag, err := ParseIUse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, flag)
	}
	return out, nil
}

// String renders the flag with its default prefix.
func (u IUse) String() string {
	switch u.Default {
	case IUseDefaultEnabled:
		return "+" + u.Name
	case IUseDefaultDisabled:
		return "-" + u.Name
	default:
		return u.Name
	}
}
