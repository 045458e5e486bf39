package metadata

// ErrorKind classifies metadata parsing failures.
type ErrorKind uint8

const (
	ErrInvalidEAPI ErrorKind = iota
	ErrInvalidKeyword
	ErrInvalidIUse
	ErrInvalidPhase
	ErrInvalidSrcURI
	ErrInvalidLicense
	ErrInvalidRequiredUse
	ErrInvalidRestrict
	ErrInvalidRecord
	ErrMissingField
	ErrDep
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidEAPI:
		return "invalid-eapi"
	case ErrInvalidKeyword:
		return "invalid-keyword"
	case ErrInvalidIUse:
		return "invalid-iuse"
	case ErrInvalidPhase:
		return "invalid-phase"
	case ErrInvalidSrcURI:
		return "invalid-src-uri"
	case ErrInvalidLicense:
		return "invalid-license"
	case ErrInvalidRequiredUse:
		return "invalid-required-use"
	case ErrInvalidRestrict:
		return "invalid-restrict"
	case ErrInvalidRecord:
		return "invalid-record"
	case ErrMissingField:
		return "missing-field"
	case ErrDep:
		return "dep-error"
	default:
		return "unknown"
	}
}

// Error is the typed error returned by all parsers in this package.
//
// Detail carries the offending value or a human-readable description.
// Field is set for ErrMissingField. Expression failures wrap a
// *SyntaxError carrying the byte offset and group label, reachable via
// errors.As; ErrDep wraps the depspec parser's error.
type Error struct {
	Kind   ErrorKind
	Detail string
	Field  string

	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrInvalidEAPI:
		return "invalid EAPI: " + e.Detail
	case ErrInvalidKeyword:
		return "invalid keyword: " + e.Detail
	case ErrInvalidIUse:
		return "invalid IUSE entry: " + e.Detail
	case ErrInvalidPhase:
		return "invalid phase: " + e.Detail
	case ErrInvalidSrcURI:
		return "invalid SRC_URI: " + e.Detail
	case ErrInvalidLicense:
		return "invalid LICENSE: " + e.Detail
	case ErrInvalidRequiredUse:
		return "invalid REQUIRED_USE: " + e.Detail
	case ErrInvalidRestrict:
		return "invalid RESTRICT/PROPERTIES: " + e.Detail
	case ErrInvalidRecord:
		return "invalid cache record: " + e.Detail
	case ErrMissingField:
		return "missing required field: " + e.Field
	case ErrDep:
		return "dependency parse error: " + e.Detail
	default:
		return e.Detail
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// newExprError wraps an expression syntax error under the given kind.
func newExprError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Detail: err.Error(), cause: err}
}
