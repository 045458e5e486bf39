package metadata

import "strconv"

// EAPI is the declared ebuild interface version. Each EAPI builds on the
// previous one, gating which metadata fields and grammar operators are
// meaningful.
//
// The predicates below are advisory lookups: the expression grammars
// accept operators from later EAPIs even under an older marker, and no
// secondary validation pass rejects them.
type EAPI uint8

const (
	EAPI0 EAPI = iota // base (legacy); the default when the field is absent
	EAPI1             // slot deps, IUSE defaults
	EAPI2             // SRC_URI arrows, src_prepare/src_configure
	EAPI3             // PROPERTIES, prefix support
	EAPI4             // REQUIRED_USE, pkg_pretend
	EAPI5             // sub-slots, slot operators, ?? in REQUIRED_USE
	EAPI6             // eapply/eapply_user
	EAPI7             // BDEPEND, SYSROOT/BROOT
	EAPI8             // IDEPEND, USE-conditional RESTRICT/PROPERTIES
	EAPI9             // selective URI restrictions
)

// ParseEAPI parses an EAPI value string ("0" through "9").
func ParseEAPI(s string) (EAPI, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return EAPI(s[0] - '0'), nil
	}
	return 0, &Error{Kind: ErrInvalidEAPI, Detail: s}
}

// String returns the EAPI digit.
func (e EAPI) String() string {
	return strconv.Itoa(int(e))
}

// HasBDepend reports whether BDEPEND (build-host dependencies) is
// supported. EAPI 7+.
func (e EAPI) HasBDepend() bool { return e >= EAPI7 }

// HasIDepend reports whether IDEPEND (install-time dependencies) is
// supported. EAPI 8+.
func (e EAPI) HasIDepend() bool { return e >= EAPI8 }

// HasRequiredUse reports whether REQUIRED_USE is supported. EAPI 4+.
func (e EAPI) HasRequiredUse() bool { return e >= EAPI4 }

// HasAtMostOneOf reports whether the `??` operator is supported in
// REQUIRED_USE. EAPI 5+.
func (e EAPI) HasAtMostOneOf() bool { return e >= EAPI5 }

// HasSrcPrepare reports whether the src_prepare and src_configure phases
// exist. EAPI 2+.
func (e EAPI) HasSrcPrepare() bool { return e >= EAPI2 }

// HasPkgPretend reports whether the pkg_pretend phase exists. EAPI 4+.
func (e EAPI) HasPkgPretend() bool { return e >= EAPI4 }

// HasSrcURIArrows reports whether SRC_URI arrow renaming (`-> filename`)
// is supported. EAPI 2+.
func (e EAPI) HasSrcURIArrows() bool { return e >= EAPI2 }

// HasSlotOperators reports whether sub-slots and slot operators (`:=`,
// `:*`) are supported. EAPI 5+.
func (e EAPI) HasSlotOperators() bool { return e >= EAPI5 }

// HasProperties reports whether PROPERTIES is supported. EAPI 3+.
func (e EAPI) HasProperties() bool { return e >= EAPI3 }

// HasUseConditionalRestrict reports whether RESTRICT and PROPERTIES may
// contain USE-conditional groups. EAPI 8+.
func (e EAPI) HasUseConditionalRestrict() bool { return e >= EAPI8 }

// HasSelectiveURIRestrictions reports whether `fetch+`/`mirror+` URI
// prefixes are supported. EAPI 8+.
func (e EAPI) HasSelectiveURIRestrictions() bool { return e >= EAPI8 }
