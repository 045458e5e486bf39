package metadata

import (
	"strings"

	"github.com/lu-zero/portage-metadata/depspec"
)

// Metadata holds the PMS-defined variables of one ebuild as stored in the
// cache. Description and Slot are always present after a successful
// parse; EAPI defaults to 0 when the line is absent; everything else is
// empty-as-default.
type Metadata struct {
	EAPI        EAPI
	Description string
	Slot        depspec.Slot

	Homepage    []string
	SrcURI      []*SrcURI
	License     *LicenseExpr // nil when LICENSE is absent or empty
	Keywords    []Keyword
	IUse        []IUse
	RequiredUse *RequiredUse // nil when REQUIRED_USE is absent or empty
	Restrict    []*Restrict
	Properties  []*Restrict

	Depend  []*depspec.Dep // DEPEND, build-time
	RDepend []*depspec.Dep // RDEPEND, runtime
	BDepend []*depspec.Dep // BDEPEND, build-host (EAPI 7+)
	PDepend []*depspec.Dep // PDEPEND, post-merge
	IDepend []*depspec.Dep // IDEPEND, install-time (EAPI 8+)

	Inherited     []string
	DefinedPhases []Phase
}

// EclassRef is one (eclass name, checksum) pair from the _eclasses_ line,
// used for cache invalidation.
type EclassRef struct {
	Name     string
	Checksum string
}

// Record is one parsed md5-cache file: the ebuild metadata plus the
// cache-only fields.
type Record struct {
	Metadata

	// MD5 is the checksum of the ebuild file (_md5_), empty when absent.
	MD5 string

	// Eclasses is the ordered inheritance list with checksums.
	Eclasses []EclassRef
}

// ParseRecord parses the full text of a cache file.
//
// Lines are KEY=VALUE pairs in arbitrary order; blank lines and unknown
// keys are ignored, and a repeated key keeps its last value. Parsing is
// all-or-nothing: the first field-level error aborts the whole parse.
func ParseRecord(input string) (*Record, error) {
	var (
		eapiLine        string
		haveEAPI        bool
		descriptionLine string
		haveDescription bool
		slotLine        string
		haveSlot        bool
		md5Line         string

		homepage, srcURI, license, keywords, iuse  string
		requiredUse, restrict, properties          string
		depend, rdepend, bdepend, pdepend, idepend string
		inherited, definedPhases, eclassesRaw      string
	)

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch key {
		case "EAPI":
			eapiLine, haveEAPI = value, true
		case "DESCRIPTION":
			descriptionLine, haveDescription = value, true
		case "SLOT":
			slotLine, haveSlot = value, true
		case "HOMEPAGE":
			homepage = value
		case "SRC_URI":
			srcURI = value
		case "LICENSE":
			license = value
		case "KEYWORDS":
			keywords = value
		case "IUSE":
			iuse = value
		case "REQUIRED_USE":
			requiredUse = value
		case "RESTRICT":
			restrict = value
		case "PROPERTIES":
			properties = value
		case "DEPEND":
			depend = value
		case "RDEPEND":
			rdepend = value
		case "BDEPEND":
			bdepend = value
		case "PDEPEND":
			pdepend = value
		case "IDEPEND":
			idepend = value
		case "INHERITED":
			inherited = value
		case "DEFINED_PHASES":
			definedPhases = value
		case "_md5_":
			md5Line = value
		case "_eclasses_":
			eclassesRaw = value
		default:
			// Unknown keys are ignored for forward compatibility.
		}
	}

	rec := &Record{MD5: md5Line}

	if haveEAPI {
		eapi, err := ParseEAPI(eapiLine)
		if err != nil {
			return nil, err
		}
		rec.EAPI = eapi
	} else {
		rec.EAPI = EAPI0
	}

	if !haveDescription {
		return nil, &Error{Kind: ErrMissingField, Field: "DESCRIPTION"}
	}
	rec.Description = descriptionLine

	if !haveSlot {
		return nil, &Error{Kind: ErrMissingField, Field: "SLOT"}
	}
	slot, err := parseSlot(slotLine)
	if err != nil {
		return nil, err
	}
	rec.Slot = slot

	if homepage != "" {
		rec.Homepage = strings.Fields(homepage)
	}
	if srcURI != "" {
		if rec.SrcURI, err = ParseSrcURI(srcURI); err != nil {
			return nil, err
		}
	}
	if license != "" {
		if rec.License, err = ParseLicense(license); err != nil {
			return nil, err
		}
	}
	if keywords != "" {
		if rec.Keywords, err = ParseKeywordLine(keywords); err != nil {
			return nil, err
		}
	}
	if iuse != "" {
		if rec.IUse, err = ParseIUseLine(iuse); err != nil {
			return nil, err
		}
	}
	if requiredUse != "" {
		if rec.RequiredUse, err = ParseRequiredUse(requiredUse); err != nil {
			return nil, err
		}
	}
	if restrict != "" {
		if rec.Restrict, err = ParseRestrict(restrict); err != nil {
			return nil, err
		}
	}
	if properties != "" {
		if rec.Properties, err = ParseRestrict(properties); err != nil {
			return nil, err
		}
	}

	if rec.Depend, err = parseDepField(depend); err != nil {
		return nil, err
	}
	if rec.RDepend, err = parseDepField(rdepend); err != nil {
		return nil, err
	}
	if rec.BDepend, err = parseDepField(bdepend); err != nil {
		return nil, err
	}
	if rec.PDepend, err = parseDepField(pdepend); err != nil {
		return nil, err
	}
	if rec.IDepend, err = parseDepField(idepend); err != nil {
		return nil, err
	}

	if inherited != "" {
		rec.Inherited = strings.Fields(inherited)
	}
	if rec.DefinedPhases, err = ParsePhaseLine(definedPhases); err != nil {
		return nil, err
	}
	rec.Eclasses = parseEclasses(eclassesRaw)

	return rec, nil
}

// parseSlot parses the SLOT mini-grammar: "slot" or "slot/subslot", split
// on the first '/'. An empty value counts as a missing field.
func parseSlot(s string) (depspec.Slot, error) {
	if s == "" {
		return depspec.Slot{}, &Error{Kind: ErrMissingField, Field: "SLOT"}
	}
	if slot, subslot, found := strings.Cut(s, "/"); found {
		return depspec.NewSlotSubslot(slot, subslot), nil
	}
	return depspec.NewSlot(s), nil
}

// parseDepField dispatches a dependency-class value to the depspec
// parser, wrapping its error.
func parseDepField(s string) ([]*depspec.Dep, error) {
	if s == "" {
		return nil, nil
	}
	entries, err := depspec.Parse(s)
	if err != nil {
		return nil, &Error{Kind: ErrDep, Detail: err.Error(), cause: err}
	}
	return entries, nil
}

// parseEclasses interprets the tab-separated _eclasses_ value two tokens
// at a time as (name, checksum). A trailing unpaired token is dropped.
func parseEclasses(s string) []EclassRef {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\t")
	out := make([]EclassRef, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		out = append(out, EclassRef{Name: parts[i], Checksum: parts[i+1]})
	}
	return out
}

// Serialize renders the record back to cache-file format in canonical
// line order, ending with a trailing newline. Empty optional fields are
// omitted; DEFINED_PHASES, DESCRIPTION, EAPI and SLOT are always emitted,
// with "-" standing in for an empty phase list.
func (r *Record) Serialize() string {
	var lines []string

	lines = append(lines, "DEFINED_PHASES="+formatPhases(r.DefinedPhases))

	if len(r.Depend) > 0 {
		lines = append(lines, "DEPEND="+formatDeps(r.Depend))
	}

	lines = append(lines, "DESCRIPTION="+r.Description)
	lines = append(lines, "EAPI="+r.EAPI.String())

	if len(r.Homepage) > 0 {
		lines = append(lines, "HOMEPAGE="+strings.Join(r.Homepage, " "))
	}
	if len(r.IUse) > 0 {
		parts := make([]string, len(r.IUse))
		for i, u := range r.IUse {
			parts[i] = u.String()
		}
		lines = append(lines, "IUSE="+strings.Join(parts, " "))
	}
	if len(r.Keywords) > 0 {
		parts := make([]string, len(r.Keywords))
		for i, k := range r.Keywords {
			parts[i] = k.String()
		}
		lines = append(lines, "KEYWORDS="+strings.Join(parts, " "))
	}
	if r.License != nil {
		lines = append(lines, "LICENSE="+r.License.String())
	}
	if len(r.PDepend) > 0 {
		lines = append(lines, "PDEPEND="+formatDeps(r.PDepend))
	}
	if len(r.RDepend) > 0 {
		lines = append(lines, "RDEPEND="+formatDeps(r.RDepend))
	}
	if r.RequiredUse != nil {
		lines = append(lines, "REQUIRED_USE="+r.RequiredUse.String())
	}
	if len(r.Restrict) > 0 {
		parts := make([]string, len(r.Restrict))
		for i, e := range r.Restrict {
			parts[i] = e.String()
		}
		lines = append(lines, "RESTRICT="+strings.Join(parts, " "))
	}

	lines = append(lines, "SLOT="+r.Slot.String())

	if len(r.SrcURI) > 0 {
		parts := make([]string, len(r.SrcURI))
		for i, e := range r.SrcURI {
			parts[i] = e.String()
		}
		lines = append(lines, "SRC_URI="+strings.Join(parts, " "))
	}
	if len(r.BDepend) > 0 {
		lines = append(lines, "BDEPEND="+formatDeps(r.BDepend))
	}
	if len(r.IDepend) > 0 {
		lines = append(lines, "IDEPEND="+formatDeps(r.IDepend))
	}
	if len(r.Properties) > 0 {
		parts := make([]string, len(r.Properties))
		for i, e := range r.Properties {
			parts[i] = e.String()
		}
		lines = append(lines, "PROPERTIES="+strings.Join(parts, " "))
	}
	if len(r.Inherited) > 0 {
		lines = append(lines, "INHERITED="+strings.Join(r.Inherited, " "))
	}
	if len(r.Eclasses) > 0 {
		parts := make([]string, 0, len(r.Eclasses)*2)
		for _, ec := range r.Eclasses {
			parts = append(parts, ec.Name, ec.Checksum)
		}
		lines = append(lines, "_eclasses_="+strings.Join(parts, "\t"))
	}
	if r.MD5 != "" {
		lines = append(lines, "_md5_="+r.MD5)
	}

	lines = append(lines, "") // trailing newline
	return strings.Join(lines, "\n")
}

func formatPhases(phases []Phase) string {
	if len(phases) == 0 {
		return "-"
	}
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

func formatDeps(entries []*depspec.Dep) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
