package metadata

import "strings"

// Phase is an ebuild phase function, called by the package manager in a
// defined order during build and installation.
type Phase uint8

const (
	PhasePkgPretend Phase = iota // pkg_pretend — pre-flight checks (EAPI 4+)
	PhasePkgSetup                // pkg_setup — environment setup
	PhaseSrcUnpack               // src_unpack — extract source archives
	PhaseSrcPrepare              // src_prepare — apply patches (EAPI 2+)
	PhaseSrcConfigure            // src_configure — run configure (EAPI 2+)
	PhaseSrcCompile              // src_compile — build the software
	PhaseSrcTest                 // src_test — run the test suite
	PhaseSrcInstall              // src_install — install into the image dir
	PhasePkgPreinst              // pkg_preinst — before merging
	PhasePkgPostinst             // pkg_postinst — after merging
	PhasePkgPrerm                // pkg_prerm — before unmerging
	PhasePkgPostrm               // pkg_postrm — after unmerging
	PhasePkgConfig               // pkg_config — post-install configuration
	PhasePkgInfo                 // pkg_info — display package information
	PhasePkgNofetch              // pkg_nofetch — handle fetch-restricted sources
)

// ParsePhase parses a phase name. DEFINED_PHASES uses short names
// (without the pkg_/src_ prefix); full names are accepted too.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "pretend", "pkg_pretend":
		return PhasePkgPretend, nil
	case "setup", "pkg_setup":
		return PhasePkgSetup, nil
	case "unpack", "src_unpack":
		return PhaseSrcUnpack, nil
	case "prepare", "src_prepare":
		return PhaseSrcPrepare, nil
	case "configure", "src_configure":
		return PhaseSrcConfigure, nil
	case "compile", "src_compile":
		return PhaseSrcCompile, nil
	case "test", "src_test":
		return PhaseSrcTest, nil
	case "install", "src_install":
		return PhaseSrcInstall, nil
	case "preinst", "pkg_preinst":
		return PhasePkgPreinst, nil
	case "postinst", "pkg_postinst":
		return PhasePkgPostinst, nil
	case "prerm", "pkg_prerm":
		return PhasePkgPrerm, nil
	case "postrm", "pkg_postrm":
		return PhasePkgPostrm, nil
	case "config", "pkg_config":
		return PhasePkgConfig, nil
	case "info", "pkg_info":
		return PhasePkgInfo, nil
	case "nofetch", "pkg_nofetch":
		return PhasePkgNofetch, nil
	default:
		return 0, &Error{Kind: ErrInvalidPhase, Detail: s}
	}
}

// ParsePhaseLine parses a whitespace-separated DEFINED_PHASES line. The
// sentinel "-" (no phases defined) and the empty string both decode to an
// empty list.
func ParsePhaseLine(input string) ([]Phase, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == "-" {
		return nil, nil
	}
	fields := strings.Fields(trimmed)
	out := make([]Phase, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePhase(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// String returns the short form, as it appears in DEFINED_PHASES.
func (p Phase) String() string {
	switch p {
	case PhasePkgPretend:
		return "pretend"
	case PhasePkgSetup:
		return "setup"
	case PhaseSrcUnpack:
		return "unpack"
	case PhaseSrcPrepare:
		return "prepare"
	case PhaseSrcConfigure:
		return "configure"
	case PhaseSrcCompile:
		return "compile"
	case PhaseSrcTest:
		return "test"
	case PhaseSrcInstall:
		return "install"
	case PhasePkgPreinst:
		return "preinst"
	case PhasePkgPostinst:
		return "postinst"
	case PhasePkgPrerm:
		return "prerm"
	case PhasePkgPostrm:
		return "postrm"
	case PhasePkgConfig:
		return "config"
	case PhasePkgInfo:
		return "info"
	case PhasePkgNofetch:
		return "nofetch"
	default:
		return "unknown"
	}
}
