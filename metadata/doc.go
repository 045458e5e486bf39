// Package metadata reads and writes the Portage md5-cache record format.
//
// Ebuilds are bash scripts that need a full shell interpreter to evaluate.
// The metadata cache (metadata/md5-cache/<category>/<pkg>-<version>) stores
// the pre-computed result as flat KEY=VALUE lines, and that is what tooling
// consumes day-to-day. This package parses those records into structured
// values and serializes them back to the canonical line order.
//
// # Record Format
//
// One record per file, newline-separated KEY=VALUE lines in arbitrary
// order. DESCRIPTION and SLOT are mandatory; EAPI defaults to 0 when the
// line is absent; every other field defaults to empty. Unknown keys are
// ignored for forward compatibility.
//
// # Expression Values
//
// Several values are small expression languages sharing one bracketed,
// USE-conditional grammar shape:
//
//	LICENSE:       MIT || ( GPL-2 BSD ) ssl? ( openssl )
//	REQUIRED_USE:  ^^ ( gui qt gtk ) !static? ( ssl )
//	RESTRICT:      mirror !test? ( test )
//	SRC_URI:       fetch+https://x/a.tgz https://y/v1.tgz -> a-1.tgz
//
// Each parses into an owned expression tree whose String method renders
// the canonical form, so parse → String → parse is lossless.
//
// # Example
//
//	rec, err := metadata.ParseRecord(input)
//	if err != nil {
//		return err
//	}
//	fmt.Println(rec.Description, rec.Slot)
//	out := rec.Serialize()
//
// All parsers are pure functions over their input; concurrent use needs no
// coordination. Recursion depth follows the input's bracket nesting, so
// callers handling hostile input should bound nesting themselves.
package metadata
