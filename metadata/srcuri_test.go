package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSrcURI_Plain(t *testing.T) {
	entries, err := ParseSrcURI("https://example.com/foo-1.0.tar.gz")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, SrcURIKindURI, e.Kind)
	assert.Equal(t, "https://example.com/foo-1.0.tar.gz", e.URL)
	assert.Equal(t, "foo-1.0.tar.gz", e.Filename)
	assert.Empty(t, e.Rename)
	assert.Equal(t, RestrictionNone, e.Restriction)
}

func TestParseSrcURI_Renamed(t *testing.T) {
	entries, err := ParseSrcURI("https://github.com/archive/v1.0.tar.gz -> foo-1.0.tar.gz")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, SrcURIKindURI, e.Kind)
	assert.Equal(t, "https://github.com/archive/v1.0.tar.gz", e.URL)
	assert.Equal(t, "foo-1.0.tar.gz", e.Rename)
	// A renamed entry carries no derived filename override.
	assert.Empty(t, e.Filename)
}

func TestParseSrcURI_RestrictionPrefixes(t *testing.T) {
	tests := []struct {
		input string
		want  Restriction
	}{
		{"fetch+https://example.com/foo.tar.gz", RestrictionFetch},
		{"mirror+https://example.com/foo.tar.gz", RestrictionMirror},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			entries, err := ParseSrcURI(tt.input)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Restriction)
			assert.Equal(t, "https://example.com/foo.tar.gz", entries[0].URL)
		})
	}
}

func TestParseSrcURI_RestrictedRenamed(t *testing.T) {
	entries, err := ParseSrcURI("fetch+https://github.com/archive/v1.0.tar.gz -> foo-1.0.tar.gz")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, RestrictionFetch, e.Restriction)
	assert.Equal(t, "https://github.com/archive/v1.0.tar.gz", e.URL)
	assert.Equal(t, "foo-1.0.tar.gz", e.Rename)
}

func TestParseSrcURI_UseConditional(t *testing.T) {
	entries, err := ParseSrcURI("!doc? ( https://example.com/minimal.tar.gz )")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, SrcURIKindUseConditional, e.Kind)
	assert.Equal(t, "doc", e.Flag)
	assert.True(t, e.Negated)
	assert.Len(t, e.Children, 1)
}

func TestParseSrcURI_BareGroupPreserved(t *testing.T) {
	entries, err := ParseSrcURI("( https://a.example/x.tgz https://b.example/y.tgz )")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, SrcURIKindGroup, entries[0].Kind)
	assert.Len(t, entries[0].Children, 2)
}

func TestParseSrcURI_Mixed(t *testing.T) {
	entries, err := ParseSrcURI("https://example.com/src.tar.gz ssl? ( https://example.com/ssl.patch )")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, SrcURIKindURI, entries[0].Kind)
	assert.Equal(t, SrcURIKindUseConditional, entries[1].Kind)
}

func TestParseSrcURI_Empty(t *testing.T) {
	entries, err := ParseSrcURI("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseSrcURI_UnterminatedConditional(t *testing.T) {
	_, err := ParseSrcURI("ssl? ( https://example.com/a.tgz")
	require.Error(t, err)

	var merr *Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrInvalidSrcURI, merr.Kind)
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/foo-1.0.tar.gz", "foo-1.0.tar.gz"},
		{"https://example.com/dl?file=x", "dl"},
		{"https://github.com/llvm/llvm-project/archive/llvmorg-10.0.0-rc1.tar.gz", "llvmorg-10.0.0-rc1.tar.gz"},
		{"plainfile.tgz", "plainfile.tgz"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, filenameFromURL(tt.url))
		})
	}
}

func TestSrcURIString(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain", "https://example.com/foo.tar.gz"},
		{"fetch restricted", "fetch+https://x/y.tar.gz"},
		{"renamed", "https://x/y.tar.gz -> z.tar.gz"},
		{"mirror restricted renamed", "mirror+https://example.com/foo.tar.gz -> bar.tar.gz"},
		{"conditional", "ssl? ( https://example.com/ssl.patch )"},
		{"group", "( https://a.example/x.tgz https://b.example/y.tgz )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseSrcURI(tt.in)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.in, entries[0].String())
		})
	}
}

func TestSrcURIRoundTrip(t *testing.T) {
	inputs := []string{
		"https://example.com/a.tar.gz https://example.com/b.tar.gz",
		"https://example.com/src.tar.gz ssl? ( https://example.com/ssl.patch )",
		"doc? ( ( https://a/x.pdf https://a/y.pdf ) )",
		"fetch+https://x/y.tar.gz -> z.tar.gz",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			entries, err := ParseSrcURI(input)
			require.NoError(t, err)

			rendered := ""
			for i, e := range entries {
				if i > 0 {
					rendered += " "
				}
				rendered += e.String()
			}
			reparsed, err := ParseSrcURI(rendered)
			require.NoError(t, err)
			assert.Equal(t, entries, reparsed)
		})
	}
}
