package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLicense_Single(t *testing.T) {
	expr, err := ParseLicense("MIT")
	require.NoError(t, err)
	assert.Equal(t, License("MIT"), expr)
}

func TestParseLicense_Multiple(t *testing.T) {
	expr, err := ParseLicense("MIT BSD-2")
	require.NoError(t, err)
	require.Equal(t, LicenseKindAll, expr.Kind)
	require.Len(t, expr.Children, 2)
	assert.Equal(t, License("MIT"), expr.Children[0])
	assert.Equal(t, License("BSD-2"), expr.Children[1])
}

func TestParseLicense_AnyOf(t *testing.T) {
	expr, err := ParseLicense("|| ( MIT Apache-2.0 )")
	require.NoError(t, err)
	require.Equal(t, LicenseKindAnyOf, expr.Kind)
	assert.Len(t, expr.Children, 2)
}

func TestParseLicense_UseConditional(t *testing.T) {
	expr, err := ParseLicense("ssl? ( OpenSSL )")
	require.NoError(t, err)
	require.Equal(t, LicenseKindUseConditional, expr.Kind)
	assert.Equal(t, "ssl", expr.Flag)
	assert.False(t, expr.Negated)
	assert.Len(t, expr.Children, 1)
}

func TestParseLicense_ConditionalFlagWithAt(t *testing.T) {
	// License conditional flags may reference license groups via '@'.
	expr, err := ParseLicense("flag@name? ( MIT )")
	require.NoError(t, err)
	require.Equal(t, LicenseKindUseConditional, expr.Kind)
	assert.Equal(t, "flag@name", expr.Flag)
}

func TestParseLicense_Empty(t *testing.T) {
	expr, err := ParseLicense("")
	require.NoError(t, err)
	assert.Equal(t, LicenseKindAll, expr.Kind)
	assert.Empty(t, expr.Children)
}

func TestParseLicense_ValidNames(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"GPL-2+", "GPL-2+"},
		{"MIT_with_underscore", "MIT_with_underscore"},
		{"Apache-2.0-with-LLVM-exceptions", "Apache-2.0-with-LLVM-exceptions"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseLicense(tt.input)
			require.NoError(t, err)
			require.Equal(t, LicenseKindName, expr.Kind)
			assert.Equal(t, tt.want, expr.Name)
		})
	}
}

func TestParseLicense_InvalidLeadingChar(t *testing.T) {
	// A license name may contain but not start with '-', '.', '+'.
	for _, input := range []string{".license", "-GPL", "+MIT"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLicense(input)
			require.Error(t, err)
			var merr *Error
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, ErrInvalidLicense, merr.Kind)
		})
	}
}

func TestParseLicense_UnterminatedConditional(t *testing.T) {
	_, err := ParseLicense("ssl? ( OpenSSL")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "unterminated group", serr.Msg)
	assert.Equal(t, "USE conditional group", serr.Label)
}

func TestParseLicense_MissingConditionalGroup(t *testing.T) {
	// Once the '?' is seen the conditional is committed; no group means
	// a labelled error, not a fallback to a name parse.
	_, err := ParseLicense("ssl? OpenSSL")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "USE conditional group", serr.Label)
}

func TestParseLicense_UnterminatedAnyOf(t *testing.T) {
	_, err := ParseLicense("|| ( MIT")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "'||' group", serr.Label)
}

func TestParseLicense_BareGroupFlattens(t *testing.T) {
	expr, err := ParseLicense("( MIT BSD )")
	require.NoError(t, err)
	require.Equal(t, LicenseKindAll, expr.Kind)
	assert.Len(t, expr.Children, 2)
}

func TestLicenseString(t *testing.T) {
	tests := []struct {
		name string
		expr *LicenseExpr
		want string
	}{
		{"single", License("MIT"), "MIT"},
		{"any-of", LicenseAnyOf(License("MIT"), License("Apache-2.0")), "|| ( MIT Apache-2.0 )"},
		{"conditional", LicenseConditional("ssl", false, License("OpenSSL")), "ssl? ( OpenSSL )"},
		{"negated conditional", LicenseConditional("ssl", true, License("GPL-2")), "!ssl? ( GPL-2 )"},
		{"all", LicenseAll(License("MIT"), License("BSD")), "MIT BSD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestLicenseRoundTrip(t *testing.T) {
	inputs := []string{
		"MIT",
		"MIT BSD-2",
		"|| ( MIT Apache-2.0 )",
		"ssl? ( OpenSSL )",
		"!ssl? ( GPL-2 ) || ( MIT BSD )",
		"Apache-2.0-with-LLVM-exceptions UoI-NCSA",
		"|| ( MIT ssl? ( OpenSSL GPL-2 ) )",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			expr, err := ParseLicense(input)
			require.NoError(t, err)
			reparsed, err := ParseLicense(expr.String())
			require.NoError(t, err)
			assert.Equal(t, expr, reparsed)
		})
	}
}
