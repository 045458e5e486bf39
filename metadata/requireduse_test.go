package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiredUse_Flags(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		negated bool
	}{
		{"ssl", "ssl", false},
		{"!debug", "debug", true},
		{"python_targets_python3_11", "python_targets_python3_11", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseRequiredUse(tt.input)
			require.NoError(t, err)
			require.Equal(t, RequiredUseKindFlag, expr.Kind)
			assert.Equal(t, tt.name, expr.Name)
			assert.Equal(t, tt.negated, expr.Negated)
		})
	}
}

func TestParseRequiredUse_Groups(t *testing.T) {
	tests := []struct {
		input    string
		kind     RequiredUseKind
		children int
	}{
		{"|| ( flag1 flag2 )", RequiredUseKindAnyOf, 2},
		{"^^ ( gui qt gtk )", RequiredUseKindExactlyOne, 3},
		{"?? ( flag1 flag2 )", RequiredUseKindAtMostOne, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := ParseRequiredUse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, expr.Kind)
			assert.Len(t, expr.Children, tt.children)
		})
	}
}

func TestParseRequiredUse_UseConditional(t *testing.T) {
	expr, err := ParseRequiredUse("ssl? ( gnutls )")
	require.NoError(t, err)
	require.Equal(t, RequiredUseKindUseConditional, expr.Kind)
	assert.Equal(t, "ssl", expr.Flag)
	assert.False(t, expr.Negated)
	require.Len(t, expr.Children, 1)
	assert.Equal(t, RequiredUseFlag("gnutls", false), expr.Children[0])
}

func TestParseRequiredUse_Nested(t *testing.T) {
	expr, err := ParseRequiredUse("gui? ( ^^ ( qt gtk ) ) !static? ( ssl )")
	require.NoError(t, err)
	require.Equal(t, RequiredUseKindAll, expr.Kind)
	require.Len(t, expr.Children, 2)
	assert.Equal(t, RequiredUseKindUseConditional, expr.Children[0].Kind)
	assert.Equal(t, RequiredUseKindExactlyOne, expr.Children[0].Children[0].Kind)
	assert.True(t, expr.Children[1].Negated)
}

func TestParseRequiredUse_Empty(t *testing.T) {
	expr, err := ParseRequiredUse("")
	require.NoError(t, err)
	assert.Equal(t, RequiredUseKindAll, expr.Kind)
	assert.Empty(t, expr.Children)
}

func TestParseRequiredUse_UnterminatedGroup(t *testing.T) {
	tests := []struct {
		input string
		label string
	}{
		{"|| ( a b", "'||' group"},
		{"^^ ( a b", "'^^' group"},
		{"?? ( a b", "'??' group"},
		{"ssl? ( a", "USE conditional group"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRequiredUse(tt.input)
			require.Error(t, err)

			var serr *SyntaxError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, "unterminated group", serr.Msg)
			assert.Equal(t, tt.label, serr.Label)

			var merr *Error
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, ErrInvalidRequiredUse, merr.Kind)
		})
	}
}

func TestParseRequiredUse_TrailingGarbage(t *testing.T) {
	_, err := ParseRequiredUse("flag )")
	require.Error(t, err)

	var serr *SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 5, serr.Offset)
}

func TestRequiredUseString(t *testing.T) {
	tests := []struct {
		name string
		expr *RequiredUse
		want string
	}{
		{"flag", RequiredUseFlag("ssl", false), "ssl"},
		{"negated flag", RequiredUseFlag("debug", true), "!debug"},
		{"any-of", RequiredUseAnyOf(RequiredUseFlag("a", false), RequiredUseFlag("b", false)), "|| ( a b )"},
		{"exactly-one", RequiredUseExactlyOne(RequiredUseFlag("qt", false), RequiredUseFlag("gtk", false)), "^^ ( qt gtk )"},
		{"at-most-one", RequiredUseAtMostOne(RequiredUseFlag("a", false), RequiredUseFlag("b", false)), "?? ( a b )"},
		{"conditional", RequiredUseConditional("ssl", true, RequiredUseFlag("gnutls", false)), "!ssl? ( gnutls )"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.String())
		})
	}
}

func TestRequiredUseRoundTrip(t *testing.T) {
	inputs := []string{
		"ssl",
		"!debug",
		"|| ( flag1 flag2 )",
		"^^ ( gui qt gtk )",
		"?? ( a b )",
		"ssl? ( gnutls )",
		"gui? ( ^^ ( qt gtk ) ) !static? ( ssl )",
		"|| ( python_targets_python3_6 python_targets_python3_7 )",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			expr, err := ParseRequiredUse(input)
			require.NoError(t, err)
			reparsed, err := ParseRequiredUse(expr.String())
			require.NoError(t, err)
			assert.Equal(t, expr, reparsed)
		})
	}
}
