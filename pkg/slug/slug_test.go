package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already clean", in: "acme-corp-2024", want: "acme-corp-2024"},
		{name: "uppercase and punctuation", in: "Acme Corp!! 2024", want: "acme-corp-2024"},
		{name: "collapses dash runs", in: "a---b___c", want: "a-b-c"},
		{name: "trims edges", in: "  --hello--  ", want: "hello"},
		{name: "unicode rewritten", in: "café proposta", want: "caf-proposta"},
		{name: "single char", in: "x", want: "x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Sanitize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSanitizeRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!", "---", strings.Repeat("a", 101)} {
		_, err := Sanitize(in)
		assert.ErrorIs(t, err, ErrInvalidSlug, "input %q", in)
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"Acme Corp!! 2024", "Hello, World", "a---b", "FT 2026 / Q1", "ação & reação"}
	for _, in := range inputs {
		once, err := Sanitize(in)
		require.NoError(t, err)
		twice, err := Sanitize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestSanitizeLengthBoundary(t *testing.T) {
	got, err := Sanitize(strings.Repeat("a", 100))
	require.NoError(t, err)
	assert.Len(t, got, 100)
}
