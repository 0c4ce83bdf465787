package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"ab\x00cd\x01\x02\n\txy": "abcd\n\txy",
		"\uFEFFLease\uFFFD term": "Lease term",
		"  \x7fpage 1\r\n  ":     "page 1",
		"":                       "",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeText(in), "%q", in)
	}
}
