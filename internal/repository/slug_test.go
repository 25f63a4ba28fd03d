package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp!!", "acme-corp"},
		{"FinTech Innovators", "fintech-innovators"},
		{"  spaced   out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
		{"Символы & Co", "co"},
		{"123 Go", "123-go"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
