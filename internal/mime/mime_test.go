package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookupSupported(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"index.html", "text/html"},
		{"assets/app.js", "text/javascript"},
		{"img/logo.png", "image/png"},
		{"nested.min.js", "text/javascript"},
	}
	for _, tc := range cases {
		got, err := Lookup(tc.path)
		require.NoError(t, err, tc.path)
		require.Equal(t, tc.want, got, tc.path)
	}
}

func TestLookupUnsupported(t *testing.T) {
	for _, p := range []string{"style.css", "data.json", "README", "index.HTML", "archive.png.gz", "dir.html/"} {
		_, err := Lookup(p)
		require.ErrorIs(t, err, ErrUnsupported, p)
	}
}

func TestExtensions(t *testing.T) {
	require.Equal(t, []string{".html", ".js", ".png"}, Extensions())
}
