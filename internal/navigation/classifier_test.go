package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Result
	}{
		// Internal
		{"conversation", "https://www.messenger.com/t/12345", InternalResult},
		{"apex", "https://messenger.com", InternalResult},
		{"static subdomain", "https://static.xx.messenger.com/rsrc.php/v3/a.js", InternalResult},
		{"uppercase host", "https://WWW.MESSENGER.COM/t/1", InternalResult},
		{"token in path", "https://www.facebook.com/login/messenger.com/", InternalResult},

		// Indirection links
		{"messenger indirection", "https://l.messenger.com/l.php?u=https%3A%2F%2Fexample.com", ExternalResult("https://example.com")},
		{"facebook indirection", "https://l.facebook.com/l.php?u=https%3A%2F%2Fexample.com%2Fa%3Fb%3D1&h=AT0", ExternalResult("https://example.com/a?b=1")},
		{"indirection wrapping messenger", "https://l.messenger.com/l.php?u=https%3A%2F%2Fwww.messenger.com%2Ft%2F1", ExternalResult("https://www.messenger.com/t/1")},
		{"indirection other path", "https://l.messenger.com/anything/else?u=https%3A%2F%2Fgo.dev", ExternalResult("https://go.dev")},
		{"indirection without u", "https://l.messenger.com/l.php?h=AT0", ExternalResult("https://l.messenger.com/l.php?h=AT0")},
		{"indirection empty u", "https://l.facebook.com/l.php?u=", ExternalResult("https://l.facebook.com/l.php?u=")},

		// External
		{"other site", "https://example.com/page", ExternalResult("https://example.com/page")},
		{"facebook", "https://www.facebook.com/profile", ExternalResult("https://www.facebook.com/profile")},
		{"token only in query", "https://example.com/?q=messenger.com", ExternalResult("https://example.com/?q=messenger.com")},
		{"mailto", "mailto:someone@example.com", ExternalResult("mailto:someone@example.com")},

		// Malformed fails open
		{"empty", "", InternalResult},
		{"no scheme", "not a url", InternalResult},
		{"missing scheme", "://example.com", InternalResult},
		{"bad ipv6", "http://[::1", InternalResult},
		{"bad escape", "https://example.com/%zz", InternalResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}

func TestClassify_IndirectionTargetIgnoresHostPath(t *testing.T) {
	for _, host := range IndirectionHosts {
		for _, path := range []string{"/", "/l.php", "/deep/nested/path", ""} {
			raw := "https://" + host + path + "?u=https%3A%2F%2Fexample.org%2Fx"
			assert.Equal(t, ExternalResult("https://example.org/x"), Classify(raw), raw)
		}
	}
}

func TestParse(t *testing.T) {
	u, err := Parse("  https://www.messenger.com/t/1  ")
	require.NoError(t, err)
	assert.Equal(t, "www.messenger.com", u.Hostname())

	_, err = Parse("relative/path")
	assert.ErrorIs(t, err, ErrMalformedURL)

	_, err = Parse("http://[::1")
	assert.ErrorIs(t, err, ErrMalformedURL)
}

func TestUnwrap(t *testing.T) {
	u, err := Parse("https://l.facebook.com/l.php?u=https%3A%2F%2Fexample.com")
	require.NoError(t, err)
	target, ok := Unwrap(u)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", target)

	u, err = Parse("https://www.messenger.com/l.php?u=https%3A%2F%2Fexample.com")
	require.NoError(t, err)
	_, ok = Unwrap(u)
	assert.False(t, ok, "only indirection hosts are unwrapped")
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "internal", InternalResult.String())
	assert.Equal(t, "external(https://a.example)", ExternalResult("https://a.example").String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
