package overwatch

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityIsBattleTag(t *testing.T) {
	cases := []struct {
		handle string
		want   bool
	}{
		{"Zenyatta#11351", true},
		{"x9#1", true},
		{"Zenyatta", false},
		{"Zenyatta#", false},
		{"#11351", false},
		{"Zen yatta#11351", false},
		{"Zenyatta#11a51", false},
		{"", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NewIdentity(c.handle).IsBattleTag(), "handle %q", c.handle)
	}
}

func TestIdentityTrimsWhitespace(t *testing.T) {
	id := NewIdentity("  Zenyatta#11351\n")
	require.Equal(t, "Zenyatta#11351", id.Handle())
	require.True(t, id.IsBattleTag())
}

func TestIdentityURLToken(t *testing.T) {
	token, err := NewIdentity("Zenyatta#11351").URLToken()
	require.NoError(t, err)
	require.Equal(t, "Zenyatta-11351", token)

	_, err = NewIdentity("ConsoleName").URLToken()
	require.True(t, errors.Is(err, ErrMalformedIdentity))
}

func TestIdentityURLTokenRoundTrip(t *testing.T) {
	for _, handle := range []string{"Zenyatta#11351", "x9#1", "A1B2#007"} {
		token, err := NewIdentity(handle).URLToken()
		require.NoError(t, err)
		require.Equal(t, handle, strings.Replace(token, "-", "#", 1), "handle %q", handle)
	}
}

func TestIdentityValidate(t *testing.T) {
	require.NoError(t, NewIdentity("Zenyatta#11351").Validate())
	require.NoError(t, NewIdentity("Console Name").Validate())

	for _, handle := range []string{"", "   ", "Zenyatta#", "#11351", "a#b#c", "Zenyatta#one"} {
		err := NewIdentity(handle).Validate()
		require.True(t, errors.Is(err, ErrMalformedIdentity), "handle %q", handle)
	}
}
