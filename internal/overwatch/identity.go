package overwatch

import (
	"fmt"
	"regexp"
	"strings"
)

// battleTagPattern matches a PC identity: display name plus a numeric
// discriminator, e.g. "Zenyatta#11351".
var battleTagPattern = regexp.MustCompile(`^[A-Za-z0-9]+#[0-9]+$`)

// Identity is a player identity as supplied by the caller. A handle that
// matches the BattleTag grammar is inherently a PC identity; anything else is
// a console username whose platform must be resolved by probing.
type Identity struct {
	handle string
}

func NewIdentity(handle string) Identity {
	return Identity{handle: strings.TrimSpace(handle)}
}

func (i Identity) Handle() string { return i.handle }

// Validate rejects handles that can never resolve: the empty string, and
// handles that contain the discriminator separator without matching the full
// BattleTag grammar. A separator-free handle is always a valid console
// username.
func (i Identity) Validate() error {
	if i.handle == "" {
		return fmt.Errorf("%w: empty handle", ErrMalformedIdentity)
	}
	if strings.Contains(i.handle, "#") && !i.IsBattleTag() {
		return fmt.Errorf("%w: %q", ErrMalformedIdentity, i.handle)
	}
	return nil
}

// IsBattleTag reports whether the handle matches the name#digits grammar.
func (i Identity) IsBattleTag() bool {
	return battleTagPattern.MatchString(i.handle)
}

// URLToken returns the handle in career-URL form, with the discriminator
// separator replaced by a dash ("Zenyatta#11351" -> "Zenyatta-11351").
// It is only defined for BattleTags.
func (i Identity) URLToken() (string, error) {
	if !i.IsBattleTag() {
		return "", fmt.Errorf("%w: %q", ErrMalformedIdentity, i.handle)
	}
	return strings.Replace(i.handle, "#", "-", 1), nil
}

func (i Identity) String() string { return i.handle }
