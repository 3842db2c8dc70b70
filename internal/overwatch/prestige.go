package overwatch

import (
	"fmt"
	"regexp"
)

// borderTokenPattern pulls the border asset id out of the player-level
// node's inline background-image style.
var borderTokenPattern = regexp.MustCompile(`playerlevelrewards/(0x[0-9A-Fa-f]{16})_Border`)

// prestigeOffsets maps a level border asset to the levels it stands for. The
// page shows only the level within the current hundred; the border encodes
// the hundreds. The table is a snapshot of the site's assets, so a token
// missing from it means the site shipped new borders and the snapshot is
// stale.
var prestigeOffsets = map[string]int{
	// Plain borders.
	"0x0250000000000918": 0,
	"0x0250000000000919": 100,
	"0x025000000000091A": 200,
	"0x025000000000091B": 300,
	"0x025000000000091C": 400,
	"0x025000000000091D": 500,
	// One star.
	"0x0250000000000922": 600,
	"0x0250000000000924": 700,
	"0x0250000000000925": 800,
	"0x0250000000000926": 900,
	"0x0250000000000927": 1000,
	"0x0250000000000928": 1100,
	// Two stars.
	"0x025000000000092B": 1200,
	"0x025000000000092C": 1300,
	"0x025000000000092D": 1400,
	"0x025000000000092E": 1500,
	"0x025000000000092F": 1600,
	"0x0250000000000930": 1700,
}

// prestigeOffset resolves the border referenced by a player-level style
// attribute against the offset table. No border means no prestige, but a
// border the table does not know is an error the caller must surface.
func prestigeOffset(style string) (int, error) {
	m := borderTokenPattern.FindStringSubmatch(style)
	if m == nil {
		return 0, nil
	}
	offset, ok := prestigeOffsets[m[1]]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPrestigeTier, m[1])
	}
	return offset, nil
}
