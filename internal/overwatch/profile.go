package overwatch

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Profile is the career data extracted from one page fetch. A refresh builds
// a complete new value and commits it in one assignment, so readers never
// observe a half-updated profile.
type Profile struct {
	Level            int
	Portrait         string
	Rank             int
	RankImage        string
	CasualStats      StatTable
	CompetitiveStats StatTable
	Achievements     []string
	FetchedAt        time.Time
}

// Player tracks one identity across refreshes: where its profile was last
// found and the last profile committed. A Player is not safe for concurrent
// use; callers serialize access.
type Player struct {
	client *Client

	identity   Identity
	platform   Platform
	region     Region
	priorities Priorities

	location ProfileLocation
	profile  Profile
	fetched  bool
}

type PlayerOption func(*Player)

// WithPlatform pins the platform axis so resolution skips platform probing.
// A BattleTag identity is PC regardless of this hint.
func WithPlatform(platform Platform) PlayerOption {
	return func(p *Player) { p.platform = platform }
}

// WithRegion pins the region axis for PC identities. Console identities
// ignore it.
func WithRegion(region Region) PlayerOption {
	return func(p *Player) { p.region = region }
}

// WithPriorities overrides the probing order for any axis left unpinned.
func WithPriorities(pri Priorities) PlayerOption {
	return func(p *Player) { p.priorities = pri }
}

func NewPlayer(client *Client, handle string, opts ...PlayerOption) *Player {
	p := &Player{client: client, identity: NewIdentity(handle)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Refresh resolves the identity, fetches the winning page and replaces the
// stored profile. With requireKnownLocation set it refuses to probe: the
// location must already be fully pinned, otherwise ErrLocationRequired is
// returned before any network traffic.
//
// On any failure the stored profile is left exactly as it was. A NotFound
// outcome additionally resets the location, so Platform and Region report
// Unknown until a later refresh finds the profile again.
func (p *Player) Refresh(ctx context.Context, requireKnownLocation bool) error {
	if requireKnownLocation {
		platform := p.platform
		if p.identity.IsBattleTag() {
			platform = PlatformPC
		}
		if platform == PlatformUnknown || (platform == PlatformPC && p.region == RegionUnknown) {
			return fmt.Errorf("%w: %s", ErrLocationRequired, p.identity)
		}
	}

	res, err := p.client.Resolve(ctx, p.identity, p.platform, p.region, p.priorities)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			p.platform = PlatformUnknown
			p.region = RegionUnknown
			p.location = ProfileLocation{}
		}
		return err
	}

	profile, err := extractProfile(res.Body)
	if err != nil {
		return err
	}
	// A page with no competitive placement still renders an empty section.
	if len(profile.CompetitiveStats) == 0 {
		profile.CompetitiveStats = nil
	}
	profile.FetchedAt = time.Now()

	p.platform = res.Location.Platform
	p.region = res.Location.Region
	p.location = res.Location
	p.profile = profile
	p.fetched = true
	return nil
}

// Profile returns the last committed profile and whether one exists.
func (p *Player) Profile() (Profile, bool) { return p.profile, p.fetched }

func (p *Player) Identity() Identity { return p.identity }

func (p *Player) Platform() Platform { return p.platform }

func (p *Player) Region() Region { return p.region }

// ProfileURL is the page address of the last successful resolve. Before the
// first resolve it is already known for a fully pinned location, and empty
// otherwise.
func (p *Player) ProfileURL() string {
	if p.location.URL != "" {
		return p.location.URL
	}
	platform := p.platform
	token := p.identity.handle
	if p.identity.IsBattleTag() {
		platform = PlatformPC
		token, _ = p.identity.URLToken()
	}
	if platform == PlatformUnknown || (platform == PlatformPC && p.region == RegionUnknown) {
		return ""
	}
	return p.client.profileURL(platform, p.region, token)
}

// LastRefresh is the commit time of the stored profile, zero until a refresh
// succeeds.
func (p *Player) LastRefresh() time.Time { return p.profile.FetchedAt }
