package overwatch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public career site root. Candidate page addresses are
// built by appending platform, region and handle segments to it.
const DefaultBaseURL = "https://playoverwatch.com/en-us/career"

// Client resolves identities to career pages. It holds no per-player state;
// one client serves any number of concurrent resolutions.
type Client struct {
	baseURL   string
	transport Transport
	logger    zerolog.Logger
}

type Option func(*Client)

// WithTransport replaces the fasthttp transport, primarily for tests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  zerolog.Nop(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewTransport()
	}
	return c
}

// profileURL builds a candidate page address. PC pages carry a region
// segment between platform and handle; console pages do not. Console
// usernames may contain spaces, so the token is path-escaped.
func (c *Client) profileURL(platform Platform, region Region, token string) string {
	token = url.PathEscape(token)
	if platform == PlatformPC {
		return fmt.Sprintf("%s/%s/%s/%s", c.baseURL, platform, region, token)
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, platform, token)
}

// Resolution is a successful resolve: the location that answered and the page
// body it answered with. The body is handed straight to extraction so a hit
// is never fetched twice.
type Resolution struct {
	Location ProfileLocation
	Body     []byte
}

// Resolve locates the career page for id. A known platform (and, for PC, a
// known region) pins that axis to a single candidate; an unknown axis is
// probed sequentially in priority order, stopping at the first hit. A
// BattleTag is inherently a PC identity and overrides any platform hint.
//
// Probes are strictly ordered and never concurrent, so the first hit is
// always the highest-priority one. Transport failures abort resolution
// immediately; they are never counted as misses.
func (c *Client) Resolve(ctx context.Context, id Identity, platform Platform, region Region, pri Priorities) (Resolution, error) {
	if err := id.Validate(); err != nil {
		return Resolution{}, err
	}
	pri = pri.withDefaults()

	token := id.Handle()
	if id.IsBattleTag() {
		token, _ = id.URLToken()
		platform = PlatformPC
	}

	if platform == PlatformPC {
		if region != RegionUnknown {
			return c.fetchAt(ctx, ProfileLocation{Platform: PlatformPC, Region: region}, token, id)
		}
		return c.probeRegions(ctx, token, id, pri.Regions)
	}
	if platform != PlatformUnknown {
		return c.fetchAt(ctx, ProfileLocation{Platform: platform}, token, id)
	}
	return c.probePlatforms(ctx, token, id, pri)
}

// fetchAt fetches the single candidate page for a fully pinned location.
// Only a 404 means the profile does not live there.
func (c *Client) fetchAt(ctx context.Context, loc ProfileLocation, token string, id Identity) (Resolution, error) {
	loc.URL = c.profileURL(loc.Platform, loc.Region, token)
	status, body, err := c.fetch(ctx, loc.URL)
	if err != nil {
		return Resolution{}, err
	}
	if status == http.StatusNotFound {
		return Resolution{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return Resolution{Location: loc, Body: body}, nil
}

// probePlatforms walks the platform priority order until a candidate answers
// with a 2xx. The PC candidate targets the highest-priority region, which is
// adopted along with the platform on a hit.
func (c *Client) probePlatforms(ctx context.Context, token string, id Identity, pri Priorities) (Resolution, error) {
	for _, platform := range pri.Platforms {
		region := RegionUnknown
		if platform == PlatformPC {
			region = pri.Regions[0]
		}
		url := c.profileURL(platform, region, token)
		status, body, err := c.fetch(ctx, url)
		if err != nil {
			return Resolution{}, err
		}
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			c.logger.Debug().
				Str("handle", id.Handle()).
				Str("platform", string(platform)).
				Int("status", status).
				Msg("platform probe miss")
			continue
		}
		return Resolution{
			Location: ProfileLocation{Platform: platform, Region: region, URL: url},
			Body:     body,
		}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}

// probeRegions walks the region priority order for a PC identity. The career
// site serves non-404 pages for regions the player merely visited, so any
// status other than 404 counts as a hit.
func (c *Client) probeRegions(ctx context.Context, token string, id Identity, regions []Region) (Resolution, error) {
	for _, region := range regions {
		url := c.profileURL(PlatformPC, region, token)
		status, body, err := c.fetch(ctx, url)
		if err != nil {
			return Resolution{}, err
		}
		if status == http.StatusNotFound {
			c.logger.Debug().
				Str("handle", id.Handle()).
				Str("region", string(region)).
				Msg("region probe miss")
			continue
		}
		return Resolution{
			Location: ProfileLocation{Platform: PlatformPC, Region: region, URL: url},
			Body:     body,
		}, nil
	}
	return Resolution{}, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
}

func (c *Client) fetch(ctx context.Context, url string) (int, []byte, error) {
	status, body, err := c.transport.Get(ctx, url)
	if err != nil {
		return 0, nil, &TransportError{URL: url, Err: err}
	}
	return status, body, nil
}
