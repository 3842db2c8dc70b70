package overwatch

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://ow.test/career"

type fakeResponse struct {
	status int
	body   string
	err    error
}

// fakeTransport serves canned responses by URL and records every call in
// order. Unconfigured URLs answer 404, which is the probe-miss status on
// both axes.
type fakeTransport struct {
	responses map[string]fakeResponse
	calls     []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: map[string]fakeResponse{}}
}

func (f *fakeTransport) serve(url string, status int, body string) {
	f.responses[url] = fakeResponse{status: status, body: body}
}

func (f *fakeTransport) fail(url string, err error) {
	f.responses[url] = fakeResponse{err: err}
}

func (f *fakeTransport) Get(_ context.Context, url string) (int, []byte, error) {
	f.calls = append(f.calls, url)
	r, ok := f.responses[url]
	if !ok {
		return http.StatusNotFound, []byte("not found"), nil
	}
	if r.err != nil {
		return 0, nil, r.err
	}
	return r.status, []byte(r.body), nil
}

func newTestClient(ft *fakeTransport) *Client {
	return NewClient(testBaseURL, WithTransport(ft))
}

func TestResolveBattleTagIsAlwaysPC(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/pc/us/Fareeha-2187", http.StatusOK, "pc us page")

	client := newTestClient(ft)
	// The console hint must lose to the BattleTag grammar.
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha#2187"), PlatformXbox, RegionUnknown, Priorities{})
	require.NoError(t, err)
	require.Equal(t, PlatformPC, res.Location.Platform)
	require.Equal(t, RegionUS, res.Location.Region)
	require.Equal(t, testBaseURL+"/pc/us/Fareeha-2187", res.Location.URL)
	require.Equal(t, "pc us page", string(res.Body))
	require.Equal(t, []string{testBaseURL + "/pc/us/Fareeha-2187"}, ft.calls)
}

func TestResolvePlatformProbeStopsAtFirstHit(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/xbl/Fareeha", http.StatusOK, "xbl page")
	ft.serve(testBaseURL+"/psn/Fareeha", http.StatusOK, "psn page")

	client := newTestClient(ft)
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformUnknown, RegionUnknown, Priorities{})
	require.NoError(t, err)
	require.Equal(t, PlatformXbox, res.Location.Platform)
	require.Equal(t, RegionUnknown, res.Location.Region)
	require.Equal(t, "xbl page", string(res.Body))
	require.Equal(t, []string{
		testBaseURL + "/pc/us/Fareeha",
		testBaseURL + "/xbl/Fareeha",
	}, ft.calls)
}

func TestResolvePlatformProbeUsesTopRegion(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/pc/kr/Fareeha", http.StatusOK, "kr page")

	client := newTestClient(ft)
	pri := Priorities{Regions: []Region{RegionKR, RegionUS}}
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformUnknown, RegionUnknown, pri)
	require.NoError(t, err)
	require.Equal(t, PlatformPC, res.Location.Platform)
	require.Equal(t, RegionKR, res.Location.Region)
	require.Equal(t, []string{testBaseURL + "/pc/kr/Fareeha"}, ft.calls)
}

func TestResolveRegionProbeNonNotFoundWins(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/pc/eu/Fareeha-2187", http.StatusInternalServerError, "eu shell page")
	ft.serve(testBaseURL+"/pc/kr/Fareeha-2187", http.StatusOK, "kr page")

	client := newTestClient(ft)
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha#2187"), PlatformUnknown, RegionUnknown, Priorities{})
	require.NoError(t, err)
	require.Equal(t, RegionEU, res.Location.Region)
	require.Equal(t, "eu shell page", string(res.Body))
	require.Equal(t, []string{
		testBaseURL + "/pc/us/Fareeha-2187",
		testBaseURL + "/pc/eu/Fareeha-2187",
	}, ft.calls)
}

func TestResolveRegionProbeEmptyBodyWins(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/pc/eu/Fareeha-2187", http.StatusOK, "")
	ft.serve(testBaseURL+"/pc/kr/Fareeha-2187", http.StatusOK, "kr page")

	client := newTestClient(ft)
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha#2187"), PlatformUnknown, RegionUnknown, Priorities{})
	require.NoError(t, err)
	require.Equal(t, RegionEU, res.Location.Region)
	require.Empty(t, res.Body)
	require.Len(t, ft.calls, 2)
}

func TestResolveExhaustedIsNotFound(t *testing.T) {
	ft := newFakeTransport()
	client := newTestClient(ft)
	_, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformUnknown, RegionUnknown, Priorities{})
	require.True(t, errors.Is(err, ErrProfileNotFound))
	require.Equal(t, []string{
		testBaseURL + "/pc/us/Fareeha",
		testBaseURL + "/xbl/Fareeha",
		testBaseURL + "/psn/Fareeha",
	}, ft.calls)
}

func TestResolveTransportFailureAborts(t *testing.T) {
	ft := newFakeTransport()
	cause := errors.New("connection reset")
	ft.fail(testBaseURL+"/xbl/Fareeha", cause)

	client := newTestClient(ft)
	_, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformUnknown, RegionUnknown, Priorities{})

	var te *TransportError
	require.True(t, errors.As(err, &te))
	require.Equal(t, testBaseURL+"/xbl/Fareeha", te.URL)
	require.True(t, errors.Is(err, cause))
	// The failure is not a miss: psn is never reached.
	require.Len(t, ft.calls, 2)
}

func TestResolveKnownPlatformSkipsProbing(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/psn/Fareeha", http.StatusOK, "psn page")

	client := newTestClient(ft)
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformPlayStation, RegionUnknown, Priorities{})
	require.NoError(t, err)
	require.Equal(t, PlatformPlayStation, res.Location.Platform)
	require.Equal(t, []string{testBaseURL + "/psn/Fareeha"}, ft.calls)
}

func TestResolveKnownLocationNotFound(t *testing.T) {
	ft := newFakeTransport()
	client := newTestClient(ft)
	_, err := client.Resolve(context.Background(), NewIdentity("Fareeha#2187"), PlatformPC, RegionKR, Priorities{})
	require.True(t, errors.Is(err, ErrProfileNotFound))
	require.Equal(t, []string{testBaseURL + "/pc/kr/Fareeha-2187"}, ft.calls)
}

func TestResolveCustomPlatformOrder(t *testing.T) {
	ft := newFakeTransport()
	ft.serve(testBaseURL+"/psn/Fareeha", http.StatusOK, "psn page")

	client := newTestClient(ft)
	pri := Priorities{Platforms: []Platform{PlatformPlayStation, PlatformXbox}}
	res, err := client.Resolve(context.Background(), NewIdentity("Fareeha"), PlatformUnknown, RegionUnknown, pri)
	require.NoError(t, err)
	require.Equal(t, PlatformPlayStation, res.Location.Platform)
	require.Equal(t, []string{testBaseURL + "/psn/Fareeha"}, ft.calls)
}

func TestResolveMalformedIdentity(t *testing.T) {
	ft := newFakeTransport()
	client := newTestClient(ft)
	_, err := client.Resolve(context.Background(), NewIdentity("bad#tag#"), PlatformUnknown, RegionUnknown, Priorities{})
	require.True(t, errors.Is(err, ErrMalformedIdentity))
	require.Empty(t, ft.calls)
}
