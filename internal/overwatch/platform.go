package overwatch

// Platform is one of the career site's platform path segments.
type Platform string

const (
	PlatformUnknown     Platform = ""
	PlatformPC          Platform = "pc"
	PlatformXbox        Platform = "xbl"
	PlatformPlayStation Platform = "psn"
)

// Region is one of the career site's PC region path segments. Console
// profiles carry no region.
type Region string

const (
	RegionUnknown Region = ""
	RegionUS      Region = "us"
	RegionEU      Region = "eu"
	RegionKR      Region = "kr"
)

// AllPlatforms returns every platform in declaration order, the default
// probing priority.
func AllPlatforms() []Platform {
	return []Platform{PlatformPC, PlatformXbox, PlatformPlayStation}
}

// AllRegions returns every region in declaration order, the default probing
// priority.
func AllRegions() []Region {
	return []Region{RegionUS, RegionEU, RegionKR}
}

func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformPC, PlatformXbox, PlatformPlayStation:
		return Platform(s), true
	case PlatformUnknown:
		return PlatformUnknown, true
	}
	return PlatformUnknown, false
}

func ParseRegion(s string) (Region, bool) {
	switch Region(s) {
	case RegionUS, RegionEU, RegionKR:
		return Region(s), true
	case RegionUnknown:
		return RegionUnknown, true
	}
	return RegionUnknown, false
}

// Priorities is the caller-supplied probing order for both resolution axes.
// Empty slices fall back to the declaration-order defaults.
type Priorities struct {
	Platforms []Platform
	Regions   []Region
}

func DefaultPriorities() Priorities {
	return Priorities{Platforms: AllPlatforms(), Regions: AllRegions()}
}

func (p Priorities) withDefaults() Priorities {
	if len(p.Platforms) == 0 {
		p.Platforms = AllPlatforms()
	}
	if len(p.Regions) == 0 {
		p.Regions = AllRegions()
	}
	return p
}

// ProfileLocation is a resolved, fetchable career page address. It is
// recomputed on every refresh and never persisted.
type ProfileLocation struct {
	Platform Platform
	Region   Region
	URL      string
}
