package connect

import (
	"errors"
	"fmt"
)

// Platform identifies a publishing target. The set is closed: adding a
// platform means adding a constant here and, once it can actually be
// connected, a Connector in NewRegistry. The store never needs to change.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformTikTok   Platform = "tiktok"
	PlatformFacebook Platform = "facebook"
	PlatformLinkedIn Platform = "linkedin"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrNotConnectable  = errors.New("platform cannot be connected yet")
)

// platformNames is the display name per platform, in presentation order.
var platformOrder = []Platform{PlatformYouTube, PlatformTikTok, PlatformFacebook, PlatformLinkedIn}

var platformNames = map[Platform]string{
	PlatformYouTube:  "YouTube",
	PlatformTikTok:   "TikTok",
	PlatformFacebook: "Facebook",
	PlatformLinkedIn: "LinkedIn",
}

// IsKnown reports whether the identifier names a platform from the closed set.
func IsKnown(platform string) bool {
	_, ok := platformNames[Platform(platform)]
	return ok
}

// PlatformInfo describes one platform for the dashboard's platform list.
type PlatformInfo struct {
	ID          Platform `json:"id"`
	Name        string   `json:"name"`
	Connectable bool     `json:"connectable"`
}

// Registry holds the connectors for the platforms that support the OAuth
// connection flow. Only YouTube is wired today; the others are placeholders
// the UI renders as "coming soon".
type Registry struct {
	connectors map[Platform]Connector
}

// NewRegistry builds the registry from a validated config.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		connectors: map[Platform]Connector{
			PlatformYouTube: NewYouTubeConnector(cfg),
		},
	}
}

// Connector resolves the connector for a platform identifier.
func (r *Registry) Connector(platform string) (Connector, error) {
	p := Platform(platform)
	if _, ok := platformNames[p]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	conn, ok := r.connectors[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotConnectable, platform)
	}
	return conn, nil
}

// Platforms lists the closed platform set in presentation order.
func (r *Registry) Platforms() []PlatformInfo {
	infos := make([]PlatformInfo, 0, len(platformOrder))
	for _, p := range platformOrder {
		_, connectable := r.connectors[p]
		infos = append(infos, PlatformInfo{ID: p, Name: platformNames[p], Connectable: connectable})
	}
	return infos
}

var registry *Registry

// Setup loads the config and installs the process-wide registry. Called once
// from the router during boot; fails fast on incomplete configuration.
func Setup() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	registry = NewRegistry(cfg)
	return nil
}

// GetRegistry returns the process-wide registry installed by Setup.
func GetRegistry() (*Registry, error) {
	if registry == nil {
		return nil, ErrNotConfigured
	}
	return registry, nil
}
