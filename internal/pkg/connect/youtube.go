package connect

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
)

// youtubeScopes covers reading channel data and, for the future publish
// pipeline, uploading videos.
var youtubeScopes = []string{
	youtube.YoutubeScope,
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeUploadScope,
}

// YouTubeConnector implements the authorization code grant against Google's
// OAuth endpoint and reads the channel snapshot through the YouTube Data API.
type YouTubeConnector struct {
	cfg *oauth2.Config
}

func NewYouTubeConnector(c Config) *YouTubeConnector {
	return &YouTubeConnector{
		cfg: &oauth2.Config{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURL:  c.CallbackURL(PlatformYouTube),
			Scopes:       youtubeScopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL builds the consent URL. access_type=offline and prompt=consent
// together guarantee Google issues a refresh token even on repeat
// authorizations; include_granted_scopes enables incremental authorization.
func (y *YouTubeConnector) AuthCodeURL(state string) string {
	return y.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades the authorization code for tokens. Single-shot, no retry:
// a failed exchange means the user restarts the flow.
func (y *YouTubeConnector) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := y.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("youtube token exchange: %w", err)
	}
	return tok, nil
}

// FetchProfile reads the first channel owned by the authorized account
// ("mine" semantics, no pagination). An account without a channel yields an
// empty profile, not an error.
func (y *YouTubeConnector) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	svc, err := youtube.NewService(ctx, option.WithTokenSource(y.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return Profile{}, fmt.Errorf("youtube service: %w", err)
	}

	resp, err := svc.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return Profile{}, fmt.Errorf("youtube channels.list: %w", err)
	}
	if len(resp.Items) == 0 {
		return Profile{}, nil
	}

	ch := resp.Items[0]
	profile := Profile{ChannelID: ch.Id}
	if ch.Snippet != nil {
		profile.ChannelName = ch.Snippet.Title
	}
	return profile, nil
}
