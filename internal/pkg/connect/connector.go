package connect

import (
	"context"

	"golang.org/x/oauth2"
)

// Result markers carried on callback redirects. The dashboard reads them from
// the query string; they are the only machine-readable outcome of the
// browser-navigation flow.
const (
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeAccessDenied    = "access_denied"
	ErrCodeNoCode          = "no_code"
	ErrCodeTokenExchange   = "token_exchange_failed"
	ErrCodeDBError         = "db_error"
	ErrCodeUnknownPlatform = "unsupported_platform"
)

// Profile is the minimal account snapshot taken at connection time. Fields
// may be empty; a missing channel never fails the flow.
type Profile struct {
	ChannelID   string
	ChannelName string
}

// Connector is one platform's side of the authorization code grant: building
// the consent URL, exchanging the code, and reading the connected account's
// identity with the fresh token.
type Connector interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error)
}
