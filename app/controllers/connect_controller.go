package controllers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"
	"golang.org/x/oauth2"

	"github.com/MarvinHaas/ClipCast/app/models"
	"github.com/MarvinHaas/ClipCast/app/repository"
	"github.com/MarvinHaas/ClipCast/internal/pkg/connect"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

const (
	integrationsRoute = "/dashboard/integrations"
	loginRoute        = "/login"
)

// connectRegistry resolves platform connectors for the connect routes. Set at
// boot by InitializeConnectController.
var connectRegistry *connect.Registry

// InitializeConnectController wires the connect routes to the configured
// platform registry. connect.Setup must have run first.
func InitializeConnectController() {
	reg, err := connect.GetRegistry()
	if err != nil {
		panic(err)
	}
	connectRegistry = reg
}

// HandleConnectAuthorize starts the OAuth connection flow for a platform by
// redirecting the browser to the provider's consent screen. No side effects,
// no persistence; the redirect carries everything.
func HandleConnectAuthorize(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Redirect(loginRoute+"?error="+connect.ErrCodeUnauthorized, fiber.StatusSeeOther)
	}

	connector, err := connectRegistry.Connector(c.Params("platform"))
	if err != nil {
		fm := fiber.Map{"type": "error", "message": err.Error()}
		return flash.WithError(c, fm).Redirect(integrationsRoute + "?error=" + connect.ErrCodeUnknownPlatform)
	}

	return c.Redirect(connector.AuthCodeURL(""), fiber.StatusSeeOther)
}

// connectFlow carries one provider callback through the connection state
// machine. Every terminal branch is a redirect with an outcome marker in the
// query string; nothing inside the request is retried. connector and store
// are resolved lazily so the early branches run without either.
type connectFlow struct {
	c         *fiber.Ctx
	userCtx   usercontext.UserContext
	platform  string
	connector connect.Connector
	store     repository.ConnectionRepository
}

// HandleConnectCallback finishes the OAuth connection flow: code exchange,
// profile snapshot, atomic upsert of the connection record.
func HandleConnectCallback(c *fiber.Ctx) error {
	flow := &connectFlow{
		c:        c,
		userCtx:  usercontext.GetUserContext(c),
		platform: c.Params("platform"),
	}
	return flow.run()
}

func (f *connectFlow) run() error {
	if !f.userCtx.IsLoggedIn {
		fm := fiber.Map{"type": "error", "message": "login required"}
		return flash.WithError(f.c, fm).Redirect(loginRoute + "?error=" + connect.ErrCodeUnauthorized)
	}

	// Provider denied consent; the token exchange is never reached.
	if f.c.Query("error") != "" {
		return f.fail(connect.ErrCodeAccessDenied)
	}

	code := f.c.Query("code")
	if code == "" {
		return f.fail(connect.ErrCodeNoCode)
	}

	connector := f.connector
	if connector == nil {
		var err error
		connector, err = connectRegistry.Connector(f.platform)
		if err != nil {
			return f.fail(connect.ErrCodeUnknownPlatform)
		}
	}

	ctx := f.c.Context()
	tok, err := connector.Exchange(ctx, code)
	if err != nil {
		log.Printf("[connect] token exchange failed for user %d platform %s: %v", f.userCtx.UserID, f.platform, err)
		return f.fail(connect.ErrCodeTokenExchange)
	}

	// Snapshot of the connected account. A transport failure here aborts
	// like a failed exchange; an account without a channel does not.
	profile, err := connector.FetchProfile(ctx, tok)
	if err != nil {
		log.Printf("[connect] profile fetch failed for user %d platform %s: %v", f.userCtx.UserID, f.platform, err)
		return f.fail(connect.ErrCodeTokenExchange)
	}

	conn := models.PlatformConnection{
		UserID:       f.userCtx.UserID,
		Platform:     f.platform,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenExpiry:  tokenExpiry(tok),
		ChannelID:    profile.ChannelID,
		ChannelName:  profile.ChannelName,
	}

	store := f.store
	if store == nil {
		store = repository.GetGlobalFactory().GetConnectionRepository()
	}
	if err := store.Upsert(&conn); err != nil {
		// The exchanged tokens are dropped, not queued; the grant stays
		// orphaned at the provider until the user reconnects. Log enough
		// to reconcile it by hand.
		log.Printf("[connect] store failed, orphaned token grant incident=%s user=%d platform=%s channel=%q: %v",
			uuid.NewString(), f.userCtx.UserID, f.platform, profile.ChannelID, err)
		return f.fail(connect.ErrCodeDBError)
	}

	fm := fiber.Map{"type": "success", "message": fmt.Sprintf("%s connected", f.platform)}
	return flash.WithSuccess(f.c, fm).Redirect(integrationsRoute + "?success=true")
}

func (f *connectFlow) fail(code string) error {
	fm := fiber.Map{"type": "error", "message": "connecting " + f.platform + " failed: " + code}
	return flash.WithError(f.c, fm).Redirect(integrationsRoute + "?error=" + code)
}

func tokenExpiry(tok *oauth2.Token) *time.Time {
	if tok.Expiry.IsZero() {
		return nil
	}
	t := tok.Expiry
	return &t
}
