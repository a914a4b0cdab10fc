package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/MarvinHaas/ClipCast/app/models"
	"github.com/MarvinHaas/ClipCast/internal/pkg/connect"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

type fakeConnector struct {
	authURL        string
	token          *oauth2.Token
	exchangeErr    error
	profile        connect.Profile
	profileErr     error
	exchangedCodes []string
}

func (f *fakeConnector) AuthCodeURL(state string) string { return f.authURL }

func (f *fakeConnector) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.exchangedCodes = append(f.exchangedCodes, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeConnector) FetchProfile(ctx context.Context, tok *oauth2.Token) (connect.Profile, error) {
	return f.profile, f.profileErr
}

type stubConnectionStore struct {
	upserted  []models.PlatformConnection
	upsertErr error
	deleted   []string
	deleteErr error
	listed    []models.PlatformConnection
	listErr   error
}

func (s *stubConnectionStore) Upsert(conn *models.PlatformConnection) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	for i, existing := range s.upserted {
		if existing.UserID == conn.UserID && existing.Platform == conn.Platform {
			s.upserted[i] = *conn
			return nil
		}
	}
	s.upserted = append(s.upserted, *conn)
	return nil
}

func (s *stubConnectionStore) GetByUserAndPlatform(userID uint, platform string) (*models.PlatformConnection, error) {
	for i := range s.upserted {
		if s.upserted[i].UserID == userID && s.upserted[i].Platform == platform {
			return &s.upserted[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (s *stubConnectionStore) ListByUser(userID uint) ([]models.PlatformConnection, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listed, nil
}

func (s *stubConnectionStore) DeleteByUserAndPlatform(userID uint, platform string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, platform)
	return nil
}

func (s *stubConnectionStore) CountByUser(userID uint) (int64, error) {
	return int64(len(s.upserted)), nil
}

func newCallbackApp(flow func(c *fiber.Ctx) *connectFlow) *fiber.App {
	app := fiber.New()
	app.Get("/connect/:platform/callback", func(c *fiber.Ctx) error {
		return flow(c).run()
	})
	return app
}

func loggedInUser() usercontext.UserContext {
	return usercontext.UserContext{UserID: 7, Username: "creator", IsLoggedIn: true}
}

func TestConnectCallbackUnauthenticated(t *testing.T) {
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, platform: "youtube"}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?error=unauthorized", resp.Header.Get("Location"))
}

func TestConnectCallbackProviderDenied(t *testing.T) {
	conn := &fakeConnector{token: &oauth2.Token{AccessToken: "at"}}
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: &stubConnectionStore{}}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?error=access_denied&code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/integrations?error=access_denied", resp.Header.Get("Location"))
	assert.Empty(t, conn.exchangedCodes)
}

func TestConnectCallbackMissingCode(t *testing.T) {
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: &fakeConnector{}, store: &stubConnectionStore{}}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/integrations?error=no_code", resp.Header.Get("Location"))
}

func TestConnectCallbackExchangeFails(t *testing.T) {
	conn := &fakeConnector{exchangeErr: errors.New("boom")}
	store := &stubConnectionStore{}
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: store}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/integrations?error=token_exchange_failed", resp.Header.Get("Location"))
	assert.Equal(t, []string{"abc"}, conn.exchangedCodes)
	assert.Empty(t, store.upserted)
}

func TestConnectCallbackProfileFetchFails(t *testing.T) {
	conn := &fakeConnector{
		token:      &oauth2.Token{AccessToken: "at"},
		profileErr: errors.New("quota exceeded"),
	}
	store := &stubConnectionStore{}
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: store}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/integrations?error=token_exchange_failed", resp.Header.Get("Location"))
	assert.Empty(t, store.upserted)
}

func TestConnectCallbackStoreFails(t *testing.T) {
	conn := &fakeConnector{
		token:   &oauth2.Token{AccessToken: "at", RefreshToken: "rt"},
		profile: connect.Profile{ChannelID: "UC1", ChannelName: "My Channel"},
	}
	store := &stubConnectionStore{upsertErr: errors.New("deadlock")}
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: store}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard/integrations?error=db_error", resp.Header.Get("Location"))
}

func TestConnectCallbackSuccess(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	conn := &fakeConnector{
		token: &oauth2.Token{
			AccessToken:  "at",
			RefreshToken: "rt",
			Expiry:       expiry,
		},
		profile: connect.Profile{ChannelID: "UC1", ChannelName: "My Channel"},
	}
	store := &stubConnectionStore{}
	app := newCallbackApp(func(c *fiber.Ctx) *connectFlow {
		return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: store}
	})

	req := httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/integrations?success=true", resp.Header.Get("Location"))

	require.Len(t, store.upserted, 1)
	saved := store.upserted[0]
	assert.Equal(t, uint(7), saved.UserID)
	assert.Equal(t, "youtube", saved.Platform)
	assert.Equal(t, "at", saved.AccessToken)
	assert.Equal(t, "rt", saved.RefreshToken)
	require.NotNil(t, saved.TokenExpiry)
	assert.WithinDuration(t, expiry, *saved.TokenExpiry, time.Second)
	assert.Equal(t, "UC1", saved.ChannelID)
	assert.Equal(t, "My Channel", saved.ChannelName)
}

func TestConnectCallbackReplacesExistingConnection(t *testing.T) {
	store := &stubConnectionStore{}
	makeApp := func(conn *fakeConnector) *fiber.App {
		return newCallbackApp(func(c *fiber.Ctx) *connectFlow {
			return &connectFlow{c: c, userCtx: loggedInUser(), platform: "youtube", connector: conn, store: store}
		})
	}

	first := &fakeConnector{
		token:   &oauth2.Token{AccessToken: "old"},
		profile: connect.Profile{ChannelID: "UC1", ChannelName: "Old Name"},
	}
	resp, err := makeApp(first).Test(httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=a", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	second := &fakeConnector{
		token:   &oauth2.Token{AccessToken: "new"},
		profile: connect.Profile{ChannelID: "UC2", ChannelName: "New Name"},
	}
	resp, err = makeApp(second).Test(httptest.NewRequest(http.MethodGet, "/connect/youtube/callback?code=b", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	require.Len(t, store.upserted, 1)
	assert.Equal(t, "new", store.upserted[0].AccessToken)
	assert.Equal(t, "UC2", store.upserted[0].ChannelID)
}

func TestTokenExpiry(t *testing.T) {
	assert.Nil(t, tokenExpiry(&oauth2.Token{}))

	exp := time.Now().Add(30 * time.Minute)
	got := tokenExpiry(&oauth2.Token{Expiry: exp})
	require.NotNil(t, got)
	assert.True(t, got.Equal(exp))
}

func TestConnectAuthorizeRedirectsToConsentURL(t *testing.T) {
	connectRegistry = connect.NewRegistry(connect.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		BaseURL:            "https://clipcast.example",
	})

	app := fiber.New()
	app.Get("/connect/:platform/authorize", func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, loggedInUser())
		return HandleConnectAuthorize(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connect/youtube/authorize", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	loc := resp.Header.Get("Location")
	assert.Contains(t, loc, "accounts.google.com")
	assert.Contains(t, loc, "access_type=offline")
	assert.Contains(t, loc, "prompt=consent")
}

func TestConnectAuthorizeUnauthenticated(t *testing.T) {
	connectRegistry = connect.NewRegistry(connect.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		BaseURL:            "https://clipcast.example",
	})

	app := fiber.New()
	app.Get("/connect/:platform/authorize", HandleConnectAuthorize)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connect/youtube/authorize", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?error=unauthorized", resp.Header.Get("Location"))
}

func TestConnectAuthorizeUnknownPlatform(t *testing.T) {
	connectRegistry = connect.NewRegistry(connect.Config{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		BaseURL:            "https://clipcast.example",
	})

	app := fiber.New()
	app.Get("/connect/:platform/authorize", func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, loggedInUser())
		return HandleConnectAuthorize(c)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connect/myspace/authorize", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/integrations?error=unsupported_platform", resp.Header.Get("Location"))
}
