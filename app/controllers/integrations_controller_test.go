package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarvinHaas/ClipCast/app/models"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

func newIntegrationsApp(userCtx usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, userCtx)
		return c.Next()
	})
	app.Get("/integrations/status", HandleIntegrationsStatus)
	app.Delete("/integrations/status", HandleIntegrationsDisconnect)
	return app
}

func TestIntegrationsStatusUnauthenticated(t *testing.T) {
	integrationsRepo = &stubConnectionStore{listErr: errors.New("must not be called")}
	app := newIntegrationsApp(usercontext.UserContext{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrations/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
}

func TestIntegrationsStatusMapsConnectionsByPlatform(t *testing.T) {
	connectedAt := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	integrationsRepo = &stubConnectionStore{listed: []models.PlatformConnection{
		{
			UserID:      7,
			Platform:    "youtube",
			AccessToken: "secret",
			ChannelID:   "UC1",
			ChannelName: "My Channel",
			CreatedAt:   connectedAt,
		},
	}}
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrations/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Connections map[string]map[string]any `json:"connections"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	require.Contains(t, payload.Connections, "youtube")
	assert.Equal(t, "UC1", payload.Connections["youtube"]["channelId"])
	assert.Equal(t, "My Channel", payload.Connections["youtube"]["channelName"])
	assert.NotContains(t, payload.Connections, "tiktok")

	// tokens never leave the server
	assert.NotContains(t, string(body), "secret")
}

func TestIntegrationsStatusEmpty(t *testing.T) {
	integrationsRepo = &stubConnectionStore{}
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrations/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"connections":{}}`, string(body))
}

func TestIntegrationsStatusQueryFails(t *testing.T) {
	integrationsRepo = &stubConnectionStore{listErr: errors.New("connection reset")}
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrations/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Failed to fetch integrations"}`, string(body))
}

func TestIntegrationsDisconnect(t *testing.T) {
	store := &stubConnectionStore{}
	integrationsRepo = store
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/integrations/status?platform=youtube", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"youtube"}, store.deleted)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":true}`, string(body))
}

func TestIntegrationsDisconnectMissingPlatform(t *testing.T) {
	integrationsRepo = &stubConnectionStore{}
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/integrations/status", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Platform is required"}`, string(body))
}

func TestIntegrationsDisconnectUnknownPlatform(t *testing.T) {
	store := &stubConnectionStore{}
	integrationsRepo = store
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/integrations/status?platform=myspace", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, store.deleted)
}

func TestIntegrationsDisconnectNotConnectedIsIdempotent(t *testing.T) {
	store := &stubConnectionStore{}
	integrationsRepo = store
	app := newIntegrationsApp(loggedInUser())

	// nothing connected, still succeeds
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/integrations/status?platform=tiktok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestIntegrationsDisconnectStoreFails(t *testing.T) {
	integrationsRepo = &stubConnectionStore{deleteErr: errors.New("deadlock")}
	app := newIntegrationsApp(loggedInUser())

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/integrations/status?platform=youtube", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Failed to disconnect platform"}`, string(body))
}
