package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain configures the app for tests: in-memory sqlite, no broker,
// uploads into a temp dir.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)

	viper.Set("JWT_SECRET", "test_jwt_secret")
	viper.Set("DATABASE_URL", "")
	viper.Set("RABBITMQ_URL", "")
	dir, err := os.MkdirTemp("", "uploads")
	if err != nil {
		log.Fatalf("Failed to create temp upload dir: %v", err)
	}
	viper.Set("UPLOAD_DIR", dir)

	code := m.Run()
	os.Remove(dir)
	os.Exit(code)
}

func TestNewAppHealthCheck(t *testing.T) {
	app, mqClient, err := newApp()
	require.NoError(t, err)
	assert.Nil(t, mqClient, "no RABBITMQ_URL means no broker client")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
	assert.NotEmpty(t, health["time"])
}

func TestNewAppRouteSurface(t *testing.T) {
	app, _, err := newApp()
	require.NoError(t, err)

	// Browsing is public
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Orders and profile require a token
	for _, path := range []string{"/api/orders/myorders", "/api/users/profile"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestNewAppSeedsAdmin(t *testing.T) {
	app, _, err := newApp()
	require.NoError(t, err)

	body := strings.NewReader(`{"email":"admin@productkart.local","password":"admin123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/auth", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var session map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	assert.Equal(t, true, session["isAdmin"])
	assert.NotEmpty(t, session["token"])
}
