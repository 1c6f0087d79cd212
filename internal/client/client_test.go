package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productkart/internal/client"
	"productkart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.Handler, token string) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.New(server.URL, func() string { return token }, server.Client())
}

func TestClient_ExtractsStructuredServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Product not found"})
	})
	c := newClient(t, handler, "")

	_, err := c.GetProduct(context.Background(), "nope")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestClient_FallsBackToStatusTextWithoutMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})
	c := newClient(t, handler, "")

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestClient_TransportFailureHasZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := client.New(url, nil, nil)

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status, "no response means no status")
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_AttachesBearerOnAuthenticatedEndpointsOnly(t *testing.T) {
	var profileAuth, listAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		profileAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.Session{Token: "tok"})
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		listAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Product{})
	})

	c := newClient(t, mux, "tok-123")

	_, err := c.Profile(context.Background())
	require.NoError(t, err)
	_, err = c.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", profileAuth)
	assert.Empty(t, listAuth, "public endpoints carry no Authorization header")
}

func TestClient_SetsJSONContentTypeOnBodies(t *testing.T) {
	var contentType string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/auth", func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(models.Session{Token: "tok"})
	})

	c := newClient(t, mux, "")

	_, err := c.Login(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
}

func TestClient_UploadImageReturnsHostedURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.png", header.Filename)
		assert.Equal(t, "Bearer tok-admin", r.Header.Get("Authorization"))
		w.Write([]byte("/uploads/abc.png"))
	})

	c := newClient(t, mux, "tok-admin")

	url, err := c.UploadImage(context.Background(), "photo.png", strings.NewReader("fake-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", url)
}

func TestClient_UploadFailureIsNormalized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "images only (jpg, jpeg, png)"})
	})

	c := newClient(t, mux, "tok-admin")

	_, err := c.UploadImage(context.Background(), "notes.txt", strings.NewReader("hello"))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "images only (jpg, jpeg, png)", apiErr.Message)
}
