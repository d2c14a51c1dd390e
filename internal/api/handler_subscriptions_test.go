package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahamdan1990/vms-frontend-sub004/config"
	"github.com/ahamdan1990/vms-frontend-sub004/internal/model"
)

func TestPutSubscription_InvalidBody(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "PUT", "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestSubscriptionLifecycle(t *testing.T) {
	router, gdb := newTestRouter(t)

	location := model.Location{Name: "Main Gate"}
	require.NoError(t, gdb.Create(&location).Error)

	// Push endpoints routinely carry characters that URL-decoding would eat.
	endpoint := "https://push.example.com/sub/abc+def"
	put := fmt.Sprintf(`{"endpoint":%q,"p256dh":"client-key","auth":"client-secret","subscribed_locations":[%d]}`, endpoint, location.ID)

	w := doRequest(router, "PUT", "/api/subscriptions", put)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"subscribed_locations":[%d]}`, location.ID), w.Body.String())

	// Replacing with an empty list turns the subscription global.
	w = doRequest(router, "PUT", "/api/subscriptions", fmt.Sprintf(`{"endpoint":%q,"p256dh":"client-key","auth":"client-secret","subscribed_locations":[]}`, endpoint))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed_locations":[]}`, w.Body.String())

	// Unknown locations are rejected, not silently dropped.
	w = doRequest(router, "PUT", "/api/subscriptions", fmt.Sprintf(`{"endpoint":%q,"p256dh":"client-key","auth":"client-secret","subscribed_locations":[99]}`, endpoint))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown location ID")

	w = doRequest(router, "DELETE", "/api/subscriptions", fmt.Sprintf(`{"endpoint":%q}`, endpoint))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, "GET", "/api/subscriptions?endpoint="+endpoint, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, "GET", "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	configured, _ := newTestRouter(t, func(cfg *config.Config) {
		cfg.Push.PublicKey = "test-public-key"
	})

	w = doRequest(configured, "GET", "/api/vapid_public_key", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}
