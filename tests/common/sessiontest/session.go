//go:build unit || e2e

package sessiontest

import (
	"net/http"
	"testing"

	"reservation-engine/internal/handler/dto/request"
	"reservation-engine/internal/handler/dto/response"
	"reservation-engine/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// StartCheckout opens a checkout session for the tenant and returns its token.
func StartCheckout(t *testing.T, router *gin.Engine, tenantID uuid.UUID) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/checkout-sessions",
		request.CreateSessionRequest{TenantID: tenantID}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.SessionResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.NotEmpty(t, res.Token, "session token is empty")
	return res.Token
}

// AcquireLock holds qty units on the slot and returns the lock.
func AcquireLock(t *testing.T, router *gin.Engine, token string, slotID uuid.UUID, qty int) response.LockResponse {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/slots/"+slotID.String()+"/locks",
		request.AcquireLockRequest{Quantity: qty}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.LockResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}
