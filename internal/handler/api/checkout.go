package api

import (
	"net/http"
	"time"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/internal/usecase/locks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionIssuer interface {
	IssueSessionToken(tenantID uuid.UUID) (string, *jwt.Claims, error)
}

type CheckoutHandler struct {
	sessions SessionIssuer
	locks    locks.LockCommands
}

func NewCheckoutHandler(sessions SessionIssuer, lockCommands locks.LockCommands) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, locks: lockCommands}
}

// @Summary Start checkout session
// @Description Issue a signed checkout session token; reservation locks are scoped to its session id
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSessionRequest true "Session request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Router /checkout-sessions [post]
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req reqdto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}
	token, claims, err := h.sessions.IssueSessionToken(req.TenantID)
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Failed to issue checkout session", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.SessionResponse{
		Token:     token,
		SessionID: claims.SessionID,
		TenantID:  claims.TenantID,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

// @Summary Acquire reservation lock
// @Description Hold slot capacity for the checkout session until the lock expires
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param id path string true "Slot ID"
// @Param request body reqdto.AcquireLockRequest true "Lock request"
// @Success 201 {object} resdto.LockResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /slots/{id}/locks [post]
func (h *CheckoutHandler) AcquireLock(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeSessionRequired, jwt.ErrInvalidToken, "Checkout session required", nil)
		return
	}
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid slot id", nil)
		return
	}
	var req reqdto.AcquireLockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, bindErr, "Invalid request", nil)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	lock, err := h.locks.Acquire(c.Request.Context(), slotID, session.SessionID, req.Quantity, ttl)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to acquire reservation lock")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromLock(lock))
}

// @Summary Release reservation lock
// @Description Abandon checkout and return the held capacity; only the owning session may release
// @Tags checkout
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param id path string true "Lock ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /locks/{id} [delete]
func (h *CheckoutHandler) ReleaseLock(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeSessionRequired, jwt.ErrInvalidToken, "Checkout session required", nil)
		return
	}
	lockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid lock id", nil)
		return
	}
	if err := h.locks.Release(c.Request.Context(), lockID, session.SessionID); err != nil {
		abortWithUsecaseError(c, err, "Failed to release reservation lock")
		return
	}
	c.Status(http.StatusNoContent)
}
