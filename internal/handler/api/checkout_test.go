//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/handler/api"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/httptest"
	locksmock "reservation-engine/tests/mock/locks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CheckoutHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockLocks *locksmock.MockLockCommands
	sessions  *jwt.Service
	token     string
	claims    *jwt.Claims
}

func (s *CheckoutHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler())

	s.mockCtrl = gomock.NewController(s.T())
	s.mockLocks = locksmock.NewMockLockCommands(s.mockCtrl)
	s.sessions = jwt.NewService("test-session-secret", time.Hour)
	handler := api.NewCheckoutHandler(s.sessions, s.mockLocks)

	var err error
	s.token, s.claims, err = s.sessions.IssueSessionToken(uuid.New())
	s.Require().NoError(err)

	requireSession := middleware.NewSessionMiddleware(s.sessions).RequireSession()
	s.router.POST("/checkout-sessions", handler.CreateSession)
	s.router.POST("/slots/:id/locks", requireSession, handler.AcquireLock)
	s.router.DELETE("/locks/:id", requireSession, handler.ReleaseLock)
}

func (s *CheckoutHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCheckoutHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckoutHandlerTestSuite))
}

func (s *CheckoutHandlerTestSuite) TestCreateSession() {
	s.Run("success: token validates back to the issued session", func() {
		tenantID := uuid.New()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/checkout-sessions",
			map[string]any{"tenant_id": tenantID}, "")

		var body resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(tenantID, body.TenantID)

		claims, err := s.sessions.ValidateToken(body.Token)
		s.Require().NoError(err)
		s.Equal(body.SessionID, claims.SessionID)
		s.Equal(tenantID, claims.TenantID)
	})

	s.Run("error: 400 without tenant", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/checkout-sessions", map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *CheckoutHandlerTestSuite) TestAcquireLock() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String() + "/locks"

	s.Run("success: 201 with the session's lock", func() {
		now := time.Now().UTC()
		lock, err := hold.NewLock(slotID, s.claims.SessionID, 2, 90*time.Second, now)
		s.Require().NoError(err)
		s.mockLocks.EXPECT().Acquire(gomock.Any(), slotID, s.claims.SessionID, 2, time.Duration(0)).
			Return(lock, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"quantity": 2}, s.token)

		var body resdto.LockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(lock.ID(), body.ID)
		s.Equal(2, body.ReservedCapacity)
		s.WithinDuration(lock.ExpiresAt(), body.ExpiresAt, time.Second)
	})

	s.Run("success: ttl_seconds is forwarded", func() {
		lock, err := hold.NewLock(slotID, s.claims.SessionID, 1, 5*time.Minute, time.Now())
		s.Require().NoError(err)
		s.mockLocks.EXPECT().Acquire(gomock.Any(), slotID, s.claims.SessionID, 1, 5*time.Minute).
			Return(lock, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"quantity": 1, "ttl_seconds": 300}, s.token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 409 when live locks hold the capacity", func() {
		s.mockLocks.EXPECT().Acquire(gomock.Any(), slotID, gomock.Any(), 3, gomock.Any()).
			Return(nil, errs.WithDetail(shared.ErrCapacityContended, "available=2 locked=1 requested=3")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"quantity": 3}, s.token)

		s.Equal(http.StatusConflict, rec.Code)
		s.JSONEq(`{"error":{"code":"capacity_contended","message":"Capacity is held by other checkouts"},"detail":{"reason":"available=2 locked=1 requested=3"}}`,
			rec.Body.String())
	})

	s.Run("error: 400 on ttl outside range", func() {
		s.mockLocks.EXPECT().Acquire(gomock.Any(), slotID, gomock.Any(), 1, gomock.Any()).
			Return(nil, errs.Mark(locks.ErrInvalidTTL, shared.ErrValidation)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"quantity": 1, "ttl_seconds": 86400}, s.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 on unknown slot", func() {
		s.mockLocks.EXPECT().Acquire(gomock.Any(), slotID, gomock.Any(), 1, gomock.Any()).
			Return(nil, shared.ErrSlotNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"quantity": 1}, s.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})

	s.Run("error: 400 on zero quantity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"quantity": 0}, s.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 401 without session", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"quantity": 1}, "")
		httptest.AssertErrorCode(s.T(), rec, http.StatusUnauthorized, "session_required")
	})
}

func (s *CheckoutHandlerTestSuite) TestReleaseLock() {
	lockID := uuid.New()
	url := "/locks/" + lockID.String()

	s.Run("success: 204", func() {
		s.mockLocks.EXPECT().Release(gomock.Any(), lockID, s.claims.SessionID).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, s.token)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 410 once the lock is gone", func() {
		s.mockLocks.EXPECT().Release(gomock.Any(), lockID, s.claims.SessionID).
			Return(errs.Mark(errs.Mark(errs.New("missing"), shared.ErrLockNotFound), shared.ErrInvalidLock)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, s.token)
		httptest.AssertErrorCode(s.T(), rec, http.StatusGone, "lock_gone")
	})

	s.Run("error: 409 for another session's lock", func() {
		s.mockLocks.EXPECT().Release(gomock.Any(), lockID, s.claims.SessionID).
			Return(errs.Mark(hold.ErrSessionMismatch, shared.ErrInvalidLock)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, s.token)
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "lock_invalid")
	})
}
