package api

import (
	"log/slog"
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Consume the session's reservation lock and book the slot, or allocate employee slots when allocation_policy is set
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Checkout-Session header string true "Checkout session token"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeSessionRequired, jwt.ErrInvalidToken, "Checkout session required", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid request", nil)
		return
	}

	b, err := h.cmds.CreateBooking(c.Request.Context(), req.ToParams(session))
	if err != nil {
		abortWithUsecaseError(c, err, "Create booking failed")
		return
	}
	h.respond(c, http.StatusCreated, queries.ToBookingView(b))
}

// @Summary Get booking
// @Description Get a booking with its slot allocations
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err, "Failed to load booking")
		return
	}
	h.respond(c, http.StatusOK, view)
}

// @Summary Cancel booking
// @Description Cancel a booking and restore its slot capacity and package balance exactly once
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.CancelBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid id", nil)
		return
	}

	b, err := h.cmds.CancelBooking(c.Request.Context(), id)
	alreadyCancelled := errs.Is(err, commands.ErrAlreadyCancelled)
	if err != nil && !alreadyCancelled {
		abortWithUsecaseError(c, err, "Cancel booking failed")
		return
	}

	res, err := resdto.FromBookingView(queries.ToBookingView(b))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Failed to render booking", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.CancelBookingResponse{BookingResponse: *res, AlreadyCancelled: alreadyCancelled})
}

// @Summary Change booking status
// @Description Move a booking along its lifecycle; cancellation goes through the cancel endpoint
// @Tags bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body reqdto.TransitionStatusRequest true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) TransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, err, "Invalid id", nil)
		return
	}
	var req reqdto.TransitionStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, bindErr, "Invalid request", nil)
		return
	}

	b, err := h.cmds.TransitionStatus(c.Request.Context(), req.ToParams(id))
	if err != nil {
		abortWithUsecaseError(c, err, "Status change failed")
		return
	}
	h.respond(c, http.StatusOK, queries.ToBookingView(b))
}

func (h *BookingHandler) respond(c *gin.Context, status int, view *queries.BookingView) {
	res, err := resdto.FromBookingView(view)
	if err != nil {
		slog.Error("booking response mapping failed", "booking_id", view.ID, "error", err)
		httperr.AbortWithCode(c, http.StatusInternalServerError, httperr.CodeInternal, err, "Failed to render booking", nil)
		return
	}
	c.JSON(status, res)
}
