package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	request "careconnect/internal/adapter/http/dto/request"
	response "careconnect/internal/adapter/http/dto/response"
	"careconnect/internal/adapter/http/middleware"
	"careconnect/internal/domain/entities"
	"careconnect/internal/usecase"
	"careconnect/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidBookingPayload = pkg.NewDomainErrorSimple("INVALID_BOOKING_INPUT", "Invalid booking payload", http.StatusBadRequest)
	errMissingCaller         = pkg.NewDomainErrorSimple("MISSING_CREDENTIALS", "Missing bearer token", http.StatusUnauthorized)
)

// BookingHandler exposes the booking lifecycle to families and caregivers.
type BookingHandler struct {
	usecase usecase.IBookingUseCase
}

func NewBookingHandler(uc usecase.IBookingUseCase) *BookingHandler {
	return &BookingHandler{usecase: uc}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var payload request.CreateBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[booking][handler] create invalid payload caller_id=%s err=%v", caller.ID, err)
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}
	in, err := payload.ToInput()
	if err != nil {
		log.Printf("[booking][handler] create invalid dates caller_id=%s err=%v", caller.ID, err)
		c.JSON(errInvalidBookingPayload.HTTPStatus, errInvalidBookingPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.Create(c.Request.Context(), caller, in)
	if err != nil {
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusCreated, response.FromBooking(created))
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	b, err := h.usecase.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

// ListBookings returns the bookings where the caller is family or caregiver.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	bookings, err := h.usecase.ListForCaller(c.Request.Context(), caller)
	if err != nil {
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromBookings(bookings))
}

func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transitionByRequest(c, "accept", h.usecase.Accept)
}

func (h *BookingHandler) DeclineBooking(c *gin.Context) {
	h.transitionByRequest(c, "decline", h.usecase.Decline)
}

func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.transitionByRequest(c, "complete", h.usecase.Complete)
}

// Checkout opens a hosted checkout for a confirmed booking and returns the
// redirect the family's browser should follow.
func (h *BookingHandler) Checkout(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id := c.Param("id")

	b, session, err := h.usecase.InitiateCheckout(c.Request.Context(), caller, id)
	if err != nil {
		log.Printf("[booking][handler] checkout failed booking_id=%s err=%v", id, err)
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[booking][handler] checkout success booking_id=%s session_id=%s", b.ID, session.ID)
	c.JSON(http.StatusOK, response.FromCheckout(b, session))
}

func (h *BookingHandler) transitionByRequest(
	c *gin.Context,
	op string,
	apply func(ctx context.Context, caller entities.Caller, id string) (entities.Booking, error),
) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	id := c.Param("id")

	b, err := apply(c.Request.Context(), caller, id)
	if err != nil {
		log.Printf("[booking][handler] %s failed booking_id=%s caller_id=%s err=%v", op, id, caller.ID, err)
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromBooking(b))
}

func requireCaller(c *gin.Context) (entities.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.AbortWithStatusJSON(errMissingCaller.HTTPStatus, errMissingCaller.ToHTTPError())
		return entities.Caller{}, false
	}
	return caller, true
}

func mapBookingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidBookingID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidInput):
		return pkg.NewDomainError("INVALID_BOOKING_INPUT", "Invalid booking input", err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnauthorized):
		return pkg.NewDomainErrorSimple("UNAUTHORIZED", "Caller is not allowed to perform this operation", http.StatusForbidden)
	case errors.Is(err, usecase.ErrBookingNotFound):
		return pkg.NewDomainErrorSimple("BOOKING_NOT_FOUND", "Booking not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrIllegalTransition):
		return pkg.NewDomainError("ILLEGAL_TRANSITION", "Operation not allowed in the current booking state", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrGatewayUnavailable):
		return pkg.NewDomainErrorSimple("PAYMENT_GATEWAY_UNAVAILABLE", "Payment gateway not configured", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrGatewayError):
		return pkg.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment provider request failed", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrInvalidSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "Invalid webhook signature", http.StatusBadRequest)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
