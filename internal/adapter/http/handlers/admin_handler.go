package handlers

import (
	"context"
	"log"
	"net/http"

	response "careconnect/internal/adapter/http/dto/response"
	"careconnect/internal/usecase"

	"github.com/gin-gonic/gin"
)

type paymentReleaser interface {
	ReleaseDuePayments(ctx context.Context) (usecase.ReleaseSummary, error)
}

// AdminHandler runs operational tasks on demand. Routes are admin-only.
type AdminHandler struct {
	releaser paymentReleaser
}

func NewAdminHandler(r paymentReleaser) *AdminHandler {
	return &AdminHandler{releaser: r}
}

// ReleasePayments runs one release cycle immediately.
func (h *AdminHandler) ReleasePayments(c *gin.Context) {
	summary, err := h.releaser.ReleaseDuePayments(c.Request.Context())
	if err != nil {
		log.Printf("[booking][handler] manual release failed err=%v", err)
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromReleaseSummary(summary))
}
