package handlers

import (
	"log"
	"net/http"
	"strings"

	response "careconnect/internal/adapter/http/dto/response"
	"careconnect/internal/usecase"
	"careconnect/pkg"

	"github.com/gin-gonic/gin"
)

const (
	headerSignature = "x-signature"
	headerRequestID = "x-request-id"
)

// PaymentWebhookHandler receives payment provider notifications.
//
// The body is read raw and handed over untouched; the provider signs the
// query id and request id, not the JSON.
type PaymentWebhookHandler struct {
	usecase usecase.IPaymentWebhookUseCase
}

func NewPaymentWebhookHandler(uc usecase.IPaymentWebhookUseCase) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{usecase: uc}
}

func (h *PaymentWebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		log.Printf("[payment][handler] webhook body read failed err=%v", err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	topic := strings.TrimSpace(c.Query("type"))
	if topic == "" {
		topic = strings.TrimSpace(c.Query("topic"))
	}
	delivery := usecase.WebhookDelivery{
		Signature: c.GetHeader(headerSignature),
		RequestID: c.GetHeader(headerRequestID),
		DataID:    c.Query("data.id"),
		Topic:     topic,
		Body:      body,
	}

	outcome, err := h.usecase.Handle(c.Request.Context(), delivery)
	if err != nil {
		appErr := mapBookingError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.WebhookAckResponse{Status: string(outcome)})
}
