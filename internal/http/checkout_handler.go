package http

import (
	"context"
	"net/http"
	"time"

	"github.com/claudiojara/cart-service/internal/domain"
	"github.com/claudiojara/cart-service/internal/service"
	"github.com/sirupsen/logrus"
)

type CheckoutHandler struct {
	service *service.CartService
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewCheckoutHandler(svc *service.CartService, timeout time.Duration, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		timeout: timeout,
		log:     log,
	}
}

type CheckoutResponseDTO struct {
	OrderID     string             `json:"order_id"`
	Status      string             `json:"status"`
	Items       []domain.OrderItem `json:"items"`
	TotalAmount float64            `json:"total_amount"`
	Currency    string             `json:"currency"`
	CreatedAt   string             `json:"created_at"`
}

// POST /checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.service.Checkout(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"request_id": getRequestID(r.Context()),
		"order_id":   order.ID,
	}).Info("checkout completed")

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:     order.ID.String(),
		Status:      string(order.Status),
		Items:       order.Items,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
	})
}
