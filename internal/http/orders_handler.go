package http

import (
	"context"
	"net/http"
	"time"

	"github.com/claudiojara/cart-service/internal/service"
)

type OrdersHandler struct {
	service *service.CartService
	timeout time.Duration
}

func NewOrdersHandler(svc *service.CartService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		service: svc,
		timeout: timeout,
	}
}

type OrderItemDTO struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderResponseDTO struct {
	ID          string         `json:"id"`
	TotalAmount float64        `json:"total_amount"`
	Currency    string         `json:"currency"`
	Status      string         `json:"status"`
	Items       []OrderItemDTO `json:"items"`
	CreatedAt   string         `json:"created_at"`
}

// GET /orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderList, err := h.service.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	out := make([]OrderResponseDTO, 0, len(orderList))
	for _, order := range orderList {
		dto := OrderResponseDTO{
			ID:          order.ID.String(),
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
			Status:      string(order.Status),
			CreatedAt:   order.CreatedAt.Format(time.RFC3339),
			Items:       make([]OrderItemDTO, len(order.Items)),
		}
		for i, item := range order.Items {
			dto.Items[i] = OrderItemDTO{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.UnitPrice,
			}
		}
		out = append(out, dto)
	}

	respondJSON(w, http.StatusOK, out)
}
