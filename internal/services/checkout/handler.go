package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dinehub/internal/cart"
	"dinehub/internal/logger"
	"dinehub/internal/models"
	"dinehub/internal/web"
)

// Handler handles HTTP requests for carts and checkout
type Handler struct {
	service  *Service
	sessions *cart.Sessions
	logger   *logger.Logger
}

// NewHandler creates a new checkout handler
func NewHandler(service *Service, sessions *cart.Sessions, log *logger.Logger) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		logger:   log,
	}
}

// RegisterRoutes registers the cart and checkout routes on the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("POST /cart/items", h.AddCartItem)
	mux.HandleFunc("DELETE /cart/items/{id}", h.RemoveCartItem)
	mux.HandleFunc("POST /cart/clear", h.ClearCart)
	mux.HandleFunc("POST /checkout", h.SubmitOrder)
	mux.HandleFunc("POST /payments", h.RecordPayment)
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
}

// cartView is the cart response body: the line items plus display totals.
type cartView struct {
	Items  []models.LineItem `json:"items"`
	Totals displayTotals     `json:"totals"`
}

type displayTotals struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Tip      string `json:"tip"`
	Total    string `json:"total"`
}

// GetCart handles GET /cart. Totals are recomputed on every read.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	snapshot := session.Cart.Snapshot()
	web.WriteJSON(w, http.StatusOK, h.cartView(snapshot))
}

// addCartItemRequest is the body for POST /cart/items
type addCartItemRequest struct {
	Item  models.LineItem `json:"item"`
	Delta int             `json:"delta"`
}

// AddCartItem handles POST /cart/items: add, increment or decrement a line.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	var req addCartItemRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if req.Item.ItemID <= 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "item.item_id is required", requestID)
		return
	}

	session := h.session(r)
	session.Cart.AddOrIncrement(req.Item, req.Delta)

	web.WriteJSON(w, http.StatusOK, h.cartView(session.Cart.Snapshot()))
}

// RemoveCartItem handles DELETE /cart/items/{id}
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	itemID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid item id", requestID)
		return
	}

	session := h.session(r)
	session.Cart.Remove(itemID)

	web.WriteJSON(w, http.StatusOK, h.cartView(session.Cart.Snapshot()))
}

// ClearCart handles POST /cart/clear
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	session.Cart.Clear()
	web.WriteJSON(w, http.StatusOK, h.cartView(nil))
}

// submitOrderRequest is the body for POST /checkout. The items come from the
// server-side cart, not the body.
type submitOrderRequest struct {
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
}

// SubmitOrder handles POST /checkout
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	var req submitOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if req.UserID == "" || req.RestaurantID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "user_id and restaurant_id are required", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	session := h.session(r)
	result, err := h.service.SubmitOrder(ctx, session, req.UserID, req.RestaurantID, requestID)
	if err != nil {
		h.writeSubmitError(w, requestID, result, err)
		return
	}

	h.logger.Debug("order_submitted", "Order submitted successfully", requestID, map[string]interface{}{
		"order_id": result.OrderID,
		"total":    result.Totals.Total.StringFixed(2),
	})

	web.WriteJSON(w, http.StatusCreated, result)
}

// writeSubmitError maps workflow errors onto HTTP responses. Partial failures
// are surfaced with the order id so an operator can reconcile.
func (h *Handler) writeSubmitError(w http.ResponseWriter, requestID string, result SubmitResult, err error) {
	var partial *PartialOrderError
	switch {
	case errors.Is(err, ErrEmptyCart):
		h.writeErrorResponse(w, http.StatusBadRequest, "Cart is empty", requestID)
	case errors.Is(err, cart.ErrSubmissionInFlight):
		h.writeErrorResponse(w, http.StatusConflict, "A submission is already in progress", requestID)
	case errors.As(err, &partial):
		h.logger.Error("order_partial_failure", "Order needs reconciliation", requestID, err, map[string]interface{}{
			"order_id":     partial.OrderID,
			"failed_index": partial.FailedIndex,
		})
		web.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":        "Order was only partially written",
			"outcome":      result.Outcome,
			"order_id":     partial.OrderID,
			"failed_index": partial.FailedIndex,
			"request_id":   requestID,
		})
	default:
		h.logger.Error("order_submission_failed", "Failed to submit order", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Order submission failed, please retry", requestID)
	}
}

// RecordPayment handles POST /payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	var req models.RecordPaymentRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	paymentID, err := h.service.RecordPayment(ctx, &req, requestID)
	if err != nil {
		var dangling *DanglingPaymentError
		switch {
		case errors.Is(err, ErrOrderNotFound):
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
		case errors.As(err, &dangling):
			web.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":      "Payment recorded but order status is stale",
				"order_id":   dangling.OrderID,
				"payment_id": dangling.PaymentID,
				"request_id": requestID,
			})
		default:
			h.logger.Error("payment_recording_failed", "Failed to record payment", requestID, err, map[string]interface{}{
				"order_id": req.OrderID,
			})
			h.writeErrorResponse(w, http.StatusInternalServerError, "Payment recording failed", requestID)
		}
		return
	}

	web.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"payment_id": paymentID,
		"order_id":   req.OrderID,
	})
}

// ListOrders handles GET /orders?user_id=...
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "user_id query parameter is required", requestID)
		return
	}

	orders, err := h.service.OrdersByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("orders_query_failed", "Failed to list orders", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetOrder handles GET /orders/{id} returning the order with items and payments
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	orderID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	order, err := h.service.OrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_query_failed", "Failed to load order", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	items, err := h.service.ItemsByOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Error("order_items_query_failed", "Failed to load order items", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	payments, err := h.service.PaymentsByOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Error("payments_query_failed", "Failed to load payments", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"order":    order,
		"items":    items,
		"payments": payments,
	})
}

// session resolves the caller's session from the X-Session-ID header, falling
// back to the remote host so anonymous browsing still gets a cart.
func (h *Handler) session(r *http.Request) *cart.Session {
	return h.sessions.Get(web.ClientSession(r))
}

func (h *Handler) cartView(snapshot []models.LineItem) cartView {
	totals := h.service.Totals(snapshot).Rounded()
	items := snapshot
	if items == nil {
		items = []models.LineItem{}
	}
	return cartView{
		Items: items,
		Totals: displayTotals{
			Subtotal: totals.Subtotal.StringFixed(2),
			Tax:      totals.Tax.StringFixed(2),
			Tip:      totals.Tip.StringFixed(2),
			Total:    totals.Total.StringFixed(2),
		},
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	web.WriteError(w, statusCode, message, requestID)
}
