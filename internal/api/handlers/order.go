package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder godoc
//	@Summary		Place an order
//	@Description	Turns the cart into an order in one transaction: stock is decremented, prices are frozen, a pending payment is recorded and the cart is emptied.
//	@Tags			Orders
//	@Produce		json
//	@Success		201	{object}	models.Order			"Order placed"
//	@Failure		422	{object}	response.ErrorResponse	"No shipping address"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409	{object}	response.ErrorResponse	"Cart is empty, or the order could not be placed"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "place order")
		if !ok {
			return
		}

		order, err := h.orderService.PlaceOrder(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Order placement failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order placed", slog.Int64("orderId", order.ID), slog.String("total", order.TotalAmount.StringFixed(2)))
		response.Success(w, http.StatusCreated, order)
	}
}

// GetOrder godoc
//	@Summary		Get an order
//	@Description	Only the owner can read an order. The response includes items and payment.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		int						true	"Order ID"
//	@Success		200	{object}	models.Order			"Order details"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "get order")
		if !ok {
			return
		}

		orderID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims.UserID, orderID)
		if err != nil {
			logger.Warn("Failed to get order", slog.Int64("orderId", orderID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListOrders godoc
//	@Summary		List orders
//	@Description	The caller's orders, newest first.
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int							false	"Page number (default: 1)"
//	@Param			pageSize	query		int							false	"Page size (default: 10, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse	"Orders"
//	@Failure		401			{object}	response.ErrorResponse		"Authentication required"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "list orders")
		if !ok {
			return
		}

		page := utils.QueryInt(r, "page", 1)
		pageSize := utils.QueryInt(r, "pageSize", 10)
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 10
		}
		pageSize = min(pageSize, 100)

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
