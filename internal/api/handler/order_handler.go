package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/dto"
	"github.com/RoyceAzure/lab/shop/internal/constants"
	"github.com/RoyceAzure/lab/shop/internal/domain/model"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	orderService service.IOrderService
	validate     *validator.Validate
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// writeOrderError 將service層錯誤對應到http狀態碼
func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
	case errors.Is(err, service.ErrOrderNotExist),
		errors.Is(err, service.ErrProductNotExist),
		errors.Is(err, service.ErrUserNotExist):
		api.ErrorJSON(w, http.StatusNotFound, err, "")
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidTransition):
		api.ErrorJSON(w, http.StatusConflict, err, "")
	default:
		api.ErrorJSON(w, http.StatusInternalServerError, nil, "internal server error")
	}
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var placeDTO dto.PlaceOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&placeDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(placeDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), service.PlaceOrderRequest{
		UserID:   placeDTO.UserID,
		Shipping: placeDTO.Shipping.ToModel(),
		Billing:  placeDTO.Billing.ToModel(),
		Notes:    placeDTO.Notes,
		Items:    dto.ToOrderLines(placeDTO.Items),
	})
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.CreatedJSON(w, order)
}

func (h *OrderHandler) DirectCheckout(w http.ResponseWriter, r *http.Request) {
	var checkoutDTO dto.DirectCheckoutDTO
	if err := json.NewDecoder(r.Body).Decode(&checkoutDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(checkoutDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	order, err := h.orderService.DirectCheckout(r.Context(), checkoutDTO.UserID, checkoutDTO.ProductID, checkoutDTO.Quantity)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.CreatedJSON(w, order)
}

func (h *OrderHandler) EditOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid order id")
		return
	}

	var editDTO dto.EditOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&editDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid request body")
		return
	}
	if err := h.validate.Struct(editDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "")
		return
	}

	req := service.EditOrderRequest{
		// items未帶表示本次不更動訂單項目
		UpdateItems: editDTO.Items != nil,
		Items:       dto.ToOrderLines(editDTO.Items),
	}
	if editDTO.Status != nil {
		status := model.OrderStatus(*editDTO.Status)
		req.Status = &status
	}

	order, err := h.orderService.EditOrder(r.Context(), orderID, req)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, order, "")
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid order id")
		return
	}

	order, err := h.orderService.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, order, "order cancelled")
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid order id")
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), orderID); err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, nil, "order deleted")
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, order, "")
}

func (h *OrderHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	order, err := h.orderService.GetOrderByNumber(r.Context(), number)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, order, "")
}

func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUintParam(r, "id")
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err, "invalid user id")
		return
	}

	orders, err := h.orderService.GetOrdersByUserID(r.Context(), userID)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, orders, "")
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var status *model.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(raw)
		if !s.IsValid() {
			api.ErrorJSON(w, http.StatusBadRequest, nil, "invalid order status")
			return
		}
		status = &s
	}

	orders, total, err := h.orderService.GetOrdersPaginated(r.Context(), page, pageSize, status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	api.SuccessJSON(w, map[string]any{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

func parseUintParam(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = constants.DefaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
