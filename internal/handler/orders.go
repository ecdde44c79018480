package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/service"
)

type orderRequest struct {
	Items        []model.OrderItem `json:"items"`
	Total        int64             `json:"total"`
	CustomerInfo string            `json:"customerInfo"`
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	id := identityFrom(r)
	order, err := h.orders.Submit(r.Context(), id.ID, id.Username, req.Items, req.Total, req.CustomerInfo)
	if err != nil {
		var insufficient *service.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("心动值不足！需要💓%d，当前只有💓%d", insufficient.Required, insufficient.Available))
		case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrTotalMismatch):
			respondWithError(w, http.StatusBadRequest, "无效的订单数据")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "orderId": order.ID})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的订单号")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondWithError(w, http.StatusBadRequest, "无效的订单状态")
		case errors.Is(err, service.ErrOrderNotFound):
			respondWithError(w, http.StatusNotFound, "订单未找到")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的订单号")
		return
	}
	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "订单未找到")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "订单已永久删除"})
}
