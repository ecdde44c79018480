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

func (h *Handler) submitRecharge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	id := identityFrom(r)
	request, err := h.recharges.Submit(r.Context(), id.ID, id.Username, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			respondWithError(w, http.StatusBadRequest, "充值金额必须大于0")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"requestId": request.ID,
		"message":   "充值申请已提交，请等待审核",
	})
}

// listRecharges returns the caller's own requests, or every request for
// admin callers.
func (h *Handler) listRecharges(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	var (
		requests []model.RechargeRequest
		err      error
	)
	if id.IsAdmin {
		requests, err = h.recharges.List(r.Context())
	} else {
		requests, err = h.recharges.ListForUser(r.Context(), id.ID)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

func rechargeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *Handler) resolveRecharge(w http.ResponseWriter, r *http.Request) {
	id, err := rechargeID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的申请编号")
		return
	}
	var req struct {
		Status         string `json:"status"`
		ProcessedBy    string `json:"processedBy"`
		ApprovedAmount *int64 `json:"approvedAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	resolved, err := h.recharges.Resolve(r.Context(), id, req.Status, req.ApprovedAmount, req.ProcessedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDecision):
			respondWithError(w, http.StatusBadRequest, "无效的处理状态")
		case errors.Is(err, service.ErrRequestNotFound):
			respondWithError(w, http.StatusNotFound, "充值申请未找到")
		case errors.Is(err, service.ErrAlreadyResolved):
			respondWithError(w, http.StatusBadRequest, "该申请已被处理")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}

	payload := map[string]any{"success": true}
	if resolved.Status == model.RechargeApproved {
		actual := resolved.Amount
		if resolved.ActualAmount != nil {
			actual = *resolved.ActualAmount
		}
		message := "申请已批准"
		if actual != resolved.Amount {
			message = fmt.Sprintf("申请已批准, 实际充值💓%d", actual)
		}
		payload["message"] = message
		payload["actualAmount"] = actual
	} else {
		payload["message"] = "申请已拒绝"
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func (h *Handler) deleteRecharge(w http.ResponseWriter, r *http.Request) {
	id, err := rechargeID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的申请编号")
		return
	}
	if err := h.recharges.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			respondWithError(w, http.StatusNotFound, "充值申请记录未找到")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "充值申请记录及相关流水已永久删除"})
}
