package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"restaurant-ordering-server/internal/service"
)

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.List(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	var req struct {
		Username   *string `json:"username"`
		Password   *string `json:"password"`
		HeartValue *int64  `json:"heartValue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	changes, err := h.accounts.AdminUpdate(r.Context(), userID, req.Username, req.Password, req.HeartValue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		case errors.Is(err, service.ErrUsernameTaken):
			respondWithError(w, http.StatusBadRequest, "用户名已存在")
		case errors.Is(err, service.ErrPasswordTooShort):
			respondWithError(w, http.StatusBadRequest, "新密码至少需要6位")
		case errors.Is(err, service.ErrInvalidHeartValue):
			respondWithError(w, http.StatusBadRequest, "心动值必须是非负整数")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "用户信息已更新",
		"changes": changes,
	})
}

func (h *Handler) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if err := h.accounts.Delete(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrAdminImmutable):
			respondWithError(w, http.StatusForbidden, "不允许删除管理员账号")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "用户账号及所有相关数据已删除"})
}

func (h *Handler) adminListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledger.AllTransactions(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, txs)
}
