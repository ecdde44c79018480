package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-ordering-server/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			respondWithError(w, http.StatusBadRequest, "用户名和密码不能为空")
		case errors.Is(err, service.ErrUsernameTaken):
			respondWithError(w, http.StatusBadRequest, "用户名已存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"message": "注册成功",
		"user":    user.Sanitized(),
		"token":   token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			respondWithError(w, http.StatusBadRequest, "用户名和密码不能为空")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户名不存在，请注册")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "用户名或密码错误")
		default:
			respondWithError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message": "登录成功",
		"user":    user.Sanitized(),
		"token":   token,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	user, err := h.accounts.Get(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "用户不存在")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	respondWithJSON(w, http.StatusOK, user.Sanitized())
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "无效的请求数据")
		return
	}
	id := identityFrom(r)
	err := h.accounts.ChangePassword(r.Context(), id.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			respondWithError(w, http.StatusBadRequest, "请提供当前密码和新密码")
		case errors.Is(err, service.ErrPasswordTooShort):
			respondWithError(w, http.StatusBadRequest, "新密码至少需要6位")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondWithError(w, http.StatusUnauthorized, "当前密码错误")
		default:
			respondWithError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "密码修改成功"})
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	if err := h.accounts.Delete(r.Context(), id.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrAdminImmutable):
			respondWithError(w, http.StatusForbidden, "不允许删除管理员账号")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"success": true, "message": "账号及所有相关数据已永久删除"})
}
