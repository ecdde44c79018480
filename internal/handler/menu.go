package handler

import (
	"errors"
	"fmt"
	"net/http"

	"restaurant-ordering-server/internal/menu"
	"restaurant-ordering-server/internal/model"
	"restaurant-ordering-server/internal/service"
)

// getMenu serves the full menu, with the caller's daily discounts when a
// valid token accompanies the request.
func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	var userID string
	discounts := &model.UserDiscounts{DiscountedItems: []model.DiscountedItem{}}

	if id := identityFrom(r); id != nil {
		userID = id.ID
		if rec, err := h.discounts.GetOrCreate(r.Context(), userID); err == nil {
			discounts = rec
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"categories":     menu.Categories(),
		"dishes":         menu.Dishes(),
		"dailyDiscounts": discounts,
		"isPersonalized": userID != "",
		"userId":         userID,
	})
}

func (h *Handler) refreshDiscounts(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	rec, newBalance, err := h.discounts.Reroll(r.Context(), id.ID, id.Username)
	if err != nil {
		var insufficient *service.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			respondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("心动值不足！刷新折扣需要💓%d，当前只有💓%d", insufficient.Required, insufficient.Available))
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "用户不存在")
		default:
			respondWithError(w, http.StatusInternalServerError, "服务器错误")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("专属折扣已刷新！消费💓%d", h.rerollCost),
		"discountData":  rec,
		"newHeartValue": newBalance,
	})
}

func (h *Handler) heartValue(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	balance, err := h.ledger.Balance(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "用户不存在")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"heartValue": balance})
}

func (h *Handler) heartTransactions(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r)
	txs, err := h.ledger.History(r.Context(), id.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "服务器错误")
		return
	}
	respondWithJSON(w, http.StatusOK, txs)
}
