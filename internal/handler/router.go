package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-ordering-server/internal/auth"
	"restaurant-ordering-server/internal/service"
)

// Handler wires the service layer to the HTTP surface.
type Handler struct {
	accounts   *service.Accounts
	ledger     *service.Ledger
	discounts  *service.Discount
	orders     *service.Orders
	recharges  *service.Recharges
	tokens     *auth.Tokens
	rerollCost int64
}

func New(
	accounts *service.Accounts,
	ledger *service.Ledger,
	discounts *service.Discount,
	orders *service.Orders,
	recharges *service.Recharges,
	tokens *auth.Tokens,
	rerollCost int64,
) *Handler {
	return &Handler{
		accounts:   accounts,
		ledger:     ledger,
		discounts:  discounts,
		orders:     orders,
		recharges:  recharges,
		tokens:     tokens,
		rerollCost: rerollCost,
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// Router builds the full route table.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(Recoverer)

	r.HandleFunc("/health", instrument("/health", h.health)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public.
	api.HandleFunc("/auth/register", instrument("/api/auth/register", h.register)).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", instrument("/api/auth/login", h.login)).Methods(http.MethodPost)
	api.Handle("/menu", h.OptionalAuth(instrument("/api/menu", h.getMenu))).Methods(http.MethodGet)

	// Authenticated.
	authed := func(endpoint string, fn http.HandlerFunc) http.Handler {
		return h.RequireAuth(instrument(endpoint, fn))
	}
	api.Handle("/auth/me", authed("/api/auth/me", h.me)).Methods(http.MethodGet)
	api.Handle("/auth/change-password", authed("/api/auth/change-password", h.changePassword)).Methods(http.MethodPut)
	api.Handle("/auth/delete-account", authed("/api/auth/delete-account", h.deleteAccount)).Methods(http.MethodDelete)
	api.Handle("/refresh-discounts", authed("/api/refresh-discounts", h.refreshDiscounts)).Methods(http.MethodPost)
	api.Handle("/orders", authed("/api/orders", h.submitOrder)).Methods(http.MethodPost)
	api.Handle("/heart-value", authed("/api/heart-value", h.heartValue)).Methods(http.MethodGet)
	api.Handle("/heart-transactions", authed("/api/heart-transactions", h.heartTransactions)).Methods(http.MethodGet)
	api.Handle("/recharge-requests", authed("/api/recharge-requests", h.submitRecharge)).Methods(http.MethodPost)
	api.Handle("/recharge-requests", authed("/api/recharge-requests", h.listRecharges)).Methods(http.MethodGet)

	// Admin.
	admin := func(endpoint string, fn http.HandlerFunc) http.Handler {
		return h.RequireAuth(h.RequireAdmin(instrument(endpoint, fn)))
	}
	api.Handle("/orders", admin("/api/orders", h.listOrders)).Methods(http.MethodGet)
	api.Handle("/orders/{id}", admin("/api/orders/{id}", h.updateOrder)).Methods(http.MethodPut)
	api.Handle("/orders/{id}", admin("/api/orders/{id}", h.deleteOrder)).Methods(http.MethodDelete)
	api.Handle("/recharge-requests/{id}", admin("/api/recharge-requests/{id}", h.resolveRecharge)).Methods(http.MethodPut)
	api.Handle("/recharge-requests/{id}", admin("/api/recharge-requests/{id}", h.deleteRecharge)).Methods(http.MethodDelete)
	api.Handle("/admin/users", admin("/api/admin/users", h.adminListUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users/{id}", admin("/api/admin/users/{id}", h.adminUpdateUser)).Methods(http.MethodPut)
	api.Handle("/admin/users/{id}", admin("/api/admin/users/{id}", h.adminDeleteUser)).Methods(http.MethodDelete)
	api.Handle("/admin/orders", admin("/api/admin/orders", h.listOrders)).Methods(http.MethodGet)
	api.Handle("/admin/recharge-requests", admin("/api/admin/recharge-requests", h.listRecharges)).Methods(http.MethodGet)
	api.Handle("/admin/heart-transactions", admin("/api/admin/heart-transactions", h.adminListTransactions)).Methods(http.MethodGet)

	return r
}
