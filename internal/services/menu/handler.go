package menu

import (
	"errors"
	"net/http"
	"strconv"

	"dinehub/internal/logger"
	"dinehub/internal/web"
)

// Handler exposes the menu read model over HTTP.
type Handler struct {
	provider Provider
	logger   *logger.Logger
}

// NewHandler creates a new menu handler
func NewHandler(provider Provider, log *logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		logger:   log,
	}
}

// RegisterRoutes attaches the menu endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /restaurants", h.handleListRestaurants)
	mux.HandleFunc("GET /restaurants/{id}", h.handleGetRestaurant)
	mux.HandleFunc("GET /restaurants/{id}/menus", h.handleMenusByRestaurant)
	mux.HandleFunc("GET /menus/{id}/items", h.handleItemsByMenu)
	mux.HandleFunc("GET /menu-items/{id}", h.handleGetItem)
}

func (h *Handler) handleListRestaurants(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	restaurants, err := h.provider.ListRestaurants(r.Context())
	if err != nil {
		h.logger.Error("list_restaurants_failed", "Failed to list restaurants", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to list restaurants", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"restaurants": restaurants})
}

func (h *Handler) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	restaurant, err := h.provider.GetRestaurant(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.WriteError(w, http.StatusNotFound, "Restaurant not found", requestID)
			return
		}
		h.logger.Error("get_restaurant_failed", "Failed to load restaurant", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to load restaurant", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) handleMenusByRestaurant(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	menus, err := h.provider.MenusByRestaurant(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("list_menus_failed", "Failed to list menus", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to list menus", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"menus": menus})
}

func (h *Handler) handleItemsByMenu(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	menuID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid menu id", requestID)
		return
	}

	items, err := h.provider.ItemsByMenu(r.Context(), menuID)
	if err != nil {
		h.logger.Error("list_menu_items_failed", "Failed to list menu items", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to list menu items", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	itemID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid menu item id", requestID)
		return
	}

	item, err := h.provider.ItemByID(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.WriteError(w, http.StatusNotFound, "Menu item not found", requestID)
			return
		}
		h.logger.Error("get_menu_item_failed", "Failed to load menu item", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to load menu item", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, item)
}
