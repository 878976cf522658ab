package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Restaurant represents a venue a user can order from
type Restaurant struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Address     string    `json:"address" db:"address"`
	Phone       string    `json:"phone" db:"phone"`
	Description string    `json:"description" db:"description"`
	LogoURL     *string   `json:"logo_url,omitempty" db:"logo_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Menu represents a named menu belonging to a restaurant
type Menu struct {
	ID           int    `json:"id" db:"id"`
	RestaurantID string `json:"restaurant_id" db:"restaurant_id"`
	Title        string `json:"title" db:"title"`
	Description  string `json:"description" db:"description"`
}

// MenuItem represents a single orderable dish on a menu
type MenuItem struct {
	ID          int                  `json:"id" db:"id"`
	MenuID      int                  `json:"menu_id" db:"menu_id"`
	Name        string               `json:"name" db:"name"`
	Description string               `json:"description" db:"description"`
	BasePrice   decimal.Decimal      `json:"base_price" db:"base_price"`
	ImageURL    *string              `json:"image_url,omitempty" db:"image_url"`
	Category    *string              `json:"category,omitempty" db:"category"`
	Ingredients []MenuItemIngredient `json:"ingredients,omitempty"`
}

// Ingredient represents an ingredient that can appear on menu items
type Ingredient struct {
	ID             int             `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	AdditionalCost decimal.Decimal `json:"additional_cost" db:"additional_cost"`
}

// MenuItemIngredient links an ingredient to a menu item.
// IsDefault marks ingredients included without a customization.
type MenuItemIngredient struct {
	IsDefault  bool       `json:"is_default" db:"is_default"`
	Ingredient Ingredient `json:"ingredient"`
}
