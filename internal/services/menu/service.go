// Package menu implements the restaurant and menu read model. The Provider
// interface is the seam a different catalog source would plug into.
package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"dinehub/internal/database"
	"dinehub/internal/logger"
	"dinehub/internal/models"
)

// ErrNotFound is returned for unknown restaurants or menu items.
var ErrNotFound = errors.New("not found")

// Provider is the read capability the rest of the system depends on:
// given a restaurant id, return its menus and items.
type Provider interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	MenusByRestaurant(ctx context.Context, restaurantID string) ([]models.Menu, error)
	ItemsByMenu(ctx context.Context, menuID int) ([]models.MenuItem, error)
	ItemByID(ctx context.Context, id int) (*models.MenuItem, error)
}

// Service implements Provider over PostgreSQL.
type Service struct {
	db     *database.DB
	logger *logger.Logger
}

// NewService creates a new menu service
func NewService(db *database.DB, log *logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log,
	}
}

// ListRestaurants returns all restaurants ordered by name.
func (s *Service) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := s.db.Query(ctx, database.GetRestaurantsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.Phone, &r.Description, &r.LogoURL, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

// GetRestaurant returns one restaurant.
func (s *Service) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.db.QueryRow(ctx, database.GetRestaurantByIDSQL, id).Scan(
		&r.ID, &r.Name, &r.Address, &r.Phone, &r.Description, &r.LogoURL, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// MenusByRestaurant returns the menus belonging to a restaurant.
func (s *Service) MenusByRestaurant(ctx context.Context, restaurantID string) ([]models.Menu, error) {
	rows, err := s.db.Query(ctx, database.GetMenusByRestaurantSQL, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []models.Menu
	for rows.Next() {
		var m models.Menu
		err := rows.Scan(&m.ID, &m.RestaurantID, &m.Title, &m.Description)
		if err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}

// ItemsByMenu returns the items of a menu with their ingredient relationships.
func (s *Service) ItemsByMenu(ctx context.Context, menuID int) ([]models.MenuItem, error) {
	rows, err := s.db.Query(ctx, database.GetMenuItemsByMenuSQL, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	var itemIDs []int
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(&item.ID, &item.MenuID, &item.Name, &item.Description,
			&item.BasePrice, &item.ImageURL, &item.Category)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		itemIDs = append(itemIDs, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ingredients, err := s.ingredientsForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Ingredients = ingredients[items[i].ID]
	}
	return items, nil
}

// ItemByID returns one menu item with its ingredient relationships.
func (s *Service) ItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.QueryRow(ctx, database.GetMenuItemByIDSQL, id).Scan(
		&item.ID, &item.MenuID, &item.Name, &item.Description,
		&item.BasePrice, &item.ImageURL, &item.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ingredients, err := s.ingredientsForItems(ctx, []int{item.ID})
	if err != nil {
		return nil, err
	}
	item.Ingredients = ingredients[item.ID]
	return &item, nil
}

// ingredientsForItems loads the ingredient relationships for a set of menu
// items in one query, keyed by menu item id.
func (s *Service) ingredientsForItems(ctx context.Context, itemIDs []int) (map[int][]models.MenuItemIngredient, error) {
	rows, err := s.db.Query(ctx, database.GetItemIngredientsSQL, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byItem := make(map[int][]models.MenuItemIngredient)
	for rows.Next() {
		var itemID int
		var rel models.MenuItemIngredient
		err := rows.Scan(&itemID, &rel.IsDefault,
			&rel.Ingredient.ID, &rel.Ingredient.Name,
			&rel.Ingredient.Description, &rel.Ingredient.AdditionalCost)
		if err != nil {
			return nil, err
		}
		byItem[itemID] = append(byItem[itemID], rel)
	}
	return byItem, rows.Err()
}
