package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (user_id, restaurant_id, total_amount, order_status, payment_status)
		VALUES ($1, $2, $3, 'pending', 'pending')
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, menu_item_id, quantity, customizations)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	UpdateOrderStatusSQL = `
		UPDATE orders SET order_status = $1, payment_status = COALESCE($2, payment_status)
		WHERE id = $3 AND order_status = $4
		RETURNING id`

	GetOrderByIDSQL = `
		SELECT id, user_id, restaurant_id, total_amount, order_status, payment_status, created_at
		FROM orders WHERE id = $1`

	GetOrdersByUserSQL = `
		SELECT id, user_id, restaurant_id, total_amount, order_status, payment_status, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	GetOrderItemsByOrderSQL = `
		SELECT id, order_id, menu_item_id, quantity, customizations
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`
)

// Payment queries
const (
	InsertPaymentSQL = `
		INSERT INTO payments (order_id, payment_method, transaction_id, amount, payment_date, payment_status)
		VALUES ($1, $2, $3, $4, NOW(), 'completed')
		RETURNING id`

	GetPaymentsByOrderSQL = `
		SELECT id, order_id, payment_method, transaction_id, amount, payment_date, payment_status
		FROM payments
		WHERE order_id = $1
		ORDER BY payment_date ASC`
)

// Restaurant and menu queries
const (
	GetRestaurantsSQL = `
		SELECT id, name, address, phone, description, logo_url, created_at
		FROM restaurants
		ORDER BY name ASC`

	GetRestaurantByIDSQL = `
		SELECT id, name, address, phone, description, logo_url, created_at
		FROM restaurants WHERE id = $1`

	GetMenusByRestaurantSQL = `
		SELECT id, restaurant_id, title, description
		FROM menus
		WHERE restaurant_id = $1
		ORDER BY id ASC`

	GetMenuItemsByMenuSQL = `
		SELECT id, menu_id, name, description, base_price, image_url, category
		FROM menu_items
		WHERE menu_id = $1
		ORDER BY id ASC`

	GetMenuItemByIDSQL = `
		SELECT id, menu_id, name, description, base_price, image_url, category
		FROM menu_items WHERE id = $1`

	GetItemIngredientsSQL = `
		SELECT mii.menu_item_id, mii.is_default, i.id, i.name, i.description, i.additional_cost
		FROM menu_item_ingredients mii
		JOIN ingredients i ON i.id = mii.ingredient_id
		WHERE mii.menu_item_id = ANY($1)
		ORDER BY i.name ASC`
)

// Chat history queries
const (
	InsertChatMessageSQL = `
		INSERT INTO chat_histories (session_id, message, started_at, ended_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	GetChatHistoryBySessionSQL = `
		SELECT id, session_id, message, started_at, ended_at
		FROM chat_histories
		WHERE session_id = $1
		ORDER BY started_at ASC`

	EndChatSessionSQL = `
		UPDATE chat_histories SET ended_at = NOW()
		WHERE session_id = $1 AND ended_at IS NULL`
)

// Admin access queries
const (
	GetActiveAccessCodeSQL = `
		SELECT id, access_code, description, is_active, created_at, updated_at, last_used_at
		FROM admin_access
		WHERE access_code = $1 AND is_active = TRUE`

	TouchAccessCodeSQL = `
		UPDATE admin_access SET last_used_at = NOW() WHERE id = $1`

	InsertAccessCodeSQL = `
		INSERT INTO admin_access (id, access_code, description, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id`

	InsertAdminSessionSQL = `
		INSERT INTO admin_sessions (id, access_code_id, expires_at, is_active)
		VALUES ($1, $2, $3, TRUE)`

	GetAdminSessionSQL = `
		SELECT id, access_code_id, created_at, last_accessed_at, expires_at, is_active
		FROM admin_sessions
		WHERE id = $1 AND is_active = TRUE AND expires_at > NOW()`

	TouchAdminSessionSQL = `
		UPDATE admin_sessions SET last_accessed_at = NOW() WHERE id = $1`

	InvalidateAdminSessionSQL = `
		UPDATE admin_sessions SET is_active = FALSE, expires_at = NOW() WHERE id = $1`
)
