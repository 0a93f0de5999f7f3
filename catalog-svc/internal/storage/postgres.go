package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sergei-eats/catalog-svc/internal/domain"
	"sergei-eats/pricing"
	"sergei-eats/provider"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	restaurantColumns = `id, name, description, job_name, phone, email, address,
	location_x, location_y, location_z, pickup_x, pickup_y, pickup_z,
	is_active, delivery_radius, min_order_amount, delivery_fee, tax_rate,
	cuisine_type, rating, total_orders, opening_hours`

	menuItemColumns = `id, restaurant_id, category_id, name, description, price, original_price, image_url,
	is_available, is_featured, allergens, calories, protein, carbs, fat, preparation_time, sort_order`

	discountColumns = `id, code, name, description, type, value, min_order_amount, max_discount_amount,
	usage_limit, used_count, is_active, valid_from, valid_until`
)

type PostgresRepository struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db, Now: time.Now}
}

func (r *PostgresRepository) ListRestaurants(ctx context.Context) ([]provider.Restaurant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE is_active
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := []provider.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, rest)
	}
	return restaurants, rows.Err()
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, id string) (*provider.Restaurant, error) {
	rest, err := scanRestaurant(r.DB.QueryRowContext(ctx, `
		SELECT `+restaurantColumns+`
		FROM restaurants
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("restaurant %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, restaurantID string) ([]provider.MenuCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(description, ''), sort_order, is_active
		FROM menu_categories
		WHERE restaurant_id = $1 AND is_active
		ORDER BY sort_order, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []provider.MenuCategory{}
	for rows.Next() {
		var c provider.MenuCategory
		if err := rows.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.Description, &c.SortOrder, &c.IsActive); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, restaurantID string) ([]provider.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE restaurant_id = $1 AND is_available
		ORDER BY category_id, sort_order, id`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []provider.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetMenuItem returns unavailable items too so callers can say why an item
// cannot be ordered.
func (r *PostgresRepository) GetMenuItem(ctx context.Context, id string) (*provider.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListActiveDiscounts(ctx context.Context) ([]pricing.Discount, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+discountColumns+`
		FROM discounts
		WHERE is_active
			AND valid_from <= $1 AND valid_until >= $1
			AND (usage_limit IS NULL OR used_count < usage_limit)
		ORDER BY code`, r.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	discounts := []pricing.Discount{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		discounts = append(discounts, d)
	}
	return discounts, rows.Err()
}

// FindDiscountByCode returns nil, nil for an unknown code.
func (r *PostgresRepository) FindDiscountByCode(ctx context.Context, code string) (*pricing.Discount, error) {
	d, err := scanDiscount(r.DB.QueryRowContext(ctx, `
		SELECT `+discountColumns+`
		FROM discounts
		WHERE code = $1`, pricing.NormalizeCode(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepository) IssueDiscount(ctx context.Context, d pricing.Discount) (*pricing.Discount, error) {
	d.Code = pricing.NormalizeCode(d.Code)
	d.UsedCount = 0
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	var id string
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO discounts (`+discountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO NOTHING
		RETURNING id`,
		d.ID, d.Code, d.Name, d.Description, string(d.Type), d.Value, d.MinOrderAmount, d.MaxDiscountAmount,
		d.UsageLimit, d.UsedCount, d.IsActive, d.ValidFrom, d.ValidUntil,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", d.Code, domain.ErrDuplicateCode)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// RedeemDiscount counts one use of code, atomically against the usage limit.
func (r *PostgresRepository) RedeemDiscount(ctx context.Context, code string) error {
	code = pricing.NormalizeCode(code)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE discounts
		SET used_count = used_count + 1
		WHERE code = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`, code)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM discounts WHERE code = $1)`, code).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("discount %s: %w", code, domain.ErrNotFound)
	}
	return pricing.ErrDiscountExhausted
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			job_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			location_x DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_y DOUBLE PRECISION NOT NULL DEFAULT 0,
			location_z DOUBLE PRECISION NOT NULL DEFAULT 0,
			pickup_x DOUBLE PRECISION NOT NULL DEFAULT 0,
			pickup_y DOUBLE PRECISION NOT NULL DEFAULT 0,
			pickup_z DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			delivery_radius DOUBLE PRECISION NOT NULL DEFAULT 0,
			min_order_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0,
			tax_rate NUMERIC(6,4) NOT NULL DEFAULT 0,
			cuisine_type TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_orders INTEGER NOT NULL DEFAULT 0,
			opening_hours JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_categories (
			id SERIAL PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
			category_id INTEGER,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			original_price NUMERIC(10,2),
			image_url TEXT,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			allergens TEXT[] NOT NULL DEFAULT '{}',
			calories INTEGER NOT NULL DEFAULT 0,
			protein DOUBLE PRECISION NOT NULL DEFAULT 0,
			carbs DOUBLE PRECISION NOT NULL DEFAULT 0,
			fat DOUBLE PRECISION NOT NULL DEFAULT 0,
			preparation_time INTEGER NOT NULL DEFAULT 0,
			sort_order INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS discounts (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			value NUMERIC(10,2) NOT NULL,
			min_order_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			max_discount_amount NUMERIC(10,2),
			usage_limit INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			valid_from TIMESTAMPTZ NOT NULL,
			valid_until TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items (restaurant_id)",
		"CREATE INDEX IF NOT EXISTS idx_menu_categories_restaurant ON menu_categories (restaurant_id)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

// Seed loads a catalog into the tables, skipping rows that already exist.
func (r *PostgresRepository) Seed(ctx context.Context, seed *provider.Seed) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rest := range seed.Restaurants {
		hours, err := json.Marshal(rest.OpeningHours)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO restaurants (`+restaurantColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
			ON CONFLICT (id) DO NOTHING`,
			rest.ID, rest.Name, rest.Description, rest.JobName, rest.Phone, rest.Email, rest.Address,
			rest.Location.X, rest.Location.Y, rest.Location.Z, rest.Pickup.X, rest.Pickup.Y, rest.Pickup.Z,
			rest.IsActive, rest.DeliveryRadius, rest.MinOrderAmount, rest.DeliveryFee, rest.TaxRate,
			rest.CuisineType, rest.Rating, rest.TotalOrders, hours); err != nil {
			return fmt.Errorf("seed restaurant %s: %w", rest.ID, err)
		}
	}

	for _, c := range seed.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_categories (id, restaurant_id, name, description, sort_order, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING`,
			c.ID, c.RestaurantID, c.Name, c.Description, c.SortOrder, c.IsActive); err != nil {
			return fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}

	for _, it := range seed.MenuItems {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (`+menuItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (id) DO NOTHING`,
			it.ID, it.RestaurantID, it.CategoryID, it.Name, it.Description, it.Price, it.OriginalPrice, it.ImageURL,
			it.IsAvailable, it.IsFeatured, pq.Array(it.Allergens),
			it.Nutrition.Calories, it.Nutrition.Protein, it.Nutrition.Carbs, it.Nutrition.Fat,
			it.PreparationTime, it.SortOrder); err != nil {
			return fmt.Errorf("seed menu item %s: %w", it.ID, err)
		}
	}

	for _, d := range seed.Discounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO discounts (`+discountColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (code) DO NOTHING`,
			d.ID, pricing.NormalizeCode(d.Code), d.Name, d.Description, string(d.Type), d.Value, d.MinOrderAmount,
			d.MaxDiscountAmount, d.UsageLimit, d.UsedCount, d.IsActive, d.ValidFrom, d.ValidUntil); err != nil {
			return fmt.Errorf("seed discount %s: %w", d.Code, err)
		}
	}

	// Explicit category ids leave the serial behind.
	if _, err := tx.ExecContext(ctx,
		`SELECT setval('menu_categories_id_seq', GREATEST((SELECT COALESCE(MAX(id), 0) FROM menu_categories), 1))`); err != nil {
		return err
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRestaurant(row rowScanner) (provider.Restaurant, error) {
	var (
		rest  provider.Restaurant
		hours []byte
	)
	err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.JobName, &rest.Phone, &rest.Email, &rest.Address,
		&rest.Location.X, &rest.Location.Y, &rest.Location.Z, &rest.Pickup.X, &rest.Pickup.Y, &rest.Pickup.Z,
		&rest.IsActive, &rest.DeliveryRadius, &rest.MinOrderAmount, &rest.DeliveryFee, &rest.TaxRate,
		&rest.CuisineType, &rest.Rating, &rest.TotalOrders, &hours)
	if err != nil {
		return provider.Restaurant{}, err
	}
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &rest.OpeningHours); err != nil {
			return provider.Restaurant{}, fmt.Errorf("restaurant %s opening hours: %w", rest.ID, err)
		}
	}
	return rest, nil
}

func scanMenuItem(row rowScanner) (provider.MenuItem, error) {
	var (
		it            provider.MenuItem
		categoryID    sql.NullInt64
		originalPrice sql.NullFloat64
		imageURL      sql.NullString
	)
	err := row.Scan(&it.ID, &it.RestaurantID, &categoryID, &it.Name, &it.Description, &it.Price, &originalPrice, &imageURL,
		&it.IsAvailable, &it.IsFeatured, pq.Array(&it.Allergens),
		&it.Nutrition.Calories, &it.Nutrition.Protein, &it.Nutrition.Carbs, &it.Nutrition.Fat,
		&it.PreparationTime, &it.SortOrder)
	if err != nil {
		return provider.MenuItem{}, err
	}
	it.CategoryID = int(categoryID.Int64)
	if originalPrice.Valid {
		it.OriginalPrice = &originalPrice.Float64
	}
	if imageURL.Valid {
		it.ImageURL = &imageURL.String
	}
	return it, nil
}

func scanDiscount(row rowScanner) (pricing.Discount, error) {
	var (
		d          pricing.Discount
		discType   string
		maxAmount  sql.NullFloat64
		usageLimit sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Description, &discType, &d.Value, &d.MinOrderAmount, &maxAmount,
		&usageLimit, &d.UsedCount, &d.IsActive, &d.ValidFrom, &d.ValidUntil)
	if err != nil {
		return pricing.Discount{}, err
	}
	d.Type = pricing.DiscountType(discType)
	if maxAmount.Valid {
		d.MaxDiscountAmount = &maxAmount.Float64
	}
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		d.UsageLimit = &limit
	}
	return d, nil
}
