package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sergei-eats/lifecycle"
	"sergei-eats/order-svc/internal/domain"

	"github.com/lib/pq"
)

const orderColumns = `id, order_number, user_id, driver_id, restaurant_id, status, order_type,
	subtotal, delivery_fee, tax_amount, discount_amount, total_amount, discount_code,
	payment_method, payment_status, delivery_address,
	delivery_x, delivery_y, delivery_z, pickup_x, pickup_y, pickup_z,
	estimated_delivery_time, actual_delivery_time, special_instructions, cancellation_reason,
	created_at, updated_at, version`

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (r *PostgresStore) Create(ctx context.Context, order lifecycle.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dx, dy, dz := coordinateArgs(order.Delivery)
	px, py, pz := coordinateArgs(order.Pickup)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)
	`, order.ID, order.OrderNumber, order.CustomerID, order.DriverID, order.RestaurantID,
		string(order.Status), string(order.Type),
		order.Subtotal, order.DeliveryFee, order.TaxAmount, order.DiscountAmount, order.TotalAmount, order.DiscountCode,
		string(order.PaymentMethod), string(order.PaymentStatus), order.DeliveryAddress,
		dx, dy, dz, px, py, pz,
		order.EstimatedDeliveryAt, order.ActualDeliveryAt, order.SpecialInstructions, order.CancellationReason,
		order.CreatedAt, order.UpdatedAt, order.Version); err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, item_id, item_name, quantity, unit_price, total_price, special_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, order.ID, item.ItemID, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice, item.SpecialInstructions); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresStore) Get(ctx context.Context, id string) (lifecycle.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return lifecycle.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return lifecycle.Order{}, err
	}

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return lifecycle.Order{}, err
	}
	order.Items = items[id]
	return order, nil
}

func (r *PostgresStore) List(ctx context.Context, filter domain.OrderFilter) ([]lifecycle.Order, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.CustomerID != "" {
		add("user_id = $%d", filter.CustomerID)
	}
	if filter.RestaurantID != "" {
		add("restaurant_id = $%d", filter.RestaurantID)
	}
	if filter.DriverID != "" {
		add("driver_id = $%d", filter.DriverID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Type != "" {
		add("order_type = $%d", string(filter.Type))
	}
	if filter.Unassigned {
		where = append(where, "COALESCE(driver_id, '') = ''")
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []lifecycle.Order{}
	ids := []string{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// Update writes order only if the stored row is still at expectedVersion.
// Line items never change after placement and are left alone.
func (r *PostgresStore) Update(ctx context.Context, order lifecycle.Order, expectedVersion int64) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET driver_id = $1, status = $2, payment_status = $3, actual_delivery_time = $4,
			cancellation_reason = $5, special_instructions = $6, updated_at = $7, version = $8
		WHERE id = $9 AND version = $10
	`, order.DriverID, string(order.Status), string(order.PaymentStatus), order.ActualDeliveryAt,
		order.CancellationReason, order.SpecialInstructions, order.UpdatedAt, order.Version,
		order.ID, expectedVersion)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, order.ID)
	}
	return fmt.Errorf("%w: %s expected version %d", domain.ErrVersionConflict, order.ID, expectedVersion)
}

// Delete removes the order; its items go with it through ON DELETE CASCADE.
func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

// NextOrderNumber continues the SE-YYYY-NNN sequence for year. The first
// number of a year picks up after the highest one already stored.
func (r *PostgresStore) NextOrderNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("SE-%d-", year)
	var seq int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO order_numbers (year, last_seq)
		VALUES ($1, COALESCE((
			SELECT MAX(CAST(SUBSTRING(order_number FROM $3::int) AS INTEGER))
			FROM orders WHERE order_number LIKE $2
		), 0) + 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = order_numbers.last_seq + 1
		RETURNING last_seq
	`, year, prefix+"%", len(prefix)+1).Scan(&seq)
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(year, seq), nil
}

func (r *PostgresStore) SaveQRCode(ctx context.Context, id string, qr []byte) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	return nil
}

func (r *PostgresStore) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	var qrCode []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, id).Scan(&qrCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return qrCode, nil
}

func (r *PostgresStore) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id TEXT NOT NULL,
			driver_id TEXT,
			restaurant_id TEXT NOT NULL,
			status TEXT NOT NULL,
			order_type TEXT NOT NULL,
			subtotal NUMERIC(10,2) NOT NULL,
			delivery_fee NUMERIC(10,2) NOT NULL,
			tax_amount NUMERIC(10,2) NOT NULL,
			discount_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10,2) NOT NULL,
			discount_code TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			delivery_address TEXT,
			delivery_x DOUBLE PRECISION,
			delivery_y DOUBLE PRECISION,
			delivery_z DOUBLE PRECISION,
			pickup_x DOUBLE PRECISION,
			pickup_y DOUBLE PRECISION,
			pickup_z DOUBLE PRECISION,
			estimated_delivery_time TIMESTAMPTZ,
			actual_delivery_time TIMESTAMPTZ,
			special_instructions TEXT,
			cancellation_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version BIGINT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			item_id TEXT NOT NULL,
			item_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(10,2) NOT NULL,
			total_price NUMERIC(10,2) NOT NULL,
			special_instructions TEXT
		)`,
		"ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS qr_code BYTEA",
		`CREATE TABLE IF NOT EXISTS order_numbers (
			year INTEGER PRIMARY KEY,
			last_seq INTEGER NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

// Seed inserts orders that are not stored yet. Used to load the demo order
// book into an empty database.
func (r *PostgresStore) Seed(ctx context.Context, orders []lifecycle.Order) error {
	for _, o := range orders {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := r.Create(ctx, o); err != nil {
			return fmt.Errorf("seed order %s: %w", o.ID, err)
		}
	}
	return nil
}

func (r *PostgresStore) loadItems(ctx context.Context, ids []string) (map[string][]lifecycle.Item, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, item_id, item_name, quantity, unit_price, total_price, special_instructions
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]lifecycle.Item, len(ids))
	for rows.Next() {
		var (
			orderID      string
			item         lifecycle.Item
			instructions sql.NullString
		)
		if err := rows.Scan(&orderID, &item.ItemID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &instructions); err != nil {
			return nil, err
		}
		item.SpecialInstructions = nullString(instructions)
		items[orderID] = append(items[orderID], item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (lifecycle.Order, error) {
	var (
		o                                  lifecycle.Order
		status, orderType, method, payment string
		driverID, address, notes, reason   sql.NullString
		dx, dy, dz, px, py, pz             sql.NullFloat64
		estimated, delivered               sql.NullTime
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &driverID, &o.RestaurantID, &status, &orderType,
		&o.Subtotal, &o.DeliveryFee, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount, &o.DiscountCode,
		&method, &payment, &address,
		&dx, &dy, &dz, &px, &py, &pz,
		&estimated, &delivered, &notes, &reason,
		&o.CreatedAt, &o.UpdatedAt, &o.Version)
	if err != nil {
		return lifecycle.Order{}, err
	}

	o.Status = lifecycle.Status(status)
	o.Type = lifecycle.OrderType(orderType)
	o.PaymentMethod = lifecycle.PaymentMethod(method)
	o.PaymentStatus = lifecycle.PaymentStatus(payment)
	o.DriverID = nullString(driverID)
	o.DeliveryAddress = nullString(address)
	o.SpecialInstructions = nullString(notes)
	o.CancellationReason = nullString(reason)
	o.Delivery = coordinates(dx, dy, dz)
	o.Pickup = coordinates(px, py, pz)
	o.EstimatedDeliveryAt = nullTime(estimated)
	o.ActualDeliveryAt = nullTime(delivered)
	return o, nil
}

func coordinateArgs(c *lifecycle.Coordinates) (x, y, z sql.NullFloat64) {
	if c == nil {
		return
	}
	return sql.NullFloat64{Float64: c.X, Valid: true},
		sql.NullFloat64{Float64: c.Y, Valid: true},
		sql.NullFloat64{Float64: c.Z, Valid: true}
}

func coordinates(x, y, z sql.NullFloat64) *lifecycle.Coordinates {
	if !x.Valid || !y.Valid || !z.Valid {
		return nil
	}
	return &lifecycle.Coordinates{X: x.Float64, Y: y.Float64, Z: z.Float64}
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
