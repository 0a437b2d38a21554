package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

const orderColumns = `id, order_number, user_id, guest_email, subtotal, tax, shipping, total,
       status, payment_status, payment_method,
       shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city, shipping_county, shipping_postal_code,
       installation_method, garage_id, appointment_at, vehicle_make, vehicle_model, vehicle_registration,
       invoice_url, invoice_qr, tracking_number, tracking_carrier, notes, created_at, updated_at`

const itemColumns = `id, order_id, product_id, product_name, product_sku, product_category, unit_price, quantity, total_price`

type orderRepository struct {
	q querier
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o                                    model.Order
		status, paymentStatus, paymentMethod string
		installMethod                        *string
		garageID                             *int64
		appointment                          *time.Time
		vehicleMake, vehicleModel, plate     string
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.GuestEmail, &o.Subtotal, &o.Tax, &o.Shipping, &o.Total,
		&status, &paymentStatus, &paymentMethod,
		&o.Address.Name, &o.Address.Phone, &o.Address.Email, &o.Address.Address, &o.Address.City, &o.Address.County, &o.Address.PostalCode,
		&installMethod, &garageID, &appointment, &vehicleMake, &vehicleModel, &plate,
		&o.InvoiceURL, &o.InvoiceQR, &o.Tracking.Number, &o.Tracking.Carrier, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	o.PaymentStatus = model.PaymentStatus(paymentStatus)
	o.PaymentMethod = model.PaymentMethod(paymentMethod)
	if installMethod != nil {
		o.Installation = &model.Installation{
			Method:              model.InstallationMethod(*installMethod),
			GarageID:            garageID,
			Appointment:         appointment,
			VehicleMake:         vehicleMake,
			VehicleModel:        vehicleModel,
			VehicleRegistration: plate,
		}
	}
	return &o, nil
}

func scanItem(row rowScanner) (model.OrderItem, error) {
	var (
		item     model.OrderItem
		category string
	)
	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductSKU, &category,
		&item.UnitPrice, &item.Quantity, &item.TotalPrice)
	item.ProductCategory = model.ProductCategory(category)
	return item, err
}

func loadItems(ctx context.Context, q querier, orderIDs ...int64) (map[int64][]model.OrderItem, error) {
	result := make(map[int64][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	rows, err := q.Query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func getOrder(ctx context.Context, q querier, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	items, err := loadItems(ctx, q, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return getOrder(ctx, r.q, `SELECT `+orderColumns+` FROM orders WHERE id=$1 AND deleted_at IS NULL`, id)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		where = []string{"deleted_at IS NULL"}
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.GuestEmail != "" {
		args = append(args, filter.GuestEmail)
		where = append(where, fmt.Sprintf("lower(guest_email)=lower($%d)", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []model.Order
		ids    []int64
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := loadItems(ctx, r.q, ids...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

func (r *orderRepository) FindForTracking(ctx context.Context, number, email string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders o
                   WHERE o.order_number=$1 AND o.deleted_at IS NULL
                     AND (lower(o.shipping_email)=lower($2) OR lower(o.guest_email)=lower($2)
                          OR EXISTS (SELECT 1 FROM users u WHERE u.id=o.user_id AND lower(u.email)=lower($2)))`
	return getOrder(ctx, r.q, query, number, email)
}

func (r *orderRepository) SetInvoice(ctx context.Context, id int64, url, qr string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET invoice_url=$2, invoice_qr=$3, updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id, url, qr)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET deleted_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- Tx implementation ---

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=$1)`, number).Scan(&exists)
	return exists, err
}

func (t *txRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	const query = `INSERT INTO orders (
            order_number, user_id, guest_email, subtotal, tax, shipping, total,
            status, payment_status, payment_method,
            shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city, shipping_county, shipping_postal_code,
            installation_method, garage_id, appointment_at, vehicle_make, vehicle_model, vehicle_registration, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
        RETURNING id, created_at, updated_at`

	var (
		installMethod                    *string
		garageID                         *int64
		appointment                      *time.Time
		vehicleMake, vehicleModel, plate string
	)
	if inst := o.Installation; inst != nil {
		m := string(inst.Method)
		installMethod = &m
		garageID = inst.GarageID
		appointment = inst.Appointment
		vehicleMake, vehicleModel, plate = inst.VehicleMake, inst.VehicleModel, inst.VehicleRegistration
	}

	err := t.tx.QueryRow(ctx, query,
		o.Number, o.UserID, o.GuestEmail, o.Subtotal, o.Tax, o.Shipping, o.Total,
		string(o.Status), string(o.PaymentStatus), string(o.PaymentMethod),
		o.Address.Name, o.Address.Phone, o.Address.Email, o.Address.Address, o.Address.City, o.Address.County, o.Address.PostalCode,
		installMethod, garageID, appointment, vehicleMake, vehicleModel, plate, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (t *txRepository) InsertOrderItem(ctx context.Context, item *model.OrderItem) error {
	const query = `INSERT INTO order_items (order_id, product_id, product_name, product_sku, product_category, unit_price, quantity, total_price)
                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	return t.tx.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductSKU, string(item.ProductCategory),
		item.UnitPrice, item.Quantity, item.TotalPrice,
	).Scan(&item.ID)
}

// DecrementStock relies on the row lock taken by UPDATE; the WHERE clause is
// re-evaluated against the latest committed row.
func (t *txRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (int, error) {
	const query = `UPDATE products
                   SET stock_quantity = stock_quantity - $2,
                       in_stock = stock_quantity - $2 > 0,
                       updated_at = NOW()
                   WHERE id=$1 AND deleted_at IS NULL AND in_stock AND stock_quantity >= $2
                   RETURNING stock_quantity`
	var remaining int
	if err := t.tx.QueryRow(ctx, query, productID, quantity).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrProductUnavailable
		}
		return 0, err
	}
	return remaining, nil
}

func (t *txRepository) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	return getOrder(ctx, t.tx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 AND deleted_at IS NULL FOR UPDATE`, id)
}

func (t *txRepository) SaveOrderStatus(ctx context.Context, o *model.Order) error {
	const query = `UPDATE orders SET status=$2, tracking_number=$3, tracking_carrier=$4, updated_at=NOW()
                   WHERE id=$1 AND deleted_at IS NULL RETURNING updated_at`
	err := t.tx.QueryRow(ctx, query, o.ID, string(o.Status), o.Tracking.Number, o.Tracking.Carrier).Scan(&o.UpdatedAt)
	return notFound(err)
}
