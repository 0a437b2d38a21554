package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

const orderColumns = `id, order_number, user_id, guest_email, subtotal, tax, shipping, total,
       status, payment_status, payment_method,
       shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city, shipping_county, shipping_postal_code,
       installation_method, garage_id, appointment_at, vehicle_make, vehicle_model, vehicle_registration,
       invoice_url, invoice_qr, tracking_number, tracking_carrier, notes, created_at, updated_at`

const itemColumns = `id, order_id, product_id, product_name, product_sku, product_category, unit_price, quantity, total_price`

type orderRow struct {
	ID                  int64           `db:"id"`
	Number              string          `db:"order_number"`
	UserID              *int64          `db:"user_id"`
	GuestEmail          string          `db:"guest_email"`
	Subtotal            decimal.Decimal `db:"subtotal"`
	Tax                 decimal.Decimal `db:"tax"`
	Shipping            decimal.Decimal `db:"shipping"`
	Total               decimal.Decimal `db:"total"`
	Status              string          `db:"status"`
	PaymentStatus       string          `db:"payment_status"`
	PaymentMethod       string          `db:"payment_method"`
	ShippingName        string          `db:"shipping_name"`
	ShippingPhone       string          `db:"shipping_phone"`
	ShippingEmail       string          `db:"shipping_email"`
	ShippingAddress     string          `db:"shipping_address"`
	ShippingCity        string          `db:"shipping_city"`
	ShippingCounty      string          `db:"shipping_county"`
	ShippingPostalCode  string          `db:"shipping_postal_code"`
	InstallationMethod  *string         `db:"installation_method"`
	GarageID            *int64          `db:"garage_id"`
	AppointmentAt       *time.Time      `db:"appointment_at"`
	VehicleMake         string          `db:"vehicle_make"`
	VehicleModel        string          `db:"vehicle_model"`
	VehicleRegistration string          `db:"vehicle_registration"`
	InvoiceURL          string          `db:"invoice_url"`
	InvoiceQR           string          `db:"invoice_qr"`
	TrackingNumber      string          `db:"tracking_number"`
	TrackingCarrier     string          `db:"tracking_carrier"`
	Notes               string          `db:"notes"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

func (r orderRow) model() model.Order {
	o := model.Order{
		ID:            r.ID,
		Number:        r.Number,
		UserID:        r.UserID,
		GuestEmail:    r.GuestEmail,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		Shipping:      r.Shipping,
		Total:         r.Total,
		Status:        model.OrderStatus(r.Status),
		PaymentStatus: model.PaymentStatus(r.PaymentStatus),
		PaymentMethod: model.PaymentMethod(r.PaymentMethod),
		Address: model.ShippingAddress{
			Name:       r.ShippingName,
			Phone:      r.ShippingPhone,
			Email:      r.ShippingEmail,
			Address:    r.ShippingAddress,
			City:       r.ShippingCity,
			County:     r.ShippingCounty,
			PostalCode: r.ShippingPostalCode,
		},
		InvoiceURL: r.InvoiceURL,
		InvoiceQR:  r.InvoiceQR,
		Tracking:   model.Tracking{Number: r.TrackingNumber, Carrier: r.TrackingCarrier},
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.InstallationMethod != nil {
		o.Installation = &model.Installation{
			Method:              model.InstallationMethod(*r.InstallationMethod),
			GarageID:            r.GarageID,
			Appointment:         r.AppointmentAt,
			VehicleMake:         r.VehicleMake,
			VehicleModel:        r.VehicleModel,
			VehicleRegistration: r.VehicleRegistration,
		}
	}
	return o
}

type itemRow struct {
	ID              int64           `db:"id"`
	OrderID         int64           `db:"order_id"`
	ProductID       int64           `db:"product_id"`
	ProductName     string          `db:"product_name"`
	ProductSKU      string          `db:"product_sku"`
	ProductCategory string          `db:"product_category"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	Quantity        int             `db:"quantity"`
	TotalPrice      decimal.Decimal `db:"total_price"`
}

func (r itemRow) model() model.OrderItem {
	return model.OrderItem{
		ID:              r.ID,
		OrderID:         r.OrderID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		ProductSKU:      r.ProductSKU,
		ProductCategory: model.ProductCategory(r.ProductCategory),
		UnitPrice:       r.UnitPrice,
		Quantity:        r.Quantity,
		TotalPrice:      r.TotalPrice,
	}
}

func loadItems(ctx context.Context, q queryer, orderIDs ...int64) (map[int64][]model.OrderItem, error) {
	result := make(map[int64][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT `+itemColumns+` FROM order_items WHERE order_id IN (?) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.OrderID] = append(result[row.OrderID], row.model())
	}
	return result, nil
}

func getOrder(ctx context.Context, q queryer, query string, args ...any) (*model.Order, error) {
	var row orderRow
	if err := q.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFound(err)
	}
	order := row.model()
	items, err := loadItems(ctx, q, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	order.Items = items[order.ID]
	return &order, nil
}

type orderRepository struct {
	q   queryer
	now func() time.Time
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return getOrder(ctx, r.q, `SELECT `+orderColumns+` FROM orders WHERE id=? AND deleted_at IS NULL`, id)
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		where = []string{"deleted_at IS NULL"}
		args  []any
	)
	if filter.UserID != nil {
		where = append(where, "user_id=?")
		args = append(args, *filter.UserID)
	}
	if filter.GuestEmail != "" {
		where = append(where, "lower(guest_email)=lower(?)")
		args = append(args, filter.GuestEmail)
	}

	var rows []orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC, id DESC`
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := loadItems(ctx, r.q, ids...)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	result := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		o := row.model()
		o.Items = items[o.ID]
		result = append(result, o)
	}
	return result, nil
}

func (r *orderRepository) FindForTracking(ctx context.Context, number, email string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders o
                   WHERE o.order_number=? AND o.deleted_at IS NULL
                     AND (lower(o.shipping_email)=lower(?) OR lower(o.guest_email)=lower(?)
                          OR EXISTS (SELECT 1 FROM users u WHERE u.id=o.user_id AND lower(u.email)=lower(?)))`
	return getOrder(ctx, r.q, query, number, email, email, email)
}

func (r *orderRepository) SetInvoice(ctx context.Context, id int64, url, qr string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE orders SET invoice_url=?, invoice_qr=?, updated_at=? WHERE id=? AND deleted_at IS NULL`,
		url, qr, r.now(), id)
	return affected(res, err)
}

func (r *orderRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE orders SET deleted_at=? WHERE id=? AND deleted_at IS NULL`, r.now(), id)
	return affected(res, err)
}

type txRepository struct {
	tx  *sqlx.Tx
	now func() time.Time
}

func (t *txRepository) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := t.tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM orders WHERE order_number=?)`, number)
	return exists, err
}

func (t *txRepository) InsertOrder(ctx context.Context, o *model.Order) error {
	const query = `INSERT INTO orders (
            order_number, user_id, guest_email, subtotal, tax, shipping, total,
            status, payment_status, payment_method,
            shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city, shipping_county, shipping_postal_code,
            installation_method, garage_id, appointment_at, vehicle_make, vehicle_model, vehicle_registration, notes,
            created_at, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

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

	now := t.now()
	res, err := t.tx.ExecContext(ctx, query,
		o.Number, o.UserID, o.GuestEmail, o.Subtotal, o.Tax, o.Shipping, o.Total,
		string(o.Status), string(o.PaymentStatus), string(o.PaymentMethod),
		o.Address.Name, o.Address.Phone, o.Address.Email, o.Address.Address, o.Address.City, o.Address.County, o.Address.PostalCode,
		installMethod, garageID, appointment, vehicleMake, vehicleModel, plate, o.Notes,
		now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if o.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	o.CreatedAt, o.UpdatedAt = now, now
	return nil
}

func (t *txRepository) InsertOrderItem(ctx context.Context, item *model.OrderItem) error {
	const query = `INSERT INTO order_items (order_id, product_id, product_name, product_sku, product_category, unit_price, quantity, total_price)
                   VALUES (?,?,?,?,?,?,?,?)`
	res, err := t.tx.ExecContext(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductSKU, string(item.ProductCategory),
		item.UnitPrice, item.Quantity, item.TotalPrice,
	)
	if err != nil {
		return err
	}
	item.ID, err = res.LastInsertId()
	return err
}

// DecrementStock is a guarded update; SET expressions see the pre-update row
// so in_stock flips together with the last unit.
func (t *txRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (int, error) {
	const query = `UPDATE products
                   SET stock_quantity = stock_quantity - ?,
                       in_stock = (stock_quantity - ?) > 0,
                       updated_at = ?
                   WHERE id=? AND deleted_at IS NULL AND in_stock = 1 AND stock_quantity >= ?`
	res, err := t.tx.ExecContext(ctx, query, quantity, quantity, t.now(), productID, quantity)
	if err := affected(res, err); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return 0, domainErrors.ErrProductUnavailable
		}
		return 0, err
	}
	var remaining int
	if err := t.tx.GetContext(ctx, &remaining, `SELECT stock_quantity FROM products WHERE id=?`, productID); err != nil {
		return 0, err
	}
	return remaining, nil
}

// LockOrder reads inside the immediate transaction, which already holds the
// database write lock.
func (t *txRepository) LockOrder(ctx context.Context, id int64) (*model.Order, error) {
	return getOrder(ctx, t.tx, `SELECT `+orderColumns+` FROM orders WHERE id=? AND deleted_at IS NULL`, id)
}

func (t *txRepository) SaveOrderStatus(ctx context.Context, o *model.Order) error {
	now := t.now()
	res, err := t.tx.ExecContext(ctx,
		`UPDATE orders SET status=?, tracking_number=?, tracking_carrier=?, updated_at=? WHERE id=? AND deleted_at IS NULL`,
		string(o.Status), o.Tracking.Number, o.Tracking.Carrier, now, o.ID)
	if err := affected(res, err); err != nil {
		return err
	}
	o.UpdatedAt = now
	return nil
}
