package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

const garageColumns = `id, name, location, county, phone, email, rating, is_active`

type garageRow struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Location string          `db:"location"`
	County   string          `db:"county"`
	Phone    string          `db:"phone"`
	Email    string          `db:"email"`
	Rating   decimal.Decimal `db:"rating"`
	IsActive bool            `db:"is_active"`
}

func (r garageRow) model() model.Garage {
	return model.Garage(r)
}

type garageRepository struct {
	q queryer
}

func (r *garageRepository) GetByID(ctx context.Context, id int64) (*model.Garage, error) {
	var row garageRow
	if err := r.q.GetContext(ctx, &row, `SELECT `+garageColumns+` FROM garages WHERE id=?`, id); err != nil {
		return nil, notFound(err)
	}
	g := row.model()
	return &g, nil
}

func (r *garageRepository) ListActive(ctx context.Context, county string) ([]model.Garage, error) {
	const query = `SELECT ` + garageColumns + ` FROM garages
                   WHERE is_active = 1 AND (? = '' OR lower(county) = lower(?))
                   ORDER BY CAST(rating AS REAL) DESC, id`
	var rows []garageRow
	if err := r.q.SelectContext(ctx, &rows, query, county, county); err != nil {
		return nil, err
	}
	result := make([]model.Garage, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

const packageColumns = `id, name, description, total_price, discounted_price, is_active, sort_order`

type packageRow struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Description     string          `db:"description"`
	TotalPrice      decimal.Decimal `db:"total_price"`
	DiscountedPrice decimal.Decimal `db:"discounted_price"`
	IsActive        bool            `db:"is_active"`
	SortOrder       int             `db:"sort_order"`
}

type packageItemRow struct {
	PackageID   int64  `db:"package_id"`
	ProductID   int64  `db:"product_id"`
	ProductName string `db:"name"`
	Quantity    int    `db:"quantity"`
}

func (r packageRow) model() model.Package {
	return model.Package{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		TotalPrice:      r.TotalPrice,
		DiscountedPrice: r.DiscountedPrice,
		IsActive:        r.IsActive,
		SortOrder:       r.SortOrder,
	}
}

type packageRepository struct {
	q queryer
}

func (r *packageRepository) items(ctx context.Context, ids []int64) (map[int64][]model.PackageItem, error) {
	result := make(map[int64][]model.PackageItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlx.In(`SELECT pi.package_id, pi.product_id, p.name, pi.quantity
                   FROM package_items pi JOIN products p ON p.id = pi.product_id
                   WHERE pi.package_id IN (?)
                   ORDER BY pi.package_id, pi.product_id`, ids)
	if err != nil {
		return nil, err
	}
	var rows []packageItemRow
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PackageID] = append(result[row.PackageID], model.PackageItem{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
		})
	}
	return result, nil
}

func (r *packageRepository) GetByID(ctx context.Context, id int64) (*model.Package, error) {
	var row packageRow
	if err := r.q.GetContext(ctx, &row, `SELECT `+packageColumns+` FROM packages WHERE id=?`, id); err != nil {
		return nil, notFound(err)
	}
	items, err := r.items(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	p := row.model()
	p.Items = items[p.ID]
	return &p, nil
}

func (r *packageRepository) ListActive(ctx context.Context) ([]model.Package, error) {
	var rows []packageRow
	if err := r.q.SelectContext(ctx, &rows, `SELECT `+packageColumns+` FROM packages WHERE is_active = 1 ORDER BY sort_order, id`); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make([]model.Package, 0, len(rows))
	for _, row := range rows {
		p := row.model()
		p.Items = items[p.ID]
		result = append(result, p)
	}
	return result, nil
}

const licenseColumns = `id, license_key, order_id, user_id, mdvr_serial, vehicle_registration, license_type,
       activation_date, expiry_date, status, created_at`

type licenseRow struct {
	ID                  int64     `db:"id"`
	LicenseKey          string    `db:"license_key"`
	OrderID             *int64    `db:"order_id"`
	UserID              *int64    `db:"user_id"`
	MDVRSerial          string    `db:"mdvr_serial"`
	VehicleRegistration string    `db:"vehicle_registration"`
	Type                string    `db:"license_type"`
	ActivationDate      time.Time `db:"activation_date"`
	ExpiryDate          time.Time `db:"expiry_date"`
	Status              string    `db:"status"`
	CreatedAt           time.Time `db:"created_at"`
}

func (r licenseRow) model() model.License {
	return model.License{
		ID:                  r.ID,
		LicenseKey:          r.LicenseKey,
		OrderID:             r.OrderID,
		UserID:              r.UserID,
		MDVRSerial:          r.MDVRSerial,
		VehicleRegistration: r.VehicleRegistration,
		Type:                model.LicenseType(r.Type),
		ActivationDate:      r.ActivationDate,
		ExpiryDate:          r.ExpiryDate,
		Status:              model.LicenseStatus(r.Status),
		CreatedAt:           r.CreatedAt,
	}
}

type licenseRepository struct {
	q   queryer
	now func() time.Time
}

func (r *licenseRepository) Create(ctx context.Context, l model.License) (*model.License, error) {
	const query = `INSERT INTO licenses (license_key, order_id, user_id, mdvr_serial, vehicle_registration, license_type,
                       activation_date, expiry_date, status, created_at)
                   VALUES (?,?,?,?,?,?,?,?,?,?)`
	l.CreatedAt = r.now()
	res, err := r.q.ExecContext(ctx, query, l.LicenseKey, l.OrderID, l.UserID, l.MDVRSerial, l.VehicleRegistration,
		string(l.Type), l.ActivationDate, l.ExpiryDate, string(l.Status), l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	if l.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *licenseRepository) get(ctx context.Context, query string, arg any) (*model.License, error) {
	var row licenseRow
	if err := r.q.GetContext(ctx, &row, query, arg); err != nil {
		return nil, notFound(err)
	}
	l := row.model()
	return &l, nil
}

func (r *licenseRepository) GetByID(ctx context.Context, id int64) (*model.License, error) {
	return r.get(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id=?`, id)
}

func (r *licenseRepository) GetByVehicle(ctx context.Context, registration string) (*model.License, error) {
	return r.get(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE upper(vehicle_registration)=upper(?)`, registration)
}

func (r *licenseRepository) UpdateTerm(ctx context.Context, l *model.License) error {
	res, err := r.q.ExecContext(ctx, `UPDATE licenses SET expiry_date=?, status=? WHERE id=?`, l.ExpiryDate, string(l.Status), l.ID)
	return affected(res, err)
}
