package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
)

// --- GarageRepository implementation ---

const garageColumns = `id, name, location, county, phone, email, rating, is_active`

type garageRepository struct {
	q querier
}

func scanGarage(row rowScanner) (*model.Garage, error) {
	var g model.Garage
	if err := row.Scan(&g.ID, &g.Name, &g.Location, &g.County, &g.Phone, &g.Email, &g.Rating, &g.IsActive); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *garageRepository) GetByID(ctx context.Context, id int64) (*model.Garage, error) {
	g, err := scanGarage(r.q.QueryRow(ctx, `SELECT `+garageColumns+` FROM garages WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (r *garageRepository) ListActive(ctx context.Context, county string) ([]model.Garage, error) {
	const query = `SELECT ` + garageColumns + ` FROM garages
                   WHERE is_active AND ($1 = '' OR lower(county) = lower($1))
                   ORDER BY rating DESC, id`
	rows, err := r.q.Query(ctx, query, county)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Garage
	for rows.Next() {
		g, err := scanGarage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- PackageRepository implementation ---

const packageColumns = `id, name, description, total_price, discounted_price, is_active, sort_order`

type packageRepository struct {
	q querier
}

func scanPackage(row rowScanner) (*model.Package, error) {
	var p model.Package
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.TotalPrice, &p.DiscountedPrice, &p.IsActive, &p.SortOrder); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageRepository) items(ctx context.Context, ids []int64) (map[int64][]model.PackageItem, error) {
	result := make(map[int64][]model.PackageItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	const query = `SELECT pi.package_id, pi.product_id, p.name, pi.quantity
                   FROM package_items pi JOIN products p ON p.id = pi.product_id
                   WHERE pi.package_id = ANY($1)
                   ORDER BY pi.package_id, pi.product_id`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			packageID int64
			item      model.PackageItem
		)
		if err := rows.Scan(&packageID, &item.ProductID, &item.ProductName, &item.Quantity); err != nil {
			return nil, err
		}
		result[packageID] = append(result[packageID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *packageRepository) GetByID(ctx context.Context, id int64) (*model.Package, error) {
	p, err := scanPackage(r.q.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	items, err := r.items(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Items = items[p.ID]
	return p, nil
}

func (r *packageRepository) ListActive(ctx context.Context) ([]model.Package, error) {
	rows, err := r.q.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE is_active ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		result []model.Package
		ids    []int64
	)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Items = items[result[i].ID]
	}
	return result, nil
}

// --- LicenseRepository implementation ---

const licenseColumns = `id, license_key, order_id, user_id, mdvr_serial, vehicle_registration, license_type,
       activation_date, expiry_date, status, created_at`

type licenseRepository struct {
	q querier
}

func scanLicense(row rowScanner) (*model.License, error) {
	var (
		l                   model.License
		licenseType, status string
	)
	err := row.Scan(&l.ID, &l.LicenseKey, &l.OrderID, &l.UserID, &l.MDVRSerial, &l.VehicleRegistration, &licenseType,
		&l.ActivationDate, &l.ExpiryDate, &status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.Type = model.LicenseType(licenseType)
	l.Status = model.LicenseStatus(status)
	return &l, nil
}

func (r *licenseRepository) Create(ctx context.Context, l model.License) (*model.License, error) {
	const query = `INSERT INTO licenses (license_key, order_id, user_id, mdvr_serial, vehicle_registration, license_type,
                       activation_date, expiry_date, status)
                   VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, l.LicenseKey, l.OrderID, l.UserID, l.MDVRSerial, l.VehicleRegistration, string(l.Type),
		l.ActivationDate, l.ExpiryDate, string(l.Status)).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &l, nil
}

func (r *licenseRepository) GetByID(ctx context.Context, id int64) (*model.License, error) {
	l, err := scanLicense(r.q.QueryRow(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *licenseRepository) GetByVehicle(ctx context.Context, registration string) (*model.License, error) {
	l, err := scanLicense(r.q.QueryRow(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE upper(vehicle_registration)=upper($1)`, registration))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func (r *licenseRepository) UpdateTerm(ctx context.Context, l *model.License) error {
	tag, err := r.q.Exec(ctx, `UPDATE licenses SET expiry_date=$2, status=$3 WHERE id=$1`, l.ID, l.ExpiryDate, string(l.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
