package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

const productColumns = `id, sku, name, category, description, price, in_stock, stock_quantity, license_type, created_at, deleted_at`

type productRepository struct {
	q querier
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		p                     model.Product
		category, licenseType string
	)
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &category, &p.Description, &p.Price, &p.InStock, &p.StockQuantity,
		&licenseType, &p.CreatedAt, &p.DeletedAt)
	if err != nil {
		return nil, err
	}
	p.Category = model.ProductCategory(category)
	p.LicenseType = model.LicenseType(licenseType)
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1 AND deleted_at IS NULL`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var (
		where = []string{"deleted_at IS NULL"}
		args  []any
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		where = append(where, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.InStock != nil {
		args = append(args, *filter.InStock)
		where = append(where, fmt.Sprintf("in_stock=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		where = append(where, fmt.Sprintf("(name ILIKE '%%' || $%[1]d || '%%' OR description ILIKE '%%' || $%[1]d || '%%')", len(args)))
	}

	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE `+strings.Join(where, " AND ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) IncreaseStock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	const query = `UPDATE products SET stock_quantity = stock_quantity + $2, in_stock = TRUE, updated_at = NOW()
                   WHERE id=$1 AND deleted_at IS NULL
                   RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, quantity))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
