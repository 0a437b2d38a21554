package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

const productColumns = `id, sku, name, category, description, price, in_stock, stock_quantity, license_type, created_at, deleted_at`

type productRow struct {
	ID            int64           `db:"id"`
	SKU           string          `db:"sku"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	InStock       bool            `db:"in_stock"`
	StockQuantity int             `db:"stock_quantity"`
	LicenseType   string          `db:"license_type"`
	CreatedAt     time.Time       `db:"created_at"`
	DeletedAt     *time.Time      `db:"deleted_at"`
}

func (r productRow) model() model.Product {
	return model.Product{
		ID:            r.ID,
		SKU:           r.SKU,
		Name:          r.Name,
		Category:      model.ProductCategory(r.Category),
		Description:   r.Description,
		Price:         r.Price,
		InStock:       r.InStock,
		StockQuantity: r.StockQuantity,
		LicenseType:   model.LicenseType(r.LicenseType),
		CreatedAt:     r.CreatedAt,
		DeletedAt:     r.DeletedAt,
	}
}

type productRepository struct {
	q   queryer
	now func() time.Time
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var row productRow
	if err := r.q.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id=? AND deleted_at IS NULL`, id); err != nil {
		return nil, notFound(err)
	}
	p := row.model()
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	var (
		where = []string{"deleted_at IS NULL"}
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category=?")
		args = append(args, string(filter.Category))
	}
	if filter.InStock != nil {
		where = append(where, "in_stock=?")
		args = append(args, *filter.InStock)
	}
	if filter.Search != "" {
		where = append(where, "(name LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')")
		args = append(args, filter.Search, filter.Search)
	}

	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	result := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

func (r *productRepository) IncreaseStock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + ?, in_stock = 1, updated_at = ? WHERE id=? AND deleted_at IS NULL`,
		quantity, r.now(), id)
	if err := affected(res, err); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
