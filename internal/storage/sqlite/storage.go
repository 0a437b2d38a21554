package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

// Storage is a single-file repository backend used for development and tests.
// Writers are serialised by SQLite; BEGIN IMMEDIATE takes the write lock up
// front so guarded stock updates never race.
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

var _ repository.Backend = (*Storage)(nil)

type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// New opens path (a file name or ":memory:") and creates the schema.
func New(ctx context.Context, path string, logger *slog.Logger) (*Storage, error) {
	db, err := sqlx.Open("sqlite", dataSource(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{db: db, logger: logger, now: func() time.Time { return time.Now().UTC() }}
	if err := storage.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return storage, nil
}

func dataSource(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate&_time_format=sqlite"
}

// Close releases the database handle.
func (s *Storage) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{q: s.db, now: s.now}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{q: s.db, now: s.now}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{q: s.db, now: s.now}
}

func (s *Storage) Garages() repository.GarageRepository {
	return &garageRepository{q: s.db}
}

func (s *Storage) Packages() repository.PackageRepository {
	return &packageRepository{q: s.db}
}

func (s *Storage) Licenses() repository.LicenseRepository {
	return &licenseRepository{q: s.db, now: s.now}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            full_name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'customer',
            created_at DATETIME NOT NULL
        )`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email))`,
	`CREATE TABLE IF NOT EXISTS products (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sku TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            category TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price TEXT NOT NULL,
            in_stock INTEGER NOT NULL DEFAULT 1,
            stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
            license_type TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL,
            deleted_at DATETIME
        )`,
	`CREATE TABLE IF NOT EXISTS garages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            location TEXT NOT NULL DEFAULT '',
            county TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            rating TEXT NOT NULL DEFAULT '0',
            is_active INTEGER NOT NULL DEFAULT 1
        )`,
	`CREATE TABLE IF NOT EXISTS packages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            total_price TEXT NOT NULL,
            discounted_price TEXT NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 1,
            sort_order INTEGER NOT NULL DEFAULT 0
        )`,
	`CREATE TABLE IF NOT EXISTS package_items (
            package_id INTEGER NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
            product_id INTEGER NOT NULL REFERENCES products(id),
            quantity INTEGER NOT NULL DEFAULT 1,
            PRIMARY KEY (package_id, product_id)
        )`,
	`CREATE TABLE IF NOT EXISTS orders (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            order_number TEXT UNIQUE NOT NULL,
            user_id INTEGER REFERENCES users(id),
            guest_email TEXT NOT NULL DEFAULT '',
            subtotal TEXT NOT NULL,
            tax TEXT NOT NULL DEFAULT '0',
            shipping TEXT NOT NULL DEFAULT '0',
            total TEXT NOT NULL,
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            shipping_name TEXT NOT NULL,
            shipping_phone TEXT NOT NULL,
            shipping_email TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            shipping_city TEXT NOT NULL,
            shipping_county TEXT NOT NULL,
            shipping_postal_code TEXT NOT NULL DEFAULT '',
            installation_method TEXT,
            garage_id INTEGER REFERENCES garages(id),
            appointment_at DATETIME,
            vehicle_make TEXT NOT NULL DEFAULT '',
            vehicle_model TEXT NOT NULL DEFAULT '',
            vehicle_registration TEXT NOT NULL DEFAULT '',
            invoice_url TEXT NOT NULL DEFAULT '',
            invoice_qr TEXT NOT NULL DEFAULT '',
            tracking_number TEXT NOT NULL DEFAULT '',
            tracking_carrier TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL,
            updated_at DATETIME NOT NULL,
            deleted_at DATETIME
        )`,
	`CREATE TABLE IF NOT EXISTS order_items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id INTEGER NOT NULL REFERENCES products(id),
            product_name TEXT NOT NULL,
            product_sku TEXT NOT NULL,
            product_category TEXT NOT NULL,
            unit_price TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            total_price TEXT NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS licenses (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            license_key TEXT UNIQUE NOT NULL,
            order_id INTEGER REFERENCES orders(id),
            user_id INTEGER REFERENCES users(id),
            mdvr_serial TEXT NOT NULL,
            vehicle_registration TEXT NOT NULL,
            license_type TEXT NOT NULL,
            activation_date DATETIME NOT NULL,
            expiry_date DATETIME NOT NULL,
            status TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_licenses_vehicle ON licenses (upper(vehicle_registration))`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_guest ON orders (lower(guest_email))`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// WithinTransaction executes fn inside a transaction. The transaction commits
// only when fn returns nil.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
			}
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(&txRepository{tx: tx, now: s.now})
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domainErrors.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
