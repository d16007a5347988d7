package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
)

const pgUniqueViolation = "23505"

// pgxPool is the subset of pgxpool.Pool the storage relies on; tests swap in
// a mock pool through newPgxPool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// querier is the query surface shared by the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type reservationRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Reservations() repository.ReservationRepository {
	return &reservationRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'buyer',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id TEXT PRIMARY KEY,
            seller_id BIGINT NOT NULL REFERENCES users(id),
            name TEXT NOT NULL,
            price BIGINT NOT NULL,
            stock INT NOT NULL CHECK (stock >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            buyer_id BIGINT NOT NULL REFERENCES users(id),
            status TEXT NOT NULL,
            payment_method TEXT NOT NULL,
            payment_ref TEXT NOT NULL DEFAULT '',
            items_total BIGINT NOT NULL,
            shipping_total BIGINT NOT NULL,
            tax_total BIGINT NOT NULL,
            grand_total BIGINT NOT NULL,
            ship_name TEXT NOT NULL DEFAULT '',
            ship_address TEXT NOT NULL DEFAULT '',
            ship_city TEXT NOT NULL DEFAULT '',
            ship_state TEXT NOT NULL DEFAULT '',
            ship_postal_code TEXT NOT NULL DEFAULT '',
            ship_country TEXT NOT NULL DEFAULT '',
            ship_phone TEXT NOT NULL DEFAULT '',
            version BIGINT NOT NULL DEFAULT 1,
            payment_deadline TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            paid_at TIMESTAMPTZ,
            delivered_at TIMESTAMPTZ,
            cancelled_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id TEXT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL REFERENCES products(id),
            seller_id BIGINT NOT NULL,
            name TEXT NOT NULL,
            unit_price BIGINT NOT NULL,
            quantity INT NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (order_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS reservations (
            order_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            quantity INT NOT NULL,
            state TEXT NOT NULL,
            PRIMARY KEY (order_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS payment_attempts (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            amount BIGINT NOT NULL,
            status TEXT NOT NULL,
            payment_id TEXT NOT NULL DEFAULT '',
            signature TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            user_id BIGINT NOT NULL,
            product_id TEXT NOT NULL,
            quantity INT NOT NULL CHECK (quantity > 0),
            PRIMARY KEY (user_id, product_id)
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_payment_attempts_verified ON payment_attempts(order_id) WHERE status = 'verified'`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_deadline ON orders(status, payment_deadline)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_seller ON order_items(seller_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, buyer_id, status, payment_method, payment_ref,
       items_total, shipping_total, tax_total, grand_total,
       ship_name, ship_address, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
       version, payment_deadline, created_at, paid_at, delivered_at, cancelled_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.BuyerID, &o.Status, &o.PaymentMethod, &o.PaymentRef,
		&o.Amounts.ItemsTotal, &o.Amounts.ShippingTotal, &o.Amounts.TaxTotal, &o.Amounts.GrandTotal,
		&o.ShippingAddress.Name, &o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.State, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.ShippingAddress.Phone,
		&o.Version, &o.PaymentDeadline, &o.CreatedAt, &o.PaidAt, &o.DeliveredAt, &o.CancelledAt,
	)
}

// reserveItemTx locks the product row, checks availability, and records a
// held reservation. Shortfall yields ErrOutOfStock and the surrounding
// transaction rolls back everything.
func reserveItemTx(ctx context.Context, tx pgx.Tx, orderID, productID string, quantity int) error {
	var stock int
	err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: product %s", domainErrors.ErrNotFound, productID)
		}
		return err
	}
	if stock < quantity {
		return fmt.Errorf("%w: product %s has %d of %d", domainErrors.ErrOutOfStock, productID, stock, quantity)
	}

	if _, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id=$1`, productID, quantity); err != nil {
		return err
	}

	const upsert = `INSERT INTO reservations (order_id, product_id, quantity, state)
                    VALUES ($1, $2, $3, 'held')
                    ON CONFLICT (order_id, product_id)
                    DO UPDATE SET quantity = EXCLUDED.quantity, state = 'held'`
	if _, err := tx.Exec(ctx, upsert, orderID, productID, quantity); err != nil {
		return err
	}
	return nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range order.LineItems {
			if err := reserveItemTx(ctx, tx, order.ID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		const insertOrder = `INSERT INTO orders (
                id, buyer_id, status, payment_method, payment_ref,
                items_total, shipping_total, tax_total, grand_total,
                ship_name, ship_address, ship_city, ship_state, ship_postal_code, ship_country, ship_phone,
                payment_deadline
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
            RETURNING version, created_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.ID, order.BuyerID, order.Status, order.PaymentMethod, order.PaymentRef,
			order.Amounts.ItemsTotal, order.Amounts.ShippingTotal, order.Amounts.TaxTotal, order.Amounts.GrandTotal,
			order.ShippingAddress.Name, order.ShippingAddress.Address, order.ShippingAddress.City,
			order.ShippingAddress.State, order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
			order.ShippingAddress.Phone,
			order.PaymentDeadline,
		).Scan(&order.Version, &order.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, seller_id, name, unit_price, quantity)
                            VALUES ($1,$2,$3,$4,$5,$6)`
		for _, item := range order.LineItems {
			if _, err := tx.Exec(ctx, insertItem, order.ID, item.ProductID, item.SellerID, item.Name, item.UnitPrice, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	order.LineItems = items[id]
	return &order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]model.LineItem, error) {
	const query = `SELECT order_id, product_id, seller_id, name, unit_price, quantity
                   FROM order_items WHERE order_id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]model.LineItem)
	for rows.Next() {
		var orderID string
		var item model.LineItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.SellerID, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) list(ctx context.Context, where string, args []any, page repository.Page) ([]model.Order, int, error) {
	if page.Size <= 0 {
		page.Size = 10
	}
	if page.Number <= 0 {
		page.Number = 1
	}

	countQuery := `SELECT COUNT(*) FROM orders ` + where
	var total int
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	listArgs := append(append([]any{}, args...), page.Size, page.Size*(page.Number-1))

	rows, err := r.storage.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []model.Order
	var ids []string
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := r.loadItems(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].LineItems = items[orders[i].ID]
		}
	}

	return orders, total, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64, page repository.Page) ([]model.Order, int, error) {
	return r.list(ctx, `WHERE buyer_id=$1`, []any{buyerID}, page)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID int64, page repository.Page) ([]model.Order, int, error) {
	where := `WHERE EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.seller_id = $1)`
	return r.list(ctx, where, []any{sellerID}, page)
}

func (r *orderRepository) ListAll(ctx context.Context, page repository.Page) ([]model.Order, int, error) {
	return r.list(ctx, ``, nil, page)
}

func (r *orderRepository) Transition(ctx context.Context, params repository.TransitionParams) error {
	if !params.ReleaseStock {
		return transitionTx(ctx, r.storage.pool, params)
	}
	// Terminal transitions that return stock must not commit the status
	// change without the release: a crash in between would strand the hold.
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if err := transitionTx(ctx, tx, params); err != nil {
			return err
		}
		return releaseStockTx(ctx, tx, params.OrderID)
	})
}

func transitionTx(ctx context.Context, db querier, params repository.TransitionParams) error {
	const query = `UPDATE orders SET
            status = $1,
            version = version + 1,
            payment_ref = CASE WHEN $2 <> '' THEN $2 ELSE payment_ref END,
            paid_at = CASE WHEN $1 = 'paid' AND paid_at IS NULL THEN NOW() ELSE paid_at END,
            delivered_at = CASE WHEN $1 = 'delivered' AND delivered_at IS NULL THEN NOW() ELSE delivered_at END,
            cancelled_at = CASE WHEN $1 = 'cancelled' AND cancelled_at IS NULL THEN NOW() ELSE cancelled_at END
        WHERE id = $3 AND version = $4`
	tag, err := db.Exec(ctx, query, params.To, params.PaymentRef, params.OrderID, params.FromVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the order vanished or a concurrent transition won.
	var exists int
	err = db.QueryRow(ctx, `SELECT 1 FROM orders WHERE id=$1`, params.OrderID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return domainErrors.ErrConflict
}

func (r *orderRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + `
                   FROM orders
                   WHERE payment_method = 'online'
                     AND status IN ('pending', 'payment_initiated')
                     AND payment_deadline IS NOT NULL
                     AND payment_deadline <= $1
                   ORDER BY payment_deadline
                   LIMIT $2
                   FOR UPDATE SKIP LOCKED`
	rows, err := r.storage.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// --- ReservationRepository implementation ---

func (r *reservationRepository) Reserve(ctx context.Context, orderID string, items []model.LineItem) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Active holds mean a previous attempt already reserved this order;
		// reserving again must not decrement stock twice.
		var active int
		const activeQuery = `SELECT COUNT(*) FROM reservations WHERE order_id=$1 AND state IN ('held', 'committed')`
		if err := tx.QueryRow(ctx, activeQuery, orderID).Scan(&active); err != nil {
			return err
		}
		if active > 0 {
			return nil
		}

		for _, item := range items {
			if err := reserveItemTx(ctx, tx, orderID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *reservationRepository) Commit(ctx context.Context, orderID string) error {
	const query = `UPDATE reservations SET state='committed' WHERE order_id=$1 AND state='held'`
	_, err := r.storage.pool.Exec(ctx, query, orderID)
	return err
}

func (r *reservationRepository) Release(ctx context.Context, orderID string) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		return releaseStockTx(ctx, tx, orderID)
	})
}

// releaseStockTx flips active reservations to released and restores only the
// returned rows, so a second release is a no-op: stock comes back exactly
// once.
func releaseStockTx(ctx context.Context, db querier, orderID string) error {
	const flip = `UPDATE reservations SET state='released'
                  WHERE order_id=$1 AND state IN ('held', 'committed')
                  RETURNING product_id, quantity`
	rows, err := db.Query(ctx, flip, orderID)
	if err != nil {
		return err
	}

	type restore struct {
		productID string
		quantity  int
	}
	var restores []restore
	for rows.Next() {
		var rec restore
		if err := rows.Scan(&rec.productID, &rec.quantity); err != nil {
			rows.Close()
			return err
		}
		restores = append(restores, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rec := range restores {
		if _, err := db.Exec(ctx, `UPDATE products SET stock = stock + $2 WHERE id=$1`, rec.productID, rec.quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *reservationRepository) ListByOrder(ctx context.Context, orderID string) ([]model.Reservation, error) {
	const query = `SELECT order_id, product_id, quantity, state FROM reservations WHERE order_id=$1`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.OrderID, &res.ProductID, &res.Quantity, &res.State); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- PaymentRepository implementation ---

func (r *paymentRepository) CreateAttempt(ctx context.Context, attempt *model.PaymentAttempt) error {
	const query = `INSERT INTO payment_attempts (id, order_id, amount, status, payment_id, signature)
                   VALUES ($1,$2,$3,$4,$5,$6) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		attempt.ID, attempt.OrderID, attempt.Amount, attempt.Status, attempt.PaymentID, attempt.Signature,
	).Scan(&attempt.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *paymentRepository) markAttempt(ctx context.Context, attemptID, paymentID, signature string, status model.PaymentAttemptStatus) error {
	const query = `UPDATE payment_attempts SET status=$2, payment_id=$3, signature=$4 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, attemptID, status, paymentID, signature)
	if err != nil {
		var pgErr *pgconn.PgError
		// The partial unique index rejects a second verified attempt for
		// the same order.
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domainErrors.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) MarkVerified(ctx context.Context, attemptID, paymentID, signature string) error {
	return r.markAttempt(ctx, attemptID, paymentID, signature, model.PaymentAttemptVerified)
}

func (r *paymentRepository) MarkFailed(ctx context.Context, attemptID, paymentID, signature string) error {
	return r.markAttempt(ctx, attemptID, paymentID, signature, model.PaymentAttemptFailed)
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID string) ([]model.PaymentAttempt, error) {
	const query = `SELECT id, order_id, amount, status, payment_id, signature, created_at
                   FROM payment_attempts WHERE order_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.PaymentAttempt
	for rows.Next() {
		var a model.PaymentAttempt
		if err := rows.Scan(&a.ID, &a.OrderID, &a.Amount, &a.Status, &a.PaymentID, &a.Signature, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (id, seller_id, name, price, stock) VALUES ($1,$2,$3,$4,$5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.SellerID, product.Name, product.Price, product.Stock,
	).Scan(&product.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	const query = `SELECT id, seller_id, name, price, stock, created_at FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetBatch(ctx context.Context, ids []string) ([]model.Product, error) {
	const query = `SELECT id, seller_id, name, price, stock, created_at FROM products WHERE id = ANY($1)`
	rows, err := r.storage.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *productRepository) List(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	if page.Size <= 0 {
		page.Size = 10
	}
	if page.Number <= 0 {
		page.Number = 1
	}

	var total int
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `SELECT id, seller_id, name, price, stock, created_at
                   FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.storage.pool.Query(ctx, query, page.Size, page.Size*(page.Number-1))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Get(ctx context.Context, userID int64) ([]model.CartItem, error) {
	const query = `SELECT product_id, quantity FROM cart_items WHERE user_id=$1`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) Replace(ctx context.Context, userID int64, items []model.CartItem) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID); err != nil {
			return err
		}
		const insert = `INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1,$2,$3)`
		for _, item := range items {
			if _, err := tx.Exec(ctx, insert, userID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *cartRepository) Clear(ctx context.Context, userID int64) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, userID)
	return err
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
