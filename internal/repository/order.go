package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/framekart/framekart-store-service/internal/apperrors"
	"github.com/framekart/framekart-store-service/internal/logging"
	"github.com/framekart/framekart-store-service/internal/models"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL. It
// owns the placement transaction and delegates every stock write to the
// inventory repository, which is the single component allowed to touch
// stock_quantity.
type PostgresOrderRepository struct {
	db        *sql.DB
	inventory *PostgresInventoryRepository
	logger    *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, inventory *PostgresInventoryRepository, logger *logging.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:        db,
		inventory: inventory,
		logger:    logger,
	}
}

// Place executes the whole order placement as one transaction: cart
// re-read, stock pre-check, order number allocation, order and line
// inserts with price snapshots, conditional stock decrements, cart clear.
// A failed decrement aborts the transaction, which voids the order and
// returns every reservation already taken.
func (r *PostgresOrderRepository) Place(ctx context.Context, req *models.PlaceOrderRequest, shippingCost decimal.Decimal) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lines, err := r.readCartForPlacement(ctx, tx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	// Advisory pre-check. The conditional decrements below are what make
	// the placement correct under concurrency.
	for _, line := range lines {
		if !line.active || line.quantity > line.stock {
			return nil, apperrors.ErrOutOfStock
		}
	}

	orderNumber, err := nextOrderNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ID:               uuid.NewString(),
		OrderNumber:      orderNumber,
		UserID:           req.UserID,
		Status:           models.OrderStatusPending,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		PaymentStatus:    initialPaymentStatus(req.PaymentMethod),
		ShippingAddress:  req.ShippingAddress,
		ShippingCost:     shippingCost,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, line := range lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: line.productID,
			Quantity:  line.quantity,
			Price:     line.price,
			CreatedAt: now,
		})
	}
	order.CalculateTotal()

	if err := r.insertOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	for _, line := range order.Lines {
		if err := r.inventory.reserveTx(ctx, tx, line.ProductID, line.Quantity); err != nil {
			// Rollback voids the order and hands back every reservation
			// taken so far.
			r.logger.Info("Placement lost stock race", logging.Fields{
				"order_number": order.OrderNumber,
				"product_id":   line.ProductID,
			})
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, clearCartQuery, req.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.logger.Info("Order placed", logging.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"total":        order.TotalAmount.String(),
	})

	return order, nil
}

type placementLine struct {
	productID string
	quantity  int
	price     decimal.Decimal
	stock     int
	active    bool
}

func (r *PostgresOrderRepository) readCartForPlacement(ctx context.Context, tx *sql.Tx, userID string) ([]placementLine, error) {
	query := `
		SELECT ci.product_id, ci.quantity, p.price, p.stock_quantity, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
	`

	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []placementLine
	for rows.Next() {
		var line placementLine
		if err := rows.Scan(&line.productID, &line.quantity, &line.price, &line.stock, &line.active); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// nextOrderNumber allocates from a database sequence so concurrent callers
// can never receive the same value.
func nextOrderNumber(ctx context.Context, tx *sql.Tx) (string, error) {
	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%08d", n), nil
}

func initialPaymentStatus(method models.PaymentMethod) models.PaymentStatus {
	if method == models.PaymentMethodCashOnDelivery {
		return models.PaymentStatusConfirmed
	}
	return models.PaymentStatusPending
}

func (r *PostgresOrderRepository) insertOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	addressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, order_number, user_id, status, payment_method,
			payment_reference, payment_status, shipping_address,
			shipping_cost, total_amount, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	if _, err := tx.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.Status,
		order.PaymentMethod,
		nullString(order.PaymentReference),
		order.PaymentStatus,
		addressJSON,
		order.ShippingCost,
		order.TotalAmount,
		nullString(order.Notes),
		order.CreatedAt,
		order.UpdatedAt,
	); err != nil {
		return err
	}

	lineQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, line := range order.Lines {
		if _, err := tx.ExecContext(ctx, lineQuery,
			line.ID, line.OrderID, line.ProductID, line.Quantity, line.Price, line.CreatedAt,
		); err != nil {
			return err
		}
	}

	return nil
}

const orderColumns = `
	id, order_number, user_id, status, payment_method, payment_reference,
	payment_status, shipping_address, shipping_cost, total_amount, notes,
	created_at, updated_at
`

// GetByID retrieves an order with its lines.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	lines, err := r.getLines(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines

	return order, nil
}

func (r *PostgresOrderRepository) getLines(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.Price, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// List retrieves orders matching the filter, newest first.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	baseQuery := ` FROM orders WHERE 1=1`
	args := make([]interface{}, 0)

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		baseQuery += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	selectQuery := `SELECT ` + orderColumns + baseQuery +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) +
		` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, order := range orders {
		lines, err := r.getLines(ctx, order.ID)
		if err != nil {
			return nil, 0, err
		}
		order.Lines = lines
	}

	return orders, total, nil
}

// Transition moves an order to a new lifecycle state under a row lock, so
// concurrent transitions on the same order serialize and a cancellation can
// never double-release stock. Cancelling releases every line's quantity in
// the same transaction.
func (r *PostgresOrderRepository) Transition(ctx context.Context, id string, to models.OrderStatus, notes string) (*models.Order, models.OrderStatus, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var current models.OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, "", apperrors.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	if !models.CanTransition(current, to) {
		return nil, "", apperrors.ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders
		 SET status = $2, notes = COALESCE(NULLIF($3, ''), notes), updated_at = $4
		 WHERE id = $1`,
		id, to, notes, time.Now(),
	); err != nil {
		return nil, "", err
	}

	if to == models.OrderStatusCancelled {
		rows, err := tx.QueryContext(ctx,
			`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, id,
		)
		if err != nil {
			return nil, "", err
		}
		type release struct {
			productID string
			quantity  int
		}
		var releases []release
		for rows.Next() {
			var rel release
			if err := rows.Scan(&rel.productID, &rel.quantity); err != nil {
				rows.Close()
				return nil, "", err
			}
			releases = append(releases, rel)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, "", err
		}

		for _, rel := range releases {
			if err := r.inventory.releaseTx(ctx, tx, rel.productID, rel.quantity); err != nil {
				return nil, "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}

	r.logger.Info("Order transitioned", logging.Fields{
		"order_id": id,
		"from":     current,
		"to":       to,
	})

	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return order, current, nil
}

// SetPaymentStatus records manual payment reconciliation. The caller is
// responsible for rejecting cash-on-delivery orders.
func (r *PostgresOrderRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Info("Payment status updated", logging.Fields{
		"order_id":       id,
		"payment_status": status,
	})
	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var addressJSON []byte
	var paymentReference, notes sql.NullString

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Status,
		&order.PaymentMethod,
		&paymentReference,
		&order.PaymentStatus,
		&addressJSON,
		&order.ShippingCost,
		&order.TotalAmount,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addressJSON, &order.ShippingAddress); err != nil {
		return nil, err
	}
	if paymentReference.Valid {
		order.PaymentReference = paymentReference.String
	}
	if notes.Valid {
		order.Notes = notes.String
	}

	return &order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
