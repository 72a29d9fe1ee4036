package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ham-store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = `id, order_number, user_id, customer_name, customer_email, customer_phone, shipping_address, city, total_amount, currency, status, payment_method, notes, created_at, updated_at`

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, []*domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error)
	AmountsByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]decimal.Decimal, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// List retrieves orders newest first with optional status equality and
// free-text match over order number, customer name and customer email
func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]*domain.Order, error) {
	terms := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" {
		terms = append(terms, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.Search != "" {
		terms = append(terms, fmt.Sprintf("(order_number ILIKE $%d OR customer_name ILIKE $%d OR customer_email ILIKE $%d)", argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(terms) > 0 {
		whereClause = "WHERE " + strings.Join(terms, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argIndex, argIndex+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// FindByID retrieves an order together with its items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, []*domain.OrderItem, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, product_title, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []*domain.OrderItem{}
	for rows.Next() {
		item := &domain.OrderItem{}
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductTitle,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, items, nil
}

// UpdateStatus sets the order status and returns the updated order
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING %s
	`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status, time.Now()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// Delete removes an order; its items go with it via cascade
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// CountAll returns the total number of orders
func (r *orderRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// CountByStatus returns the number of orders in the given status
func (r *orderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE status = $1", status).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders by status: %w", err)
	}
	return total, nil
}

// AmountsByStatuses returns the total_amount of every order whose status
// is in the given set. Summation happens in the caller.
func (r *orderRepository) AmountsByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]decimal.Decimal, error) {
	if len(statuses) == 0 {
		return []decimal.Decimal{}, nil
	}

	placeholders := make([]string, 0, len(statuses))
	args := make([]interface{}, 0, len(statuses))
	for i, status := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, status)
	}

	query := fmt.Sprintf("SELECT total_amount FROM orders WHERE status IN (%s)", strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order amounts: %w", err)
	}
	defer rows.Close()

	amounts := []decimal.Decimal{}
	for rows.Next() {
		var amount decimal.Decimal
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan order amount: %w", err)
		}
		amounts = append(amounts, amount)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order amounts: %w", err)
	}

	return amounts, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var notes sql.NullString

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.ShippingAddress,
		&order.City,
		&order.TotalAmount,
		&order.Currency,
		&order.Status,
		&order.PaymentMethod,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Notes = notes.String
	return order, nil
}
