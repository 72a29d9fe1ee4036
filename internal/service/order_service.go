package service

import (
	"context"
	"errors"

	"ham-store/internal/domain"
	"ham-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// OrderWithItems is an order together with its line items
type OrderWithItems struct {
	domain.Order
	Items []*domain.OrderItem `json:"items"`
}

// OrderService defines the business logic over orders
type OrderService interface {
	ListOrders(ctx context.Context, filter repository.OrderFilter) []*domain.Order
	RecentOrders(ctx context.Context, limit int) []*domain.Order
	GetOrderByID(ctx context.Context, id uuid.UUID) (*OrderWithItems, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// ListOrders returns orders newest first. Degrades to an empty list on
// storage failure.
func (s *orderService) ListOrders(ctx context.Context, filter repository.OrderFilter) []*domain.Order {
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return []*domain.Order{}
	}
	return orders
}

// RecentOrders returns the newest orders for the dashboard
func (s *orderService) RecentOrders(ctx context.Context, limit int) []*domain.Order {
	return s.ListOrders(ctx, repository.OrderFilter{Limit: limit})
}

// GetOrderByID returns an order with its items, or ErrOrderNotFound. A
// failure fetching the items degrades to an empty item list rather than
// failing the order view.
func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*OrderWithItems, error) {
	order, items, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, err
		}
		s.logger.Error("Failed to fetch order", zap.Error(err), zap.String("order_id", id.String()))
		return nil, repository.ErrOrderNotFound
	}

	return &OrderWithItems{Order: *order, Items: items}, nil
}

// UpdateOrderStatus validates and applies a status transition
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	return s.orderRepo.UpdateStatus(ctx, id, domain.OrderStatus(status))
}

// DeleteOrder removes an order and its items
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}
