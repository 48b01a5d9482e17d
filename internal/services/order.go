package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultOrderPageSize = 10
	maxOrderPageSize     = 100
	defaultTxTimeout     = 10 * time.Second
	confirmationTimeout  = 10 * time.Second
)

type OrderService interface {
	CheckoutReview(ctx context.Context, userID uuid.UUID) (*models.CheckoutReview, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderService struct {
	orderRepo      repository.OrderRepository
	cartRepo       repository.CartRepository
	addressRepo    repository.AddressRepository
	notifier       NotificationService
	shippingCharge decimal.Decimal
	txTimeout      time.Duration
}

// NewOrderService wires checkout. notifier may be nil, in which case no
// confirmation email is sent.
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, addressRepo repository.AddressRepository, notifier NotificationService, shippingCharge decimal.Decimal, txTimeout time.Duration) OrderService {

	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}

	return &orderService{
		orderRepo:      orderRepo,
		cartRepo:       cartRepo,
		addressRepo:    addressRepo,
		notifier:       notifier,
		shippingCharge: shippingCharge,
		txTimeout:      txTimeout,
	}
}

func (s *orderService) CheckoutReview(ctx context.Context, userID uuid.UUID) (*models.CheckoutReview, error) {

	cart, err := s.cartRepo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	if len(items) == 0 {
		return nil, appErrors.EmptyCartError("Cart is empty")
	}

	address, err := s.addressRepo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.MissingShippingAddressError("Shipping address is required").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch shipping address").WithError(err)
	}

	totals := models.ComputeTotals(items)

	return &models.CheckoutReview{
		ShippingAddress: address,
		Lines:           totals.Lines,
		Subtotal:        totals.Subtotal,
		ShippingCharge:  s.shippingCharge,
		Total:           totals.Subtotal.Add(s.shippingCharge),
	}, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	placed, err := s.orderRepo.PlaceOrder(txCtx, userID, s.shippingCharge)
	if err != nil {
		appErr := placementError(err)
		metrics.RecordOrderFailure(appErr.Code)
		return nil, appErr
	}

	total, _ := placed.Order.TotalAmount.Float64()
	metrics.RecordOrderPlaced(total)

	s.sendConfirmation(ctx, placed)

	return placed.Order, nil
}

func placementError(err error) *appErrors.AppError {
	switch {
	case errors.Is(err, repository.ErrEmptyCart):
		return appErrors.EmptyCartError("Cart is empty").WithError(err)
	case errors.Is(err, repository.ErrMissingShippingAddress):
		return appErrors.MissingShippingAddressError("Shipping address is required").WithError(err)
	case errors.Is(err, repository.ErrInsufficientStock),
		repository.IsIntegrityViolation(err),
		errors.Is(err, context.DeadlineExceeded):
		return appErrors.PersistenceConflictError().WithError(err)
	default:
		return appErrors.DatabaseError("Failed to place order").WithError(err)
	}
}

// sendConfirmation runs after commit and only logs failures.
func (s *orderService) sendConfirmation(ctx context.Context, placed *models.PlacedOrder) {

	if s.notifier == nil {
		return
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmationTimeout)
	defer cancel()

	if _, err := s.notifier.SendOrderConfirmation(mailCtx, placed); err != nil {
		metrics.RecordConfirmationEmail(string(models.StatusFailed))
		slog.Warn("Order confirmation email failed",
			slog.Int64("orderId", placed.Order.ID),
			slog.String("error", err.Error()))
		return
	}

	metrics.RecordConfirmationEmail(string(models.StatusSent))
}

func (s *orderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	if page < 1 {
		page = 1
	}

	if size < 1 {
		size = defaultOrderPageSize
	}

	if size > maxOrderPageSize {
		size = maxOrderPageSize
	}

	// keeps (page-1)*size inside a Postgres INTEGER offset
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}

	orders, total, err := s.orderRepo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}
