package mocks

import (
	"context"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func get[T any](args mock.Arguments, i int) T {
	var zero T
	if v, ok := args.Get(i).(T); ok {
		return v
	}
	return zero
}

func register(t *testing.T, m *mock.Mock) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type MockUserService struct{ mock.Mock }

func NewMockUserService(t *testing.T) *MockUserService {
	m := &MockUserService{}
	register(t, &m.Mock)
	return m
}

func (m *MockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	return get[*models.User](args, 0), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	return get[*models.LoginResponse](args, 0), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return get[*models.User](args, 0), args.Error(1)
}

type MockCatalogService struct{ mock.Mock }

func NewMockCatalogService(t *testing.T) *MockCatalogService {
	m := &MockCatalogService{}
	register(t, &m.Mock)
	return m
}

func (m *MockCatalogService) ListProducts(ctx context.Context, query models.CatalogQuery) (*models.Page[models.Product], error) {
	args := m.Called(ctx, query)
	return get[*models.Page[models.Product]](args, 0), args.Error(1)
}

func (m *MockCatalogService) CategoryProducts(ctx context.Context, categoryID int64, query models.CatalogQuery) (*models.Page[models.Product], error) {
	args := m.Called(ctx, categoryID, query)
	return get[*models.Page[models.Product]](args, 0), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return get[[]models.Category](args, 0), args.Error(1)
}

func (m *MockCatalogService) GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, error) {
	args := m.Called(ctx, productID)
	return get[*models.ProductDetail](args, 0), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func NewMockCartService(t *testing.T) *MockCartService {
	m := &MockCartService{}
	register(t, &m.Mock)
	return m
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartSummary, error) {
	args := m.Called(ctx, userID)
	return get[*models.CartSummary](args, 0), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartSummary, error) {
	args := m.Called(ctx, userID, req)
	return get[*models.CartSummary](args, 0), args.Error(1)
}

func (m *MockCartService) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, req *models.UpdateQuantityRequest) (*models.CartSummary, error) {
	args := m.Called(ctx, userID, itemID, req)
	return get[*models.CartSummary](args, 0), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) (*models.CartSummary, error) {
	args := m.Called(ctx, userID, itemID)
	return get[*models.CartSummary](args, 0), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func NewMockOrderService(t *testing.T) *MockOrderService {
	m := &MockOrderService{}
	register(t, &m.Mock)
	return m
}

func (m *MockOrderService) CheckoutReview(ctx context.Context, userID uuid.UUID) (*models.CheckoutReview, error) {
	args := m.Called(ctx, userID)
	return get[*models.CheckoutReview](args, 0), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID)
	return get[*models.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	return get[*models.Order](args, 0), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	return get[[]models.Order](args, 0), args.Int(1), args.Error(2)
}

type MockReviewService struct{ mock.Mock }

func NewMockReviewService(t *testing.T) *MockReviewService {
	m := &MockReviewService{}
	register(t, &m.Mock)
	return m
}

func (m *MockReviewService) AddReview(ctx context.Context, userID uuid.UUID, productID int64, req *models.CreateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, userID, productID, req)
	return get[*models.Review](args, 0), args.Error(1)
}

type MockAddressService struct{ mock.Mock }

func NewMockAddressService(t *testing.T) *MockAddressService {
	m := &MockAddressService{}
	register(t, &m.Mock)
	return m
}

func (m *MockAddressService) GetAddress(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error) {
	args := m.Called(ctx, userID)
	return get[*models.ShippingAddress](args, 0), args.Error(1)
}

func (m *MockAddressService) SaveAddress(ctx context.Context, userID uuid.UUID, req *models.ShippingAddressRequest) (*models.ShippingAddress, error) {
	args := m.Called(ctx, userID, req)
	return get[*models.ShippingAddress](args, 0), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func NewMockNotificationService(t *testing.T) *MockNotificationService {
	m := &MockNotificationService{}
	register(t, &m.Mock)
	return m
}

func (m *MockNotificationService) SendEmail(ctx context.Context, orderID *int64, req *models.EmailNotificationRequest) (*models.Notification, error) {
	args := m.Called(ctx, orderID, req)
	return get[*models.Notification](args, 0), args.Error(1)
}

func (m *MockNotificationService) SendOrderConfirmation(ctx context.Context, placed *models.PlacedOrder) (*models.Notification, error) {
	args := m.Called(ctx, placed)
	return get[*models.Notification](args, 0), args.Error(1)
}

func (m *MockNotificationService) ListOrderNotifications(ctx context.Context, orderID int64) ([]models.Notification, error) {
	args := m.Called(ctx, orderID)
	return get[[]models.Notification](args, 0), args.Error(1)
}

type MockDashboardService struct{ mock.Mock }

func NewMockDashboardService(t *testing.T) *MockDashboardService {
	m := &MockDashboardService{}
	register(t, &m.Mock)
	return m
}

func (m *MockDashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	args := m.Called(ctx)
	return get[*models.DashboardSummary](args, 0), args.Error(1)
}

func (m *MockDashboardService) ListProducts(ctx context.Context, page int) (*models.Page[models.Product], error) {
	args := m.Called(ctx, page)
	return get[*models.Page[models.Product]](args, 0), args.Error(1)
}

func (m *MockDashboardService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	return get[*models.Product](args, 0), args.Error(1)
}

func (m *MockDashboardService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	return get[*models.Product](args, 0), args.Error(1)
}

func (m *MockDashboardService) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDashboardService) CreateVariant(ctx context.Context, productID int64, req *models.CreateVariantRequest) (*models.ProductVariant, error) {
	args := m.Called(ctx, productID, req)
	return get[*models.ProductVariant](args, 0), args.Error(1)
}

func (m *MockDashboardService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return get[[]models.Category](args, 0), args.Error(1)
}

func (m *MockDashboardService) CreateCategory(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	return get[*models.Category](args, 0), args.Error(1)
}

func (m *MockDashboardService) UpdateCategory(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	return get[*models.Category](args, 0), args.Error(1)
}

func (m *MockDashboardService) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
