package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func get[T any](args mock.Arguments, i int) T {
	var zero T
	if v, ok := args.Get(i).(T); ok {
		return v
	}
	return zero
}

type UserRepository struct{ mock.Mock }

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return get[*models.User](args, 0), args.Error(1)
}

func (m *UserRepository) GetUserById(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	return get[*models.User](args, 0), args.Error(1)
}

type CategoryRepository struct{ mock.Mock }

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return get[[]models.Category](args, 0), args.Error(1)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	return get[*models.Category](args, 0), args.Error(1)
}

func (m *CategoryRepository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	return get[*models.Category](args, 0), args.Error(1)
}

func (m *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CategoryRepository) CountCategories(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type ProductRepository struct{ mock.Mock }

func (m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter, pageSize int) (*models.Page[models.Product], error) {
	args := m.Called(ctx, filter, pageSize)
	return get[*models.Page[models.Product]](args, 0), args.Error(1)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	return get[*models.Product](args, 0), args.Error(1)
}

func (m *ProductRepository) ListVariants(ctx context.Context, productID int64) ([]models.ProductVariant, error) {
	args := m.Called(ctx, productID)
	return get[[]models.ProductVariant](args, 0), args.Error(1)
}

func (m *ProductRepository) ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	args := m.Called(ctx, productID)
	return get[[]models.ProductImage](args, 0), args.Error(1)
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepository) CreateVariant(ctx context.Context, variant *models.ProductVariant) error {
	return m.Called(ctx, variant).Error(0)
}

func (m *ProductRepository) CountProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type CartRepository struct{ mock.Mock }

func (m *CartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	return get[*models.Cart](args, 0), args.Error(1)
}

func (m *CartRepository) ListItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	args := m.Called(ctx, cartID)
	return get[[]models.CartItem](args, 0), args.Error(1)
}

func (m *CartRepository) AddItem(ctx context.Context, cartID, variantID int64, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, cartID, variantID, quantity)
	return get[*models.CartItem](args, 0), args.Error(1)
}

func (m *CartRepository) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, itemID int64, quantity int) error {
	return m.Called(ctx, userID, itemID, quantity).Error(0)
}

func (m *CartRepository) RemoveItem(ctx context.Context, userID uuid.UUID, itemID int64) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

type OrderRepository struct{ mock.Mock }

func (m *OrderRepository) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingCharge decimal.Decimal) (*models.PlacedOrder, error) {
	args := m.Called(ctx, userID, shippingCharge)
	return get[*models.PlacedOrder](args, 0), args.Error(1)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, userID uuid.UUID, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)
	return get[*models.Order](args, 0), args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	return get[[]models.Order](args, 0), args.Int(1), args.Error(2)
}

func (m *OrderRepository) CountOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type ReviewRepository struct{ mock.Mock }

func (m *ReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *ReviewRepository) ListRecentByProduct(ctx context.Context, productID int64, limit int) ([]models.Review, error) {
	args := m.Called(ctx, productID, limit)
	return get[[]models.Review](args, 0), args.Error(1)
}

type AddressRepository struct{ mock.Mock }

func (m *AddressRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*models.ShippingAddress, error) {
	args := m.Called(ctx, userID)
	return get[*models.ShippingAddress](args, 0), args.Error(1)
}

func (m *AddressRepository) Save(ctx context.Context, address *models.ShippingAddress) error {
	return m.Called(ctx, address).Error(0)
}

type NotificationRepository struct{ mock.Mock }

func (m *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *NotificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	return m.Called(ctx, id, status, errorMsg).Error(0)
}

func (m *NotificationRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.Notification, error) {
	args := m.Called(ctx, orderID)
	return get[[]models.Notification](args, 0), args.Error(1)
}

type RateLimitRepository struct{ mock.Mock }

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
