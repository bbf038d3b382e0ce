package repositories

import (
	"context"
	"errors"

	"wtch/internal/models"

	"gorm.io/gorm"
)

// ErrRecordNotFound is wrapped by every repository lookup that finds nothing.
var ErrRecordNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	UpdateStarReview(ctx context.Context, id string, stars float64) error
	Count(ctx context.Context) (int64, error)
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	// GetByUserID returns the cart with its items and their products.
	GetByUserID(ctx context.Context, userID string) (*models.Cart, error)
	GetItem(ctx context.Context, itemID string) (*models.CartItem, error)
	FindItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID string) error
	ClearItems(ctx context.Context, cartID string) (int64, error)
}

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	GetByID(ctx context.Context, id string) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id string) error
	ClearDefault(ctx context.Context, userID string) error
	MarkDefault(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// OrderListFilter narrows an order listing. Zero values match everything.
type OrderListFilter struct {
	UserID string
	Status models.OrderStatus
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// List returns matching orders with their items, newest first.
	List(ctx context.Context, filter OrderListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	// Revenue sums total_amount over orders whose status is not excluded.
	Revenue(ctx context.Context, excluded ...models.OrderStatus) (int64, error)
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
	ListByProduct(ctx context.Context, productID string) ([]models.Review, error)
	AverageRating(ctx context.Context, productID string) (float64, error)
}

// PromotionRepository defines the interface for promotion data access.
type PromotionRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Promotion, error)
	Upsert(ctx context.Context, promo *models.Promotion) error
}

// Repositories bundles every repository over one database handle.
type Repositories struct {
	Users      UserRepository
	Products   ProductRepository
	Carts      CartRepository
	Addresses  AddressRepository
	Orders     OrderRepository
	Reviews    ReviewRepository
	Promotions PromotionRepository

	db *gorm.DB
}

// NewGORMRepositories creates the GORM implementation of every repository.
func NewGORMRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewGORMUserRepository(db),
		Products:   NewGORMProductRepository(db),
		Carts:      NewGORMCartRepository(db),
		Addresses:  NewGORMAddressRepository(db),
		Orders:     NewGORMOrderRepository(db),
		Reviews:    NewGORMReviewRepository(db),
		Promotions: NewGORMPromotionRepository(db),
		db:         db,
	}
}

// WithTx runs fn with repositories bound to a single transaction. The transaction commits
// when fn returns nil and rolls back otherwise. A Repositories value assembled by hand
// (without a database) runs fn directly against itself.
func (r *Repositories) WithTx(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMRepositories(tx))
	})
}
