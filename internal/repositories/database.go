package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const DefaultPingTimeout = 5 * time.Second

type Repository struct {
	DB           *sql.DB
	User         UserRepository
	Category     CategoryRepository
	Product      ProductRepository
	Cart         CartRepository
	Order        OrderRepository
	Review       ReviewRepository
	Address      AddressRepository
	Notification NotificationRepository
}

// Open connects to postgres through an otelsql-instrumented driver and
// verifies the connection.
func Open(ctx context.Context, cfg *config.Database) (*sql.DB, error) {

	db, err := otelsql.Open("postgres", cfg.GetDSN(), otelsql.WithAttributes(semconv.DBSystemPostgreSQL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(semconv.DBSystemPostgreSQL)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to register db stats metrics: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func New(db *sql.DB) *Repository {
	return &Repository{
		DB:           db,
		User:         NewUserRepo(db),
		Category:     NewCategoryRepo(db),
		Product:      NewProductRepo(db),
		Cart:         NewCartRepo(db),
		Order:        NewOrderRepo(db),
		Review:       NewReviewRepo(db),
		Address:      NewAddressRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
