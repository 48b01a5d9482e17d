package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

type Endpoints struct {
	DB *sql.DB
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "catalog",
				Timeout:   2 * time.Second,
				SkipOnErr: true,
				Check:     CatalogSeedCheck(endpoints.DB),
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// CatalogSeedCheck reports whether migrations have seeded the fallback
// category that imports and product creation depend on.
func CatalogSeedCheck(db *sql.DB) health.CheckFunc {
	return func(ctx context.Context) error {
		if db == nil {
			return fmt.Errorf("database is not initialized")
		}

		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, models.OthersCategory,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query categories: %w", err)
		}

		if !exists {
			return fmt.Errorf("category %q is missing, run migrations", models.OthersCategory)
		}

		return nil
	}
}
