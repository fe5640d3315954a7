package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/goodfoods-reservation-agent/agent/booking"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	configx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/config"
)

const (
	driverMemory   = "memory"
	driverPostgres = "postgres"
)

type AppConfig struct {
	StoreDriver     string `envconfig:"STORE_DRIVER" default:"memory"`
	SeedCount       int    `envconfig:"SEED_COUNT" default:"8"`
	SeedValue       uint64 `envconfig:"SEED_VALUE" default:"42"`
	RestaurantsFile string `envconfig:"RESTAURANTS_FILE"`
	HistoryLimit    int    `envconfig:"HISTORY_LIMIT" default:"20"`
}

func (c AppConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StoreDriver)) {
	case driverMemory, driverPostgres:
	default:
		return fmt.Errorf("%w: unknown store driver %q", contractx.ErrValidation, c.StoreDriver)
	}
	if c.SeedCount < 0 {
		return fmt.Errorf("%w: seed count must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func loadAppConfig(opts *rootOptions) (*AppConfig, error) {
	cfg, err := configx.New[AppConfig]("")
	if err != nil {
		return nil, err
	}
	if opts.restaurantsFile != "" {
		cfg.RestaurantsFile = opts.restaurantsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore builds the configured capacity store and seeds it. The returned
// close func releases the database handle, if any.
func openStore(ctx context.Context, cfg *AppConfig) (booking.Store, func(), error) {
	restaurants, err := catalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	var (
		store   booking.Store
		closeFn = func() {}
	)
	switch strings.ToLower(strings.TrimSpace(cfg.StoreDriver)) {
	case driverPostgres:
		pgCfg, err := configx.New[booking.PostgresConfig]("POSTGRES")
		if err != nil {
			return nil, nil, err
		}
		db, err := booking.OpenPostgres(*pgCfg)
		if err != nil {
			return nil, nil, err
		}
		sqlStore, err := booking.NewSQLStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := sqlStore.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		store = sqlStore
		closeFn = func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("close postgres")
			}
		}
	default:
		store = booking.NewMemoryStore()
	}

	if err := booking.Seed(ctx, store, restaurants); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("seed restaurants: %w", err)
	}

	log.Info().
		Str("driver", cfg.StoreDriver).
		Int("restaurants", len(restaurants)).
		Msg("capacity store ready")

	return store, closeFn, nil
}

func catalog(cfg *AppConfig) ([]booking.Restaurant, error) {
	if path := strings.TrimSpace(cfg.RestaurantsFile); path != "" {
		return booking.LoadRestaurants(path)
	}
	return booking.GenerateRestaurants(cfg.SeedCount, cfg.SeedValue), nil
}
