package main

import (
	"context"
	"fmt"

	"github.com/matsyaark/api/internal/config"
	"github.com/matsyaark/api/internal/database"
	"github.com/matsyaark/api/internal/repository"
)

// openStore connects the contacts repository selected by the DATABASE_URL
// scheme. The returned func releases the underlying connection.
func openStore(ctx context.Context, cfg *config.Config) (repository.ContactsRepository, func(), error) {
	driver, err := database.Driver(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	switch driver {
	case database.DriverPostgres:
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repository.NewPGXContactsRepository(pool), pool.Close, nil
	case database.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return repository.NewMongoContactsRepository(client.Database(cfg.MongoDatabase)), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// ensureSchema creates the contacts table or collection if it is missing.
// It is idempotent, so serve runs it on every start.
func ensureSchema(ctx context.Context, repo repository.ContactsRepository) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
