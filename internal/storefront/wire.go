//go:build wireinject
// +build wireinject

package storefront

import (
	"context"

	"github.com/google/wire"

	"github.com/tair/affiliate-reviews/internal/config"
)

// InitializeStorefront builds the storefront with all dependencies
func InitializeStorefront(ctx context.Context, cfg config.Config) (*Storefront, func(), error) {
	wire.Build(
		InfrastructureSet,
		AppSet,
		OpsSet,
		wire.Struct(new(Storefront), "*"),
	)
	return nil, nil, nil
}
