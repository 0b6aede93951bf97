package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

// SeedPackages writes the catalog when the store has none. With force the
// existing catalog is replaced.
func SeedPackages(ctx context.Context, s store.Store, packages []models.Package, force bool) (bool, error) {
	if !force {
		count, err := s.Packages().Count(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to count packages: %w", err)
		}
		if count > 0 {
			return false, nil
		}
	}

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		return tx.Packages().Replace(ctx, packages)
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed packages: %w", err)
	}

	logrus.WithField("packages", len(packages)).Info("Package catalog seeded")
	return true, nil
}
