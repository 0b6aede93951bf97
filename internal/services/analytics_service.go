package services

import (
	"context"
	"fmt"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
)

const (
	DefaultTopRequested = 5
	MaxTopRequested     = 50
)

type AnalyticsService struct {
	store store.Store
}

func NewAnalyticsService(s store.Store) *AnalyticsService {
	return &AnalyticsService{store: s}
}

// AssetTypeSplit counts hrEmail's assets per product type.
func (s *AnalyticsService) AssetTypeSplit(ctx context.Context, hrEmail string) ([]models.AssetTypeCount, error) {
	counts, err := s.store.Assets().CountByType(ctx, hrEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets by type: %w", err)
	}
	return counts, nil
}

// TopRequested ranks hrEmail's assets by how often they were requested.
func (s *AnalyticsService) TopRequested(ctx context.Context, hrEmail string, limit int) ([]models.RequestCount, error) {
	if limit <= 0 {
		limit = DefaultTopRequested
	}
	if limit > MaxTopRequested {
		limit = MaxTopRequested
	}

	counts, err := s.store.Requests().TopRequested(ctx, hrEmail, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank requested assets: %w", err)
	}
	return counts, nil
}
