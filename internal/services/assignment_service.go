package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

type AssignmentService struct {
	store store.Store
}

func NewAssignmentService(s store.Store) *AssignmentService {
	return &AssignmentService{store: s}
}

// ListMyAssets pages through the employee's assignments, newest first.
func (s *AssignmentService) ListMyAssets(ctx context.Context, employeeEmail string, params utils.PaginationParams) ([]models.AssignedAsset, int64, error) {
	filter, err := assetFilter(params)
	if err != nil {
		return nil, 0, err
	}

	assignments, total, err := s.store.Assignments().ListByEmployee(ctx, employeeEmail, filter, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assigned assets: %w", err)
	}
	return assignments, total, nil
}

// ReturnAsset hands an assignment back and puts the unit back in stock.
func (s *AssignmentService) ReturnAsset(ctx context.Context, employeeEmail, id string) (*models.AssignedAsset, error) {
	assignment, err := s.store.Assignments().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrAssignmentNotFound)
	}
	if !strings.EqualFold(assignment.EmployeeEmail, employeeEmail) {
		return nil, ErrForbidden
	}
	if !assignment.IsAssigned() {
		return nil, ErrAlreadyReturned
	}

	now := time.Now().UTC()
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		modified, err := tx.Assignments().MarkReturned(ctx, assignment.ID, now)
		if err != nil {
			return fmt.Errorf("failed to return asset: %w", err)
		}
		if modified == 0 {
			return ErrAlreadyReturned
		}

		err = tx.Assets().AdjustAvailability(ctx, assignment.AssetID, 1)
		switch {
		case errors.Is(err, store.ErrNotFound):
			logrus.WithFields(logrus.Fields{
				"assignment_id": assignment.ID,
				"asset_id":      assignment.AssetID,
			}).Warn("Returned asset no longer exists")
		case err != nil:
			return fmt.Errorf("failed to restock asset: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	assignment.Status = models.AssignmentStatusReturned
	assignment.ReturnDate = &now

	logrus.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"asset_id":      assignment.AssetID,
		"employee":      employeeEmail,
	}).Info("Asset returned")
	return assignment, nil
}
