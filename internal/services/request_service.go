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

// RequestService runs the request state machine: pending moves to approved
// or rejected, and both are terminal.
type RequestService struct {
	store  store.Store
	config RequestConfig
}

type RequestConfig struct {
	// EnforceSeatLimit refuses an approval whose new affiliation would
	// exceed the HR's packageLimit.
	EnforceSeatLimit bool
}

type SubmitRequestRequest struct {
	AssetID string `json:"assetId" validate:"required,max=64"`
	Note    string `json:"note,omitempty" validate:"max=500"`
}

type ApproveRequestRequest struct {
	CompanyLogo string `json:"companyLogo,omitempty" validate:"omitempty,url"`
}

// ProcessResult reports how many request records a decision changed.
type ProcessResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

func NewRequestService(s store.Store, config RequestConfig) *RequestService {
	return &RequestService{store: s, config: config}
}

// SubmitRequest files a pending request for one unit of an asset. Asset
// details are copied from the stored asset. An employee may file only one
// request per asset, whatever became of earlier ones.
func (s *RequestService) SubmitRequest(ctx context.Context, employee *models.User, req *SubmitRequestRequest) (*models.Request, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	asset, err := s.store.Assets().FindByID(ctx, req.AssetID)
	if err != nil {
		return nil, notFound(err, ErrAssetNotFound)
	}

	_, err = s.store.Requests().FindByRequesterAndAsset(ctx, employee.Email, asset.ID)
	switch {
	case err == nil:
		return nil, ErrAlreadyRequested
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}

	request := &models.Request{
		AssetID:        asset.ID,
		AssetName:      asset.ProductName,
		AssetImage:     asset.ProductImage,
		AssetType:      asset.ProductType,
		RequesterEmail: employee.Email,
		RequesterName:  employee.Name,
		HREmail:        asset.HREmail,
		CompanyName:    asset.CompanyName,
		Note:           utils.SanitizeText(req.Note),
		RequestStatus:  models.RequestStatusPending,
		RequestDate:    time.Now().UTC(),
	}

	if err := s.store.Requests().Create(ctx, request); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyRequested
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"request_id": request.ID,
		"asset_id":   asset.ID,
		"requester":  employee.Email,
		"hr_email":   asset.HREmail,
	}).Info("Asset requested")
	return request, nil
}

func (s *RequestService) ListRequests(ctx context.Context, hrEmail string, params utils.PaginationParams) ([]models.Request, int64, error) {
	requests, total, err := s.store.Requests().ListByHR(ctx, hrEmail, params.Search, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}

func (s *RequestService) ListMyRequests(ctx context.Context, employeeEmail string, params utils.PaginationParams) ([]models.Request, int64, error) {
	requests, total, err := s.store.Requests().ListByRequester(ctx, employeeEmail, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, total, nil
}

// ApproveRequest approves a pending request and, in one transaction, takes a
// unit out of stock, assigns it to the requester and affiliates the requester
// with hr when they are not already. With seat enforcement on, a new
// affiliation must fit within hr's package limit.
func (s *RequestService) ApproveRequest(ctx context.Context, hr *models.User, id string, req *ApproveRequestRequest) (*ProcessResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	request, err := s.loadPending(ctx, hr.Email, id)
	if err != nil {
		return nil, err
	}

	companyLogo := req.CompanyLogo
	if companyLogo == "" {
		companyLogo = hr.CompanyLogo
	}

	var modified int64
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		now := time.Now().UTC()

		// Every refusal happens before the first write so a store without
		// transactions is never left half approved.
		newAffiliation, err := s.needsAffiliation(ctx, tx, request)
		if err != nil {
			return err
		}

		modified, err = tx.Requests().Process(ctx, request.ID, models.RequestStatusApproved, hr.Email, now)
		if err != nil {
			return fmt.Errorf("failed to approve request: %w", err)
		}
		if modified == 0 {
			return ErrAlreadyProcessed
		}

		if err := tx.Assets().AdjustAvailability(ctx, request.AssetID, -1); err != nil {
			return notFound(err, ErrAssetNotFound)
		}

		assignment := &models.AssignedAsset{
			AssetID:        request.AssetID,
			AssetName:      request.AssetName,
			AssetImage:     request.AssetImage,
			AssetType:      request.AssetType,
			EmployeeEmail:  request.RequesterEmail,
			EmployeeName:   request.RequesterName,
			HREmail:        request.HREmail,
			CompanyName:    request.CompanyName,
			RequestID:      request.ID,
			AssignmentDate: now,
			RequestDate:    request.RequestDate,
			Status:         models.AssignmentStatusAssigned,
		}
		if err := tx.Assignments().Create(ctx, assignment); err != nil {
			return fmt.Errorf("failed to assign asset: %w", err)
		}

		if !newAffiliation {
			return nil
		}
		return s.affiliate(ctx, tx, request, companyLogo, now)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": request.ID,
		"asset_id":   request.AssetID,
		"employee":   request.RequesterEmail,
		"hr_email":   hr.Email,
	}).Info("Request approved")
	return &ProcessResult{ModifiedCount: modified}, nil
}

// needsAffiliation reports whether approving the request creates a new
// affiliation, and refuses with ErrSeatLimitReached when seats are enforced
// and the HR has none left.
func (s *RequestService) needsAffiliation(ctx context.Context, tx store.Store, request *models.Request) (bool, error) {
	_, err := tx.Affiliations().FindActive(ctx, request.RequesterEmail, request.HREmail)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("failed to check affiliation: %w", err)
	}
	if !s.config.EnforceSeatLimit {
		return true, nil
	}

	owner, err := tx.Users().FindByEmail(ctx, request.HREmail)
	if err != nil {
		return false, notFound(err, ErrUserNotFound)
	}
	used, err := tx.Affiliations().CountActiveByHR(ctx, request.HREmail)
	if err != nil {
		return false, fmt.Errorf("failed to count affiliations: %w", err)
	}
	if used >= int64(owner.PackageLimit) {
		return false, ErrSeatLimitReached
	}
	return true, nil
}

func (s *RequestService) affiliate(ctx context.Context, tx store.Store, request *models.Request, companyLogo string, now time.Time) error {
	affiliation := &models.Affiliation{
		EmployeeEmail:   request.RequesterEmail,
		EmployeeName:    request.RequesterName,
		HREmail:         request.HREmail,
		CompanyName:     request.CompanyName,
		CompanyLogo:     companyLogo,
		AffiliationDate: now,
		Status:          models.AffiliationStatusActive,
	}
	if err := tx.Affiliations().Create(ctx, affiliation); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("%w: affiliation created concurrently", ErrConflict)
		}
		return fmt.Errorf("failed to create affiliation: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"employee": request.RequesterEmail,
		"hr_email": request.HREmail,
		"company":  request.CompanyName,
	}).Info("Employee affiliated")
	return nil
}

// RejectRequest closes a pending request without side effects.
func (s *RequestService) RejectRequest(ctx context.Context, hrEmail, id string) (*ProcessResult, error) {
	request, err := s.loadPending(ctx, hrEmail, id)
	if err != nil {
		return nil, err
	}

	modified, err := s.store.Requests().Process(ctx, request.ID, models.RequestStatusRejected, hrEmail, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}
	if modified == 0 {
		return nil, ErrAlreadyProcessed
	}

	logrus.WithFields(logrus.Fields{
		"request_id": request.ID,
		"hr_email":   hrEmail,
	}).Info("Request rejected")
	return &ProcessResult{ModifiedCount: modified}, nil
}

func (s *RequestService) loadPending(ctx context.Context, hrEmail, id string) (*models.Request, error) {
	request, err := s.store.Requests().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	if !strings.EqualFold(request.HREmail, hrEmail) {
		return nil, ErrForbidden
	}
	if !request.IsPending() {
		return nil, ErrAlreadyProcessed
	}
	return request, nil
}
