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
)

const defaultTeamPosition = "Employee"

// EmployeeService reads and edits the affiliation directory. A seat is one
// active affiliation.
type EmployeeService struct {
	store         store.Store
	defaultAvatar string
}

// EmployeeSummary is one row of an HR's employee list. ID is the affiliation id.
type EmployeeSummary struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Photo       string    `json:"photo"`
	JoinDate    time.Time `json:"joinDate"`
	AssetsCount int64     `json:"assetsCount"`
	CompanyName string    `json:"companyName"`
}

type EmployeeStats struct {
	Used  int64 `json:"used"`
	Limit int   `json:"limit"`
}

// TeamMember is one row of an employee's team listing.
type TeamMember struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Photo       string     `json:"photo"`
	Position    string     `json:"position"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
	JoinDate    time.Time  `json:"joinDate"`
	CompanyName string     `json:"companyName"`
}

type RemoveEmployeeResult struct {
	ReturnedAssets int64 `json:"returnedAssets"`
}

func NewEmployeeService(s store.Store, defaultAvatar string) *EmployeeService {
	return &EmployeeService{
		store:         s,
		defaultAvatar: defaultAvatar,
	}
}

// ListEmployees lists hrEmail's active employees with the number of assets
// each has been assigned by this HR.
func (s *EmployeeService) ListEmployees(ctx context.Context, hrEmail string) ([]EmployeeSummary, error) {
	affiliations, err := s.store.Affiliations().ListActiveByHR(ctx, hrEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list affiliations: %w", err)
	}

	users, err := s.usersByEmail(ctx, affiliations)
	if err != nil {
		return nil, err
	}

	employees := make([]EmployeeSummary, 0, len(affiliations))
	for _, a := range affiliations {
		count, err := s.store.Assignments().CountByEmployee(ctx, a.EmployeeEmail, hrEmail)
		if err != nil {
			return nil, fmt.Errorf("failed to count assignments: %w", err)
		}

		summary := EmployeeSummary{
			ID:          a.ID,
			Name:        a.EmployeeName,
			Email:       a.EmployeeEmail,
			Photo:       s.defaultAvatar,
			JoinDate:    a.AffiliationDate,
			AssetsCount: count,
			CompanyName: a.CompanyName,
		}
		if user, ok := users[a.EmployeeEmail]; ok {
			if user.Name != "" {
				summary.Name = user.Name
			}
			if user.Image != "" {
				summary.Photo = user.Image
			}
		}
		employees = append(employees, summary)
	}
	return employees, nil
}

func (s *EmployeeService) Stats(ctx context.Context, hrEmail string) (*EmployeeStats, error) {
	hr, err := s.store.Users().FindByEmail(ctx, hrEmail)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	used, err := s.store.Affiliations().CountActiveByHR(ctx, hrEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to count affiliations: %w", err)
	}
	return &EmployeeStats{Used: used, Limit: hr.PackageLimit}, nil
}

// RemoveEmployee ends an affiliation. Everything the employee still holds
// from this HR is marked returned and each asset regains the units that
// employee held.
func (s *EmployeeService) RemoveEmployee(ctx context.Context, hrEmail, affiliationID string) (*RemoveEmployeeResult, error) {
	affiliation, err := s.store.Affiliations().FindByID(ctx, affiliationID)
	if err != nil {
		return nil, notFound(err, ErrEmployeeNotFound)
	}
	if !strings.EqualFold(affiliation.HREmail, hrEmail) {
		return nil, ErrForbidden
	}
	if !affiliation.IsActive() {
		return nil, ErrAlreadyRemoved
	}

	result := &RemoveEmployeeResult{}
	err = s.store.WithinTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		now := time.Now().UTC()

		modified, err := tx.Affiliations().MarkRemoved(ctx, affiliation.ID, now)
		if err != nil {
			return fmt.Errorf("failed to remove employee: %w", err)
		}
		if modified == 0 {
			return ErrAlreadyRemoved
		}

		held, err := tx.Assignments().ListAssigned(ctx, affiliation.EmployeeEmail, affiliation.HREmail)
		if err != nil {
			return fmt.Errorf("failed to list held assets: %w", err)
		}

		result.ReturnedAssets, err = tx.Assignments().MarkAllReturned(ctx, affiliation.EmployeeEmail, affiliation.HREmail, now)
		if err != nil {
			return fmt.Errorf("failed to return held assets: %w", err)
		}

		perAsset := make(map[string]int)
		order := make([]string, 0, len(held))
		for _, a := range held {
			if perAsset[a.AssetID] == 0 {
				order = append(order, a.AssetID)
			}
			perAsset[a.AssetID]++
		}
		for _, assetID := range order {
			if err := tx.Assets().AdjustAvailability(ctx, assetID, perAsset[assetID]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					logrus.WithField("asset_id", assetID).Warn("Held asset no longer exists")
					continue
				}
				return fmt.Errorf("failed to restock asset: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"affiliation_id":  affiliation.ID,
		"employee":        affiliation.EmployeeEmail,
		"hr_email":        hrEmail,
		"returned_assets": result.ReturnedAssets,
	}).Info("Employee removed")
	return result, nil
}

// ListTeamCompanies returns the distinct companies the employee belongs to.
func (s *EmployeeService) ListTeamCompanies(ctx context.Context, employeeEmail string) ([]string, error) {
	affiliations, err := s.store.Affiliations().ListActiveByEmployee(ctx, employeeEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list affiliations: %w", err)
	}

	seen := make(map[string]bool)
	companies := make([]string, 0, len(affiliations))
	for _, a := range affiliations {
		if a.CompanyName == "" || seen[a.CompanyName] {
			continue
		}
		seen[a.CompanyName] = true
		companies = append(companies, a.CompanyName)
	}
	return companies, nil
}

// ListTeam lists everyone actively affiliated with the same HR as the
// employee. A non-empty company keeps only that company's teams.
func (s *EmployeeService) ListTeam(ctx context.Context, employeeEmail, company string) ([]TeamMember, error) {
	own, err := s.store.Affiliations().ListActiveByEmployee(ctx, employeeEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list affiliations: %w", err)
	}

	hrEmails := make([]string, 0, len(own))
	for _, a := range own {
		if company != "" && !strings.EqualFold(a.CompanyName, company) {
			continue
		}
		hrEmails = append(hrEmails, a.HREmail)
	}
	if len(hrEmails) == 0 {
		return []TeamMember{}, nil
	}

	affiliations, err := s.store.Affiliations().ListActiveByHRs(ctx, hrEmails)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}

	users, err := s.usersByEmail(ctx, affiliations)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	team := make([]TeamMember, 0, len(affiliations))
	for _, a := range affiliations {
		if seen[a.EmployeeEmail] {
			continue
		}
		seen[a.EmployeeEmail] = true

		member := TeamMember{
			ID:          a.ID,
			Name:        a.EmployeeName,
			Email:       a.EmployeeEmail,
			Photo:       s.defaultAvatar,
			Position:    defaultTeamPosition,
			JoinDate:    a.AffiliationDate,
			CompanyName: a.CompanyName,
		}
		if user, ok := users[a.EmployeeEmail]; ok {
			if user.Name != "" {
				member.Name = user.Name
			}
			if user.Image != "" {
				member.Photo = user.Image
			}
			if user.Position != "" {
				member.Position = user.Position
			}
			member.DateOfBirth = user.DateOfBirth
		}
		team = append(team, member)
	}
	return team, nil
}

func (s *EmployeeService) usersByEmail(ctx context.Context, affiliations []models.Affiliation) (map[string]models.User, error) {
	emails := make([]string, 0, len(affiliations))
	for _, a := range affiliations {
		emails = append(emails, a.EmployeeEmail)
	}
	if len(emails) == 0 {
		return map[string]models.User{}, nil
	}

	users, err := s.store.Users().FindByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	byEmail := make(map[string]models.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return byEmail, nil
}
