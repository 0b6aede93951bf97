package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/models"
	"github.com/javajoker/gearguard-backend/internal/store"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// Quantity accepts a JSON number or a numeric string.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if raw == "" || raw == "null" {
		*q = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", raw)
	}
	*q = Quantity(int(f))
	return nil
}

type AssetService struct {
	store    store.Store
	uploader ImageUploader
}

type CreateAssetRequest struct {
	ProductName     string   `json:"productName" form:"productName" validate:"required,max=200"`
	ProductType     string   `json:"productType" form:"productType" validate:"required,product_type"`
	ProductQuantity Quantity `json:"productQuantity" form:"productQuantity" validate:"gte=1,lte=100000"`
	CompanyName     string   `json:"companyName,omitempty" form:"companyName" validate:"max=200"`
	// ProductImage is an image URL or base64 payload when no file is uploaded.
	ProductImage string `json:"productImage,omitempty" form:"productImage"`
}

// ImageFile is an uploaded image part.
type ImageFile struct {
	Filename string
	Data     []byte
}

func NewAssetService(s store.Store, uploader ImageUploader) *AssetService {
	return &AssetService{
		store:    s,
		uploader: uploader,
	}
}

// CreateAsset registers an asset for hr with its full quantity available.
func (s *AssetService) CreateAsset(ctx context.Context, hr *models.User, req *CreateAssetRequest, image *ImageFile) (*models.Asset, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	imageURL, err := s.resolveImage(ctx, req.ProductImage, image)
	if err != nil {
		return nil, err
	}

	companyName := utils.SanitizeText(req.CompanyName)
	if companyName == "" {
		companyName = hr.CompanyName
	}
	if companyName == "" {
		companyName = models.DefaultCompanyName
	}

	quantity := int(req.ProductQuantity)
	asset := &models.Asset{
		ProductName:       utils.SanitizeText(req.ProductName),
		ProductImage:      imageURL,
		ProductType:       models.ProductType(req.ProductType),
		ProductQuantity:   quantity,
		AvailableQuantity: quantity,
		HREmail:           hr.Email,
		CompanyName:       companyName,
		DateAdded:         time.Now().UTC(),
	}

	if err := s.store.Assets().Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"asset_id": asset.ID,
		"hr_email": asset.HREmail,
		"quantity": asset.ProductQuantity,
	}).Info("Asset created")
	return asset, nil
}

func (s *AssetService) resolveImage(ctx context.Context, product string, image *ImageFile) (string, error) {
	switch {
	case image != nil && len(image.Data) > 0:
		return s.upload(func() (string, error) {
			return s.uploader.UploadImage(ctx, image.Data, image.Filename)
		})
	case strings.HasPrefix(product, "http://") || strings.HasPrefix(product, "https://"):
		return product, nil
	case product != "":
		return s.upload(func() (string, error) {
			return s.uploader.UploadBase64(ctx, product)
		})
	default:
		return "", nil
	}
}

func (s *AssetService) upload(fn func() (string, error)) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("%w: no image host configured", ErrUpload)
	}
	url, err := fn()
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUpload) {
			return "", err
		}
		logrus.WithError(err).Warn("Asset image upload failed")
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return url, nil
}

// ListAssets pages through the assets owned by hrEmail, newest first.
func (s *AssetService) ListAssets(ctx context.Context, hrEmail string, params utils.PaginationParams) ([]models.Asset, int64, error) {
	filter, err := assetFilter(params)
	if err != nil {
		return nil, 0, err
	}
	filter.HREmail = hrEmail

	assets, total, err := s.store.Assets().List(ctx, filter, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, total, nil
}

// ListAvailableAssets pages through assets with stock left, across companies.
func (s *AssetService) ListAvailableAssets(ctx context.Context, params utils.PaginationParams) ([]models.Asset, int64, error) {
	filter, err := assetFilter(params)
	if err != nil {
		return nil, 0, err
	}
	filter.AvailableOnly = true

	assets, total, err := s.store.Assets().List(ctx, filter, params.StorePage())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list available assets: %w", err)
	}
	return assets, total, nil
}

// DeleteAsset removes an asset owned by hrEmail. Requests and assignments
// that reference it are left in place.
func (s *AssetService) DeleteAsset(ctx context.Context, hrEmail, id string) error {
	asset, err := s.store.Assets().FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrAssetNotFound)
	}
	if !strings.EqualFold(asset.HREmail, hrEmail) {
		return ErrForbidden
	}

	if err := s.store.Assets().Delete(ctx, id); err != nil {
		return notFound(err, ErrAssetNotFound)
	}

	logrus.WithFields(logrus.Fields{"asset_id": id, "hr_email": hrEmail}).Info("Asset deleted")
	return nil
}

// AdjustAvailability adds delta to the available quantity without clamping.
func (s *AssetService) AdjustAvailability(ctx context.Context, id string, delta int) error {
	if err := s.store.Assets().AdjustAvailability(ctx, id, delta); err != nil {
		return notFound(err, ErrAssetNotFound)
	}
	return nil
}

func assetFilter(params utils.PaginationParams) (store.AssetFilter, error) {
	filter := store.AssetFilter{Search: params.Search}
	if params.Type != "" {
		productType := models.ProductType(params.Type)
		if !productType.Valid() {
			return filter, ErrInvalidProductType
		}
		filter.ProductType = productType
	}
	return filter, nil
}
