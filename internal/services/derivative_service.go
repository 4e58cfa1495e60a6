/**
 * @description
 * Derivative store service.
 * Persists the record of a derivative IP registration after the chain
 * transaction has already succeeded; validation happens before any store
 * access.
 *
 * @dependencies
 * - gorm.io/gorm
 * - backend/internal/models
 */

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepshare-project/backend/internal/logger"
	"github.com/deepshare-project/backend/internal/models"
	"gorm.io/gorm"
)

// StoreDerivativeInput carries the fields reported by the mint workflow.
// Optional fields are stored as NULL when absent.
type StoreDerivativeInput struct {
	DerivativeIPID string
	TxHash         string
	UserAddress    string
	ParentAssetID  *int64
	ParentIPID     *string
	ImageCID       *string
	MetadataCID    *string
	IPMetadataCID  *string
	NFTMetadataCID *string
	LicenseTermsID *int64
}

type DerivativeService struct {
	DB *gorm.DB
}

func NewDerivativeService(db *gorm.DB) *DerivativeService {
	return &DerivativeService{DB: db}
}

// Store inserts a derivatives row for a completed on-chain registration.
func (s *DerivativeService) Store(ctx context.Context, input StoreDerivativeInput) (*models.Derivative, error) {
	if input.DerivativeIPID == "" || input.TxHash == "" || input.UserAddress == "" {
		return nil, errors.New("missing required fields")
	}

	derivative := models.Derivative{
		OwnerAddress:   NormalizeAddress(input.UserAddress),
		ParentAssetID:  input.ParentAssetID,
		ParentIPID:     input.ParentIPID,
		DerivativeIPID: input.DerivativeIPID,
		TxHash:         input.TxHash,
		ImageCID:       input.ImageCID,
		MetadataCID:    input.MetadataCID,
		IPMetadataCID:  input.IPMetadataCID,
		NFTMetadataCID: input.NFTMetadataCID,
		LicenseTermsID: input.LicenseTermsID,
	}

	if err := s.DB.WithContext(ctx).Create(&derivative).Error; err != nil {
		return nil, fmt.Errorf("failed to store derivative: %w", err)
	}

	logger.Info("Stored derivative %s for owner %s", input.DerivativeIPID, derivative.OwnerAddress)
	return &derivative, nil
}
