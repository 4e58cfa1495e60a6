/**
 * @description
 * Derivative database model.
 * Maps to the 'derivatives' table. A derivative is a new IP asset minted by
 * licensing an existing (parent) asset; the row is written after the chain
 * transaction succeeds.
 */

package models

import "time"

// Derivative represents a derivative IP registration record
type Derivative struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	OwnerAddress   string    `gorm:"column:owner_address" json:"owner_address"`
	ParentAssetID  *int64    `gorm:"column:parent_asset_id" json:"parent_asset_id"`
	ParentIPID     *string   `gorm:"column:parent_ip_id" json:"parent_ip_id"`
	DerivativeIPID string    `gorm:"column:derivative_ip_id" json:"derivative_ip_id"`
	TxHash         string    `gorm:"column:tx_hash" json:"tx_hash"`
	ImageCID       *string   `gorm:"column:image_cid" json:"image_cid"`
	MetadataCID    *string   `gorm:"column:metadata_cid" json:"metadata_cid"`
	IPMetadataCID  *string   `gorm:"column:ip_metadata_cid" json:"ip_metadata_cid"`
	NFTMetadataCID *string   `gorm:"column:nft_metadata_cid" json:"nft_metadata_cid"`
	LicenseTermsID *int64    `gorm:"column:license_terms_id" json:"license_terms_id"`
}

// TableName overrides the table name used by Derivative to `derivatives`
func (Derivative) TableName() string {
	return "derivatives"
}
