/**
 * @description
 * Image (captured asset) database model.
 * Maps to the 'images' table. Rows are written by the capture devices
 * themselves (outside this service); the backend only reads them.
 */

package models

import "time"

// Image represents a captured media asset reported by a device
type Image struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	WalletAddress string    `gorm:"column:wallet_address" json:"wallet_address"`
	ImageCID      *string   `gorm:"column:image_cid" json:"image_cid"`
	MetadataCID   *string   `gorm:"column:metadata_cid" json:"metadata_cid"`
	// IP holds the on-chain IP identifier, either a bare address or an
	// explorer URL containing one. Empty until the asset is registered.
	IP     *string `gorm:"column:ip" json:"ip"`
	TxHash *string `gorm:"column:tx_hash" json:"tx_hash"`
}

// TableName overrides the table name used by Image to `images`
func (Image) TableName() string {
	return "images"
}
