/**
 * @description
 * Device database model.
 * Maps to the 'Devices' table (capitalised legacy name in the Supabase
 * schema). A device is a data-capture endpoint identified by its
 * own wallet address, registered under an owning user's wallet address.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// Device represents a registered data-capture device
type Device struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	WalletAddress string    `gorm:"column:wallet_address;uniqueIndex;not null" json:"wallet_address"`
	Metadata      string    `gorm:"column:metadata" json:"metadata"`
	OwnerAddress  string    `gorm:"column:owner_address" json:"owner_address"`
}

// TableName overrides the table name used by Device to `Devices`
func (Device) TableName() string {
	return "Devices"
}
