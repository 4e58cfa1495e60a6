/**
 * @description
 * User database model.
 * Maps to the 'users' table in PostgreSQL. A row exists per distinct
 * lowercase wallet address; the address is the identity key for the app.
 *
 * @dependencies
 * - gorm.io/gorm
 */

package models

import "time"

// User represents a wallet identity known to the system
type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	WalletAddress string    `gorm:"column:wallet_address;uniqueIndex;not null" json:"wallet_address"`
}

// TableName overrides the table name used by User to `users`
func (User) TableName() string {
	return "users"
}
