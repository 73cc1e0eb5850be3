package model

import (
	"time"
)

// Account holds a customer's balance in the smallest currency unit.
//
// The balance column is a materialization of the transfer ledger: at any point
// it must equal the sum of credited amounts minus the sum of debited amounts,
// with the opening transfer counted once. Only the transfer engine mutates it,
// and only inside a database transaction.
type Account struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"index;not null" json:"owner_id"` // references customer.id, fixed at creation
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	Version   int       `gorm:"not null;default:0" json:"-"` // bumped on every balance write, including zero-amount ones
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "account"
}
