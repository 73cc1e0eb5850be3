package model

import (
	"time"
)

// ============================================================================
// Transfer ledger entity
// ============================================================================

const (
	// TransferTypeOpening marks the self-referential record created together
	// with its account (from_id == to_id == account id). Exactly one exists
	// per account and it is always that account's lowest-id transfer.
	TransferTypeOpening = "OPENING"
	// TransferTypeMovement marks an ordinary transfer between two distinct
	// accounts.
	TransferTypeMovement = "MOVEMENT"
)

// OpeningReference is the reference stored on every opening transfer.
const OpeningReference = "Initial Deposit"

// Transfer is one row of the append-only ledger.
//
// Ledger rules:
//  1. Append only — no updates, no deletes, ever.
//  2. The auto-increment id is assigned at commit time, so id order is
//     chronological order.
//  3. amount is always >= 0; direction is carried by from_id/to_id, and the
//     history view derives the sign per account.
type Transfer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TransferNo string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"transfer_no"`
	Type       string    `gorm:"type:varchar(20);not null" json:"type"`
	Reference  string    `gorm:"type:varchar(256);not null" json:"reference"`
	Amount     int64     `gorm:"not null" json:"amount"`
	FromID     int64     `gorm:"index;not null" json:"from_id"`
	ToID       int64     `gorm:"index;not null" json:"to_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transfer) TableName() string {
	return "transfer"
}

// SignedAmountFor returns the amount as seen from accountID's side of the
// ledger: negative when funds left the account, positive when they arrived.
// Opening transfers are never signed — they contribute their amount once.
func (t *Transfer) SignedAmountFor(accountID int64) int64 {
	if t.Type == TransferTypeOpening {
		return t.Amount
	}
	if t.FromID == accountID {
		return -t.Amount
	}
	return t.Amount
}
