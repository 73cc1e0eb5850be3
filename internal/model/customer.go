package model

// Customer is the owner of zero or more accounts. Records are immutable once
// created; the service only ever reads them.
type Customer struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(32);not null" json:"name"`
}

func (Customer) TableName() string {
	return "customer"
}
