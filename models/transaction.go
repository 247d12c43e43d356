package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Суммы отдаются в JSON числом, а не строкой
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction представляет операцию по счету. Знак суммы определяется типом операции
type Transaction struct {
	ID              uint            `gorm:"column:transaction_id;primaryKey;autoIncrement" json:"transaction_id"`
	AccountID       uint            `gorm:"column:account_id;not null;index" json:"account_id"`
	Account         Account         `gorm:"foreignKey:AccountID;references:ID" json:"account"`
	OperationTypeID uint            `gorm:"column:operation_type_id;not null" json:"operation_type_id"`
	OperationType   OperationType   `gorm:"foreignKey:OperationTypeID;references:ID" json:"operation_type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(10,2);not null" json:"amount"`
	EventDate       time.Time       `gorm:"column:event_date;not null" json:"event_date"`
}

// TableName возвращает имя таблицы для модели Transaction
func (Transaction) TableName() string {
	return "transactions"
}
