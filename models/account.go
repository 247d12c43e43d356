package models

import (
	"time"
)

// Account представляет счет клиента, идентифицируемый номером документа
type Account struct {
	ID             uint      `gorm:"column:account_id;primaryKey;autoIncrement" json:"account_id"`
	DocumentNumber string    `gorm:"column:document_number;size:11;uniqueIndex;not null" json:"document_number"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

// TableName возвращает имя таблицы для модели Account
func (Account) TableName() string {
	return "accounts"
}
