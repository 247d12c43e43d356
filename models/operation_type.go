package models

// Описания типов операций, которые загружаются в справочник при первом запуске
const (
	OperationNormalPurchase      = "Normal Purchase"
	OperationInstallmentPurchase = "Purchase with installments"
	OperationWithdrawal          = "Withdrawal"
	OperationCreditVoucher       = "Credit Voucher"
)

// OperationType представляет тип операции. Справочник не изменяется через API
type OperationType struct {
	ID          uint   `gorm:"column:operation_type_id;primaryKey;autoIncrement" json:"operation_type_id"`
	Description string `gorm:"column:description;size:255;not null" json:"description"`
}

// TableName возвращает имя таблицы для модели OperationType
func (OperationType) TableName() string {
	return "operation_types"
}

// DefaultOperationTypes возвращает фиксированный набор типов операций в порядке загрузки
func DefaultOperationTypes() []OperationType {
	return []OperationType{
		{Description: OperationNormalPurchase},
		{Description: OperationInstallmentPurchase},
		{Description: OperationWithdrawal},
		{Description: OperationCreditVoucher},
	}
}
