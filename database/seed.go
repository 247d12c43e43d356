package database

import (
	"fmt"

	"gorm.io/gorm"

	"paymentservice/models"
	"paymentservice/utils"
)

// SeedOperationTypes заполняет справочник типов операций, если он пуст.
// Повторный вызов ничего не меняет.
func SeedOperationTypes(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OperationType{}).Count(&count).Error; err != nil {
			return fmt.Errorf("ошибка подсчета типов операций: %w", err)
		}

		if count > 0 {
			utils.LogDebug("Operation types already seeded (%d rows)", count)
			return nil
		}

		operationTypes := models.DefaultOperationTypes()
		if err := tx.Create(&operationTypes).Error; err != nil {
			return fmt.Errorf("ошибка загрузки типов операций: %w", err)
		}

		utils.LogInfo("Seeded %d operation types", len(operationTypes))
		return nil
	})
}
