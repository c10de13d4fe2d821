package repository

import (
	"tienda-u-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	// CurrentByProducts returns the remaining quantity for each given
	// product on one date, in a single query. Missing rows are simply
	// absent from the map; callers treat absence as zero stock.
	CurrentByProducts(productIDs []uuid.UUID, date string) (map[uuid.UUID]int, error)

	// Upsert resets the (product, date) row: current = initial, sold = 0.
	Upsert(stock *model.DailyStock) error

	FindByDate(date string) ([]model.DailyStock, error)

	// Decrement runs inside the caller's transaction and only succeeds
	// when enough stock remains; it returns false when the conditional
	// update matched no row.
	Decrement(tx *gorm.DB, productID uuid.UUID, date string, qty int) (bool, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

type stockRow struct {
	ProductID  uuid.UUID `gorm:"column:product_id"`
	CurrentQty int       `gorm:"column:current_qty"`
}

func (r *stockRepo) CurrentByProducts(productIDs []uuid.UUID, date string) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []stockRow
	err := r.db.Model(&model.DailyStock{}).
		Select("product_id, current_qty").
		Where("product_id IN ? AND date = ?", productIDs, date).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ProductID] = row.CurrentQty
	}
	return result, nil
}

func (r *stockRepo) Upsert(stock *model.DailyStock) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"initial_qty", "current_qty", "sold_qty", "updated_at", "updated_by",
		}),
	}).Create(stock).Error
}

func (r *stockRepo) FindByDate(date string) ([]model.DailyStock, error) {
	var stock []model.DailyStock
	err := r.db.Preload("Product").Preload("Product.Section").
		Where("date = ?", date).
		Order("created_at DESC").
		Find(&stock).Error
	return stock, err
}

func (r *stockRepo) Decrement(tx *gorm.DB, productID uuid.UUID, date string, qty int) (bool, error) {
	res := tx.Model(&model.DailyStock{}).
		Where("product_id = ? AND date = ? AND current_qty >= ?", productID, date, qty).
		Updates(map[string]interface{}{
			"current_qty": gorm.Expr("current_qty - ?", qty),
			"sold_qty":    gorm.Expr("sold_qty + ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
