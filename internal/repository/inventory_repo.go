package repository

import (
	"context"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository defines data access for stock items and their ledger.
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uint) (*model.InventoryItem, error)
	FindByName(ctx context.Context, name string) (*model.InventoryItem, error)
	List(ctx context.Context, q dto.ListQuery) ([]model.InventoryItem, int64, error)
	ListLowStock(ctx context.Context) ([]model.InventoryItem, error)
	CountLowStock(ctx context.Context) (int64, error)
	// Update is the administrative override; it writes quantity directly and
	// produces no history row.
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uint) error
	ListHistory(ctx context.Context, itemID uint, q dto.ListQuery) ([]model.StockHistory, int64, error)

	// Used inside transactions; callers pass the live tx.
	AdjustQuantityTx(tx *gorm.DB, id uint, delta decimal.Decimal, deliveredAt *time.Time) error
	FindForUpdateTx(tx *gorm.DB, id uint) (*model.InventoryItem, error)
	SetOrderedTx(tx *gorm.DB, id uint, ordered bool) error
	CreateHistoryTx(tx *gorm.DB, h *model.StockHistory) error
	FindByIDTx(tx *gorm.DB, id uint) (*model.InventoryItem, error)

	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

var inventoryList = listSpec{
	searchColumns: []string{"name", "unit"},
	sortColumns: map[string]string{
		"id":                 "id",
		"name":               "name",
		"quantity":           "quantity",
		"last_delivery_date": "last_delivery_date",
	},
	defaultOrder: "name ASC",
}

var historyList = listSpec{defaultOrder: "created_at DESC, id DESC"}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uint) (*model.InventoryItem, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *inventoryRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.First(&item, id).Error
	return &item, err
}

func (r *inventoryRepo) FindByName(ctx context.Context, name string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&item).Error
	return &item, err
}

func (r *inventoryRepo) List(ctx context.Context, q dto.ListQuery) ([]model.InventoryItem, int64, error) {
	var items []model.InventoryItem
	total, err := inventoryList.paginate(r.db.WithContext(ctx).Model(&model.InventoryItem{}), q, &items)
	return items, total, err
}

func (r *inventoryRepo) ListLowStock(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Where("quantity <= min_stock").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) CountLowStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.InventoryItem{}).Where("quantity <= min_stock").Count(&n).Error
	return n, err
}

func (r *inventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return affected(r.db.WithContext(ctx).Model(item).
		Select("name", "quantity", "unit", "min_stock").
		Updates(item))
}

func (r *inventoryRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.InventoryItem{}, id))
}

func (r *inventoryRepo) ListHistory(ctx context.Context, itemID uint, q dto.ListQuery) ([]model.StockHistory, int64, error) {
	var rows []model.StockHistory
	base := r.db.WithContext(ctx).Model(&model.StockHistory{}).
		Where("item_id = ?", itemID).
		Preload("User")
	total, err := historyList.paginate(base, q, &rows)
	return rows, total, err
}

// AdjustQuantityTx applies a signed delta in the database so concurrent
// operations on the same item serialize on the row lock. A non-nil
// deliveredAt also stamps last_delivery_date.
func (r *inventoryRepo) AdjustQuantityTx(tx *gorm.DB, id uint, delta decimal.Decimal, deliveredAt *time.Time) error {
	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", delta),
	}
	if deliveredAt != nil {
		updates["last_delivery_date"] = *deliveredAt
	}
	return affected(tx.Model(&model.InventoryItem{}).Where("id = ?", id).Updates(updates))
}

func (r *inventoryRepo) FindForUpdateTx(tx *gorm.DB, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error
	return &item, err
}

func (r *inventoryRepo) SetOrderedTx(tx *gorm.DB, id uint, ordered bool) error {
	return affected(tx.Model(&model.InventoryItem{}).Where("id = ?", id).Update("is_ordered", ordered))
}

func (r *inventoryRepo) CreateHistoryTx(tx *gorm.DB, h *model.StockHistory) error {
	return tx.Omit("User").Create(h).Error
}
