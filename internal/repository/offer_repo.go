package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Offer, error)
	List(ctx context.Context, q dto.ListQuery) ([]model.Offer, int64, error)
	Delete(ctx context.Context, id uint) error
	CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error)

	// Used inside transactions; callers pass the live tx.
	// LastSequenceTx returns the highest sequence among numbers ending in
	// /<MM>/<YYYY>, or 0 when the month has none.
	LastSequenceTx(tx *gorm.DB, year int, month time.Month) (int64, error)
	CreateTx(tx *gorm.DB, o *model.Offer) error
	UpdateHeaderTx(tx *gorm.DB, o *model.Offer) error
	// ReplaceItemsTx deletes the offer's lines and inserts items in order.
	ReplaceItemsTx(tx *gorm.DB, offerID uint, items []model.OfferItem) error

	DB() *gorm.DB
}

type offerRepo struct{ db *gorm.DB }

func NewOfferRepository(db *gorm.DB) OfferRepository { return &offerRepo{db: db} }

var offerList = listSpec{
	searchColumns: []string{"offers.offer_number", "clients.name", "offers.notes"},
	sortColumns: map[string]string{
		"id":           "offers.id",
		"offer_number": "offers.offer_number",
		"issue_date":   "offers.issue_date",
		"created_at":   "offers.created_at",
	},
	defaultOrder: "offers.created_at DESC, offers.id DESC",
	columns:      "offers.*",
}

func (r *offerRepo) DB() *gorm.DB { return r.db }

func orderedItems(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }

func (r *offerRepo) FindByID(ctx context.Context, id uint) (*model.Offer, error) {
	var o model.Offer
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", orderedItems).
		First(&o, id).Error
	return &o, err
}

func (r *offerRepo) List(ctx context.Context, q dto.ListQuery) ([]model.Offer, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Offer{}).
		Joins("LEFT JOIN clients ON clients.id = offers.client_id").
		Preload("Client").
		Preload("Items", orderedItems)

	var offers []model.Offer
	total, err := offerList.paginate(base, q, &offers)
	return offers, total, err
}

func (r *offerRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Offer{}, id))
}

func (r *offerRepo) CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("issue_date >= ? AND issue_date < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *offerRepo) LastSequenceTx(tx *gorm.DB, year int, month time.Month) (int64, error) {
	var n int64
	err := tx.Model(&model.Offer{}).
		Select("COALESCE(MAX(split_part(offer_number, '/', 2)::int), 0)").
		Where("offer_number LIKE ?", fmt.Sprintf("OF/%%/%02d/%d", int(month), year)).
		Scan(&n).Error
	return n, err
}

func (r *offerRepo) CreateTx(tx *gorm.DB, o *model.Offer) error {
	return tx.Omit(clause.Associations).Create(o).Error
}

func (r *offerRepo) UpdateHeaderTx(tx *gorm.DB, o *model.Offer) error {
	return affected(tx.Model(&model.Offer{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"client_id":  o.ClientID,
		"issue_date": o.IssueDate,
		"vat_rate":   o.VATRate,
		"notes":      o.Notes,
	}))
}

func (r *offerRepo) ReplaceItemsTx(tx *gorm.DB, offerID uint, items []model.OfferItem) error {
	if err := tx.Where("offer_id = ?", offerID).Delete(&model.OfferItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OfferID = offerID
		items[i].Position = i + 1
	}
	return tx.Create(&items).Error
}
