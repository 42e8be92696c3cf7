package repository

import (
	"context"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"

	"gorm.io/gorm"
)

// ClientRepository defines the data access contract for clients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling unit tests with in-memory stubs.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uint) (*model.Client, error)
	FindByPhone(ctx context.Context, phone string) (*model.Client, error)
	List(ctx context.Context, q dto.ListQuery) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	// Delete removes the client; jobs and their details go with it by cascade.
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)

	// ExistsTx checks the client inside a running transaction.
	ExistsTx(tx *gorm.DB, id uint) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

var clientList = listSpec{
	searchColumns: []string{"name", "phone_number", "address", "email"},
	sortColumns: map[string]string{
		"id":           "id",
		"name":         "name",
		"phone_number": "phone_number",
		"created_at":   "created_at",
	},
	defaultOrder: "created_at DESC",
}

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Omit("Jobs").Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uint) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clientRepo) FindByPhone(ctx context.Context, phone string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&c).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context, q dto.ListQuery) ([]model.Client, int64, error) {
	var clients []model.Client
	total, err := clientList.paginate(r.db.WithContext(ctx).Model(&model.Client{}), q, &clients)
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return affected(r.db.WithContext(ctx).Model(c).
		Select("name", "phone_number", "address", "notes", "email").
		Updates(c))
}

func (r *clientRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Client{}, id))
}

func (r *clientRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&n).Error
	return n, err
}

func (r *clientRepo) ExistsTx(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&model.Client{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
