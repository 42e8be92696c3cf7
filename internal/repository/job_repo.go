package repository

import (
	"context"
	"fmt"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRepository persists job headers and their typed details rows. The
// multi-step writes are exposed as ...Tx methods so the job service can
// compose them inside one transaction.
type JobRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	List(ctx context.Context, filter dto.JobFilter) ([]model.Job, int64, error)
	ListByClient(ctx context.Context, clientID uint) ([]model.Job, error)
	// Delete removes the header; the details row goes with it by cascade.
	Delete(ctx context.Context, id uint) error

	// Used inside transactions; callers pass the live tx.
	CreateDetailsTx(tx *gorm.DB, d model.JobDetails) error
	CreateHeaderTx(tx *gorm.DB, j *model.Job) error
	LinkDetailsTx(tx *gorm.DB, d model.JobDetails, jobID uint) error
	// FindForUpdateTx loads the header with a row lock.
	FindForUpdateTx(tx *gorm.DB, id uint) (*model.Job, error)
	UpdateHeaderTx(tx *gorm.DB, j *model.Job) error
	// UpdateDetailsTx overwrites every column of the details row except its
	// keys, so fields missing from d are stored as NULL or their zero default.
	UpdateDetailsTx(tx *gorm.DB, detailsID uint, d model.JobDetails) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type jobRepo struct{ db *gorm.DB }

func NewJobRepository(db *gorm.DB) JobRepository { return &jobRepo{db: db} }

var jobList = listSpec{
	searchColumns: []string{"clients.name", "clients.phone_number", "clients.address"},
	sortColumns: map[string]string{
		"id":         "jobs.id",
		"job_date":   "jobs.job_date",
		"created_at": "jobs.created_at",
		"job_type":   "jobs.job_type",
	},
	defaultOrder: "jobs.job_date DESC, jobs.id DESC",
	columns:      "jobs.*",
}

func (r *jobRepo) DB() *gorm.DB { return r.db }

func (r *jobRepo) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	var j model.Job
	db := r.db.WithContext(ctx)
	if err := db.Preload("Client").First(&j, id).Error; err != nil {
		return nil, err
	}
	if err := loadDetails(db, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

// loadDetails reads the details row from the table of the job's own variant.
func loadDetails(db *gorm.DB, j *model.Job) error {
	d := j.JobType.NewDetails()
	if d == nil {
		return fmt.Errorf("job %d has unknown type %q", j.ID, j.JobType)
	}
	if err := db.First(d, j.DetailsID).Error; err != nil {
		return fmt.Errorf("details of job %d: %w", j.ID, err)
	}
	j.Details = d
	return nil
}

func (r *jobRepo) List(ctx context.Context, filter dto.JobFilter) ([]model.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Job{}).
		Joins("JOIN clients ON clients.id = jobs.client_id").
		Preload("Client")
	if filter.JobType != "" {
		q = q.Where("jobs.job_type = ?", filter.JobType)
	}
	if filter.ClientID != 0 {
		q = q.Where("jobs.client_id = ?", filter.ClientID)
	}

	var jobs []model.Job
	total, err := jobList.paginate(q, filter.ListQuery, &jobs)
	return jobs, total, err
}

func (r *jobRepo) ListByClient(ctx context.Context, clientID uint) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).
		Order("job_date DESC, id DESC").Find(&jobs).Error
	return jobs, err
}

func (r *jobRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&model.Job{}, id))
}

func (r *jobRepo) CreateDetailsTx(tx *gorm.DB, d model.JobDetails) error {
	return tx.Create(d).Error
}

func (r *jobRepo) CreateHeaderTx(tx *gorm.DB, j *model.Job) error {
	return tx.Omit("Client").Create(j).Error
}

func (r *jobRepo) LinkDetailsTx(tx *gorm.DB, d model.JobDetails, jobID uint) error {
	return affected(tx.Model(d).Where("id = ?", d.DetailsID()).Update("job_id", jobID))
}

func (r *jobRepo) FindForUpdateTx(tx *gorm.DB, id uint) (*model.Job, error) {
	var j model.Job
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&j, id).Error
	return &j, err
}

func (r *jobRepo) UpdateHeaderTx(tx *gorm.DB, j *model.Job) error {
	return affected(tx.Model(&model.Job{}).Where("id = ?", j.ID).Updates(map[string]interface{}{
		"client_id": j.ClientID,
		"job_date":  j.JobDate,
	}))
}

func (r *jobRepo) UpdateDetailsTx(tx *gorm.DB, detailsID uint, d model.JobDetails) error {
	return affected(tx.Model(d).Where("id = ?", detailsID).
		Select("*").Omit("id", "job_id").
		Updates(d))
}
