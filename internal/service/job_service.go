package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// JobService manages jobs together with their typed details rows.
type JobService interface {
	Create(ctx context.Context, req dto.CreateJobRequest) (*dto.JobResponse, error)
	Get(ctx context.Context, id uint) (*dto.JobResponse, error)
	List(ctx context.Context, filter dto.JobFilter) (*dto.ListResponse[dto.JobSummary], error)
	Update(ctx context.Context, id uint, req dto.UpdateJobRequest) (*dto.JobResponse, error)
	Delete(ctx context.Context, id uint) error
}

type jobService struct {
	repo    repository.JobRepository
	clients repository.ClientRepository
}

func NewJobService(repo repository.JobRepository, clients repository.ClientRepository) JobService {
	return &jobService{repo: repo, clients: clients}
}

func unknownJobType(t string) error {
	names := make([]string, len(model.JobTypes))
	for i, jt := range model.JobTypes {
		names[i] = string(jt)
	}
	return validationf("unknown job type %q, expected one of: %s.", t, strings.Join(names, ", "))
}

// DecodeDetails builds the details variant for jobType from a raw JSON object.
// Keys that belong to other job types are ignored; absent fields keep the
// variant's defaults (NULL, zero money, 12-month service interval).
func DecodeDetails(jobType model.JobType, raw json.RawMessage) (model.JobDetails, error) {
	d := jobType.NewDetails()
	if d == nil {
		return nil, unknownJobType(string(jobType))
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, validationf("details are required.")
	}
	if trimmed[0] != '{' {
		return nil, validationf("details must be an object.")
	}
	if err := json.Unmarshal(trimmed, d); err != nil {
		return nil, validationf("invalid details for %s job: %v", jobType, err)
	}
	d.Normalize()
	return d, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, validationf("%s must be a date in YYYY-MM-DD format.", field)
	}
	return t, nil
}

func mapJobSummary(j *model.Job) dto.JobSummary {
	s := dto.JobSummary{
		ID:        j.ID,
		ClientID:  j.ClientID,
		JobType:   string(j.JobType),
		JobDate:   j.JobDate.Format(dateLayout),
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
	}
	if j.Client != nil {
		s.ClientName = j.Client.Name
		s.PhoneNumber = j.Client.PhoneNumber
	}
	return s
}

func mapJob(j *model.Job) *dto.JobResponse {
	return &dto.JobResponse{JobSummary: mapJobSummary(j), Details: j.Details}
}

// Create writes the details row, then the header pointing at it, then links
// the details row back to the header. All three writes share one transaction.
func (s *jobService) Create(ctx context.Context, req dto.CreateJobRequest) (*dto.JobResponse, error) {
	jobType := model.JobType(req.JobType)
	details, err := DecodeDetails(jobType, req.Details)
	if err != nil {
		return nil, err
	}
	jobDate, err := parseDate("jobDate", req.JobDate)
	if err != nil {
		return nil, err
	}
	if req.ClientID == 0 {
		return nil, validationf("clientId is required.")
	}

	job := &model.Job{ClientID: req.ClientID, JobType: jobType, JobDate: jobDate}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.clients.ExistsTx(tx, req.ClientID); err != nil {
			return lookup(err, "client")
		}
		if err := s.repo.CreateDetailsTx(tx, details); err != nil {
			return err
		}
		job.DetailsID = details.DetailsID()
		if err := s.repo.CreateHeaderTx(tx, job); err != nil {
			return err
		}
		return s.repo.LinkDetailsTx(tx, details, job.ID)
	})
	if err != nil {
		return nil, txFailure(err)
	}
	return s.Get(ctx, job.ID)
}

func (s *jobService) Get(ctx context.Context, id uint) (*dto.JobResponse, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "job")
	}
	return mapJob(j), nil
}

func (s *jobService) List(ctx context.Context, filter dto.JobFilter) (*dto.ListResponse[dto.JobSummary], error) {
	filter.ListQuery.Normalize()
	if filter.JobType != "" && !model.JobType(filter.JobType).Valid() {
		return nil, unknownJobType(filter.JobType)
	}
	jobs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.JobSummary, len(jobs))
	for i := range jobs {
		data[i] = mapJobSummary(&jobs[i])
	}
	return dto.NewListResponse(data, total, filter.ListQuery), nil
}

// Update keeps the stored job type and replaces the details row of that type.
// The header row stays locked until commit.
func (s *jobService) Update(ctx context.Context, id uint, req dto.UpdateJobRequest) (*dto.JobResponse, error) {
	jobDate, err := parseDate("jobDate", req.JobDate)
	if err != nil {
		return nil, err
	}
	if req.ClientID == 0 {
		return nil, validationf("clientId is required.")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		job, err := s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return lookup(err, "job")
		}
		details, err := DecodeDetails(job.JobType, req.Details)
		if err != nil {
			return err
		}
		if req.ClientID != job.ClientID {
			if err := s.clients.ExistsTx(tx, req.ClientID); err != nil {
				return lookup(err, "client")
			}
		}
		job.ClientID = req.ClientID
		job.JobDate = jobDate
		if err := s.repo.UpdateHeaderTx(tx, job); err != nil {
			return err
		}
		return s.repo.UpdateDetailsTx(tx, job.DetailsID, details)
	})
	if err != nil {
		return nil, txFailure(err)
	}
	return s.Get(ctx, id)
}

// Delete removes the header; the details row is removed by ON DELETE CASCADE.
func (s *jobService) Delete(ctx context.Context, id uint) error {
	return lookup(s.repo.Delete(ctx, id), "job")
}
