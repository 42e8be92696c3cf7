package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/infra"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"gorm.io/gorm"
)

const msgDuplicatePhone = "client with this phone number already exists."

// ClientService defines business operations for the client registry.
type ClientService interface {
	Create(ctx context.Context, req dto.ClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uint) (*dto.ClientDetailResponse, error)
	List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.ClientResponse], error)
	Update(ctx context.Context, id uint, req dto.ClientRequest) (*dto.ClientResponse, error)
	Delete(ctx context.Context, id uint) error
}

type clientService struct {
	repo        repository.ClientRepository
	jobs        repository.JobRepository
	phoneRegion string
}

func NewClientService(repo repository.ClientRepository, jobs repository.JobRepository, phoneRegion string) ClientService {
	return &clientService{repo: repo, jobs: jobs, phoneRegion: phoneRegion}
}

func mapClient(c *model.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		Notes:       c.Notes,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}

// blankToNil trims s and drops it when nothing is left.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// toClient validates the request and normalizes the phone number.
func (s *clientService) toClient(req dto.ClientRequest) (*model.Client, error) {
	// Name is optional; a phone number alone identifies a client.
	name := strings.TrimSpace(req.Name)
	phone, err := infra.NormalizePhone(req.PhoneNumber, s.phoneRegion)
	if err != nil {
		return nil, validationf("invalid phone number.")
	}
	return &model.Client{
		Name:        name,
		PhoneNumber: phone,
		Address:     blankToNil(req.Address),
		Notes:       blankToNil(req.Notes),
		Email:       blankToNil(req.Email),
	}, nil
}

// ensurePhoneFree fails when another client (not exceptID) already uses phone.
func (s *clientService) ensurePhoneFree(ctx context.Context, phone string, exceptID uint) error {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return conflict(msgDuplicatePhone)
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, req dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := s.toClient(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, c.PhoneNumber, 0); err != nil {
		return nil, err
	}
	// The unique index still decides when two creates race past the check.
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, unique(err, msgDuplicatePhone)
	}
	resp := mapClient(c)
	return &resp, nil
}

func (s *clientService) Get(ctx context.Context, id uint) (*dto.ClientDetailResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "client")
	}
	jobs, err := s.jobs.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ClientDetailResponse{ClientResponse: mapClient(c), Jobs: make([]dto.JobSummary, 0, len(jobs))}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, mapJobSummary(&jobs[i]))
	}
	return resp, nil
}

func (s *clientService) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.ClientResponse], error) {
	q.Normalize()
	clients, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClientResponse, len(clients))
	for i := range clients {
		data[i] = mapClient(&clients[i])
	}
	return dto.NewListResponse(data, total, q), nil
}

func (s *clientService) Update(ctx context.Context, id uint, req dto.ClientRequest) (*dto.ClientResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "client")
	}
	c, err := s.toClient(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePhoneFree(ctx, c.PhoneNumber, id); err != nil {
		return nil, err
	}
	c.ID = id
	c.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, lookup(unique(err, msgDuplicatePhone), "client")
	}
	resp := mapClient(c)
	return &resp, nil
}

func (s *clientService) Delete(ctx context.Context, id uint) error {
	return lookup(s.repo.Delete(ctx, id), "client")
}
