package service

import (
	"context"
	"testing"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func newClients() (ClientService, *stubClientRepo, *stubJobRepo) {
	clients := newStubClientRepo()
	jobs := newStubJobRepo(clients)
	return NewClientService(clients, jobs, "PL"), clients, jobs
}

func TestCreateClient_NormalizesPhone(t *testing.T) {
	svc, _, _ := newClients()

	resp, err := svc.Create(context.Background(), dto.ClientRequest{
		Name:        "  Jan Kowalski ",
		PhoneNumber: "+48 600-100-200",
		Address:     strp("  "),
		Email:       strp("jan@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jan Kowalski", resp.Name)
	assert.Equal(t, "600100200", resp.PhoneNumber)
	assert.Nil(t, resp.Address)
	require.NotNil(t, resp.Email)
	assert.Equal(t, "jan@example.com", *resp.Email)
}

func TestCreateClient_DuplicatePhone(t *testing.T) {
	svc, _, _ := newClients()
	ctx := context.Background()
	_, err := svc.Create(ctx, dto.ClientRequest{Name: "Jan", PhoneNumber: "600100200"})
	require.NoError(t, err)

	// same number written differently
	_, err = svc.Create(ctx, dto.ClientRequest{Name: "Adam", PhoneNumber: "600 100 200"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "client with this phone number already exists.", err.Error())
}

func TestCreateClient_PhoneOnly(t *testing.T) {
	svc, clients, _ := newClients()
	ctx := context.Background()

	resp, err := svc.Create(ctx, dto.ClientRequest{PhoneNumber: "123456789"})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Empty(t, resp.Name)

	_, err = svc.Create(ctx, dto.ClientRequest{PhoneNumber: "123456789"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "client with this phone number already exists.", err.Error())
	assert.Len(t, clients.clients, 1)
}

func TestCreateClient_InvalidPhone(t *testing.T) {
	svc, clients, _ := newClients()

	_, err := svc.Create(context.Background(), dto.ClientRequest{Name: "Jan", PhoneNumber: "12"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, clients.clients)
}

func TestUpdateClient_KeepsOwnPhone(t *testing.T) {
	svc, clients, _ := newClients()
	c := clients.add("Jan", "600100200")
	clients.add("Adam", "600100300")
	ctx := context.Background()

	resp, err := svc.Update(ctx, c.ID, dto.ClientRequest{Name: "Jan Nowak", PhoneNumber: "600100200"})
	require.NoError(t, err)
	assert.Equal(t, "Jan Nowak", resp.Name)

	_, err = svc.Update(ctx, c.ID, dto.ClientRequest{Name: "Jan", PhoneNumber: "600100300"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Update(ctx, 999, dto.ClientRequest{Name: "X", PhoneNumber: "600100400"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetClient_IncludesJobsNewestFirst(t *testing.T) {
	svc, clients, jobs := newClients()
	c := clients.add("Jan", "600100200")
	for _, d := range []string{"2024-03-01", "2024-05-10"} {
		date, _ := time.Parse(dateLayout, d)
		j := &model.Job{ClientID: c.ID, JobType: model.JobService, JobDate: date}
		require.NoError(t, jobs.CreateDetailsTx(nil, &model.ServiceDetails{}))
		j.DetailsID = jobs.nextDet
		require.NoError(t, jobs.CreateHeaderTx(nil, j))
	}

	resp, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, "2024-05-10", resp.Jobs[0].JobDate)
	assert.Equal(t, "Jan", resp.Jobs[0].ClientName)
}

func TestDeleteClient_NotFound(t *testing.T) {
	svc, _, _ := newClients()
	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "client not found.", err.Error())
}
