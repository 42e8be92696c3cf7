package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repositories. DB() returns nil so runTx calls the callback directly.

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users  map[string]*model.User
	nextID uint
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newStubUserRepo() *stubUserRepo { return &stubUserRepo{users: map[string]*model.User{}} }

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.users[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) UpdateRole(ctx context.Context, id uint, role string) error {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) Upsert(ctx context.Context, u *model.User) error {
	if existing, ok := r.users[u.Username]; ok {
		existing.PasswordHash = u.PasswordHash
		existing.Role = u.Role
		return nil
	}
	return r.Create(ctx, u)
}

// ── Clients ──────────────────────────────────────────────────────────────────

type stubClientRepo struct {
	clients map[uint]*model.Client
	nextID  uint
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

func newStubClientRepo() *stubClientRepo { return &stubClientRepo{clients: map[uint]*model.Client{}} }

func (r *stubClientRepo) add(name, phone string) *model.Client {
	r.nextID++
	c := &model.Client{ID: r.nextID, Name: name, PhoneNumber: phone, CreatedAt: time.Now()}
	r.clients[c.ID] = c
	return c
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	for _, existing := range r.clients {
		if existing.PhoneNumber == c.PhoneNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uint) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubClientRepo) FindByPhone(_ context.Context, phone string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.PhoneNumber == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientRepo) List(_ context.Context, _ dto.ListQuery) ([]model.Client, int64, error) {
	out := make([]model.Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	if _, ok := r.clients[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.clients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.clients, id)
	return nil
}

func (r *stubClientRepo) Count(context.Context) (int64, error) { return int64(len(r.clients)), nil }

func (r *stubClientRepo) ExistsTx(_ *gorm.DB, id uint) error {
	if _, ok := r.clients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Jobs ─────────────────────────────────────────────────────────────────────

type stubJobRepo struct {
	clients  *stubClientRepo
	jobs     map[uint]*model.Job
	details  map[uint]model.JobDetails // by details id
	linkedTo map[uint]uint             // details id → job id
	nextJob  uint
	nextDet  uint
	writes   int
}

var _ repository.JobRepository = (*stubJobRepo)(nil)

func newStubJobRepo(clients *stubClientRepo) *stubJobRepo {
	return &stubJobRepo{
		clients:  clients,
		jobs:     map[uint]*model.Job{},
		details:  map[uint]model.JobDetails{},
		linkedTo: map[uint]uint{},
	}
}

func setDetailsID(d model.JobDetails, id uint) {
	switch v := d.(type) {
	case *model.WellDrillingDetails:
		v.ID = id
	case *model.ConnectionDetails:
		v.ID = id
	case *model.TreatmentStationDetails:
		v.ID = id
	case *model.ServiceDetails:
		v.ID = id
	}
}

func (r *stubJobRepo) load(j *model.Job) *model.Job {
	cp := *j
	cp.Details = r.details[j.DetailsID]
	if c, ok := r.clients.clients[j.ClientID]; ok {
		cc := *c
		cp.Client = &cc
	}
	return &cp
}

func (r *stubJobRepo) FindByID(_ context.Context, id uint) (*model.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.load(j), nil
}

func (r *stubJobRepo) List(_ context.Context, f dto.JobFilter) ([]model.Job, int64, error) {
	var out []model.Job
	for _, j := range r.jobs {
		if f.JobType != "" && string(j.JobType) != f.JobType {
			continue
		}
		if f.ClientID != 0 && j.ClientID != f.ClientID {
			continue
		}
		out = append(out, *r.load(j))
	}
	return out, int64(len(out)), nil
}

func (r *stubJobRepo) ListByClient(_ context.Context, clientID uint) ([]model.Job, error) {
	var out []model.Job
	for _, j := range r.jobs {
		if j.ClientID == clientID {
			out = append(out, *r.load(j))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].JobDate.After(out[b].JobDate) })
	return out, nil
}

func (r *stubJobRepo) Delete(_ context.Context, id uint) error {
	j, ok := r.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.details, j.DetailsID)
	delete(r.jobs, id)
	return nil
}

func (r *stubJobRepo) CreateDetailsTx(_ *gorm.DB, d model.JobDetails) error {
	r.writes++
	r.nextDet++
	setDetailsID(d, r.nextDet)
	r.details[r.nextDet] = d
	return nil
}

func (r *stubJobRepo) CreateHeaderTx(_ *gorm.DB, j *model.Job) error {
	r.writes++
	r.nextJob++
	j.ID = r.nextJob
	j.CreatedAt = time.Now()
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *stubJobRepo) LinkDetailsTx(_ *gorm.DB, d model.JobDetails, jobID uint) error {
	r.writes++
	r.linkedTo[d.DetailsID()] = jobID
	return nil
}

func (r *stubJobRepo) FindForUpdateTx(_ *gorm.DB, id uint) (*model.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *stubJobRepo) UpdateHeaderTx(_ *gorm.DB, j *model.Job) error {
	r.writes++
	stored := r.jobs[j.ID]
	stored.ClientID = j.ClientID
	stored.JobDate = j.JobDate
	return nil
}

func (r *stubJobRepo) UpdateDetailsTx(_ *gorm.DB, detailsID uint, d model.JobDetails) error {
	r.writes++
	setDetailsID(d, detailsID)
	r.details[detailsID] = d
	return nil
}

func (r *stubJobRepo) DB() *gorm.DB { return nil }

// ── Inventory ────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	items   map[uint]*model.InventoryItem
	history []model.StockHistory
	nextID  uint
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: map[uint]*model.InventoryItem{}}
}

func (r *stubInventoryRepo) add(name string, qty, min int64) *model.InventoryItem {
	r.nextID++
	it := &model.InventoryItem{
		ID:       r.nextID,
		Name:     name,
		Quantity: decimal.NewFromInt(qty),
		Unit:     "szt.",
		MinStock: decimal.NewFromInt(min),
	}
	r.items[it.ID] = it
	return it
}

func (r *stubInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	for _, it := range r.items {
		if it.Name == item.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uint) (*model.InventoryItem, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubInventoryRepo) FindByName(_ context.Context, name string) (*model.InventoryItem, error) {
	for _, it := range r.items {
		if it.Name == name {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) List(_ context.Context, _ dto.ListQuery) ([]model.InventoryItem, int64, error) {
	out := make([]model.InventoryItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) ListLowStock(_ context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.LowStock() {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) CountLowStock(ctx context.Context) (int64, error) {
	items, _ := r.ListLowStock(ctx)
	return int64(len(items)), nil
}

func (r *stubInventoryRepo) Update(_ context.Context, item *model.InventoryItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubInventoryRepo) ListHistory(_ context.Context, itemID uint, _ dto.ListQuery) ([]model.StockHistory, int64, error) {
	var out []model.StockHistory
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].ItemID == itemID {
			out = append(out, r.history[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) AdjustQuantityTx(_ *gorm.DB, id uint, delta decimal.Decimal, deliveredAt *time.Time) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.Quantity = it.Quantity.Add(delta)
	if deliveredAt != nil {
		d := *deliveredAt
		it.LastDeliveryDate = &d
	}
	return nil
}

func (r *stubInventoryRepo) FindForUpdateTx(tx *gorm.DB, id uint) (*model.InventoryItem, error) {
	return r.FindByIDTx(tx, id)
}

func (r *stubInventoryRepo) SetOrderedTx(_ *gorm.DB, id uint, ordered bool) error {
	it, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	it.IsOrdered = ordered
	return nil
}

func (r *stubInventoryRepo) CreateHistoryTx(_ *gorm.DB, h *model.StockHistory) error {
	h.ID = uint(len(r.history) + 1)
	r.history = append(r.history, *h)
	return nil
}

func (r *stubInventoryRepo) FindByIDTx(_ *gorm.DB, id uint) (*model.InventoryItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

// ── Offers ───────────────────────────────────────────────────────────────────

type stubOfferRepo struct {
	clients  *stubClientRepo
	offers   map[uint]*model.Offer
	nextID   uint
	// staleSeq, when set, is returned by LastSequenceTx instead of the real
	// maximum, as a create racing another one would read it.
	staleSeq *int64
}

var _ repository.OfferRepository = (*stubOfferRepo)(nil)

func newStubOfferRepo(clients *stubClientRepo) *stubOfferRepo {
	return &stubOfferRepo{clients: clients, offers: map[uint]*model.Offer{}}
}

func (r *stubOfferRepo) FindByID(_ context.Context, id uint) (*model.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	cp.Items = append([]model.OfferItem(nil), o.Items...)
	if o.ClientID != nil {
		if c, ok := r.clients.clients[*o.ClientID]; ok {
			cc := *c
			cp.Client = &cc
		}
	}
	return &cp, nil
}

func (r *stubOfferRepo) List(_ context.Context, _ dto.ListQuery) ([]model.Offer, int64, error) {
	out := make([]model.Offer, 0, len(r.offers))
	for _, o := range r.offers {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOfferRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.offers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.offers, id)
	return nil
}

func (r *stubOfferRepo) CountIssuedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, o := range r.offers {
		if !o.IssueDate.Before(from) && o.IssueDate.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *stubOfferRepo) LastSequenceTx(_ *gorm.DB, year int, month time.Month) (int64, error) {
	if r.staleSeq != nil {
		return *r.staleSeq, nil
	}
	suffix := fmt.Sprintf("/%02d/%d", int(month), year)
	var last int64
	for _, o := range r.offers {
		if !strings.HasPrefix(o.OfferNumber, "OF/") || !strings.HasSuffix(o.OfferNumber, suffix) {
			continue
		}
		seq, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(o.OfferNumber, "OF/"), suffix), 10, 64)
		if err == nil && seq > last {
			last = seq
		}
	}
	return last, nil
}

func (r *stubOfferRepo) CreateTx(_ *gorm.DB, o *model.Offer) error {
	for _, existing := range r.offers {
		if existing.OfferNumber == o.OfferNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now()
	cp := *o
	cp.Items = nil
	r.offers[o.ID] = &cp
	return nil
}

func (r *stubOfferRepo) UpdateHeaderTx(_ *gorm.DB, o *model.Offer) error {
	stored, ok := r.offers[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.ClientID = o.ClientID
	stored.IssueDate = o.IssueDate
	stored.VATRate = o.VATRate
	stored.Notes = o.Notes
	return nil
}

func (r *stubOfferRepo) ReplaceItemsTx(_ *gorm.DB, offerID uint, items []model.OfferItem) error {
	stored, ok := r.offers[offerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Items = make([]model.OfferItem, len(items))
	for i, it := range items {
		it.OfferID = offerID
		it.Position = i + 1
		stored.Items[i] = it
	}
	return nil
}

func (r *stubOfferRepo) DB() *gorm.DB { return nil }

// ── Reports ──────────────────────────────────────────────────────────────────

type stubReportRepo struct {
	monthly   []model.MonthlySummary
	reminders []model.ServiceReminder
	dueBy     time.Time
	jobs      int64
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

func (r *stubReportRepo) MonthlySummary(context.Context, time.Time, time.Time) ([]model.MonthlySummary, error) {
	return r.monthly, nil
}

func (r *stubReportRepo) ServiceReminders(_ context.Context, dueBy time.Time) ([]model.ServiceReminder, error) {
	r.dueBy = dueBy
	return r.reminders, nil
}

func (r *stubReportRepo) CountJobsBetween(context.Context, time.Time, time.Time) (int64, error) {
	return r.jobs, nil
}

func ptrDec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
