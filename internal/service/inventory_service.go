package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgDuplicateItem = "inventory item with this name already exists."

// InventoryService manages stock items. Quantity changes other than the
// administrative edit go through ApplyOperation, which writes the change and
// its history row in one transaction.
type InventoryService interface {
	Create(ctx context.Context, req dto.InventoryItemRequest) (*dto.InventoryItemResponse, error)
	Get(ctx context.Context, id uint) (*dto.InventoryItemResponse, error)
	List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.InventoryItemResponse], error)
	Update(ctx context.Context, id uint, req dto.InventoryItemRequest) (*dto.InventoryItemResponse, error)
	Delete(ctx context.Context, id uint) error
	ApplyOperation(ctx context.Context, userID uint, req dto.InventoryOperationRequest) (*dto.InventoryItemResponse, error)
	ToggleOrdered(ctx context.Context, userID, id uint) (*dto.InventoryItemResponse, error)
	History(ctx context.Context, id uint, q dto.ListQuery) (*dto.ListResponse[dto.StockHistoryResponse], error)
	Alerts(ctx context.Context) ([]dto.InventoryItemResponse, error)
}

type inventoryService struct {
	repo repository.InventoryRepository
	now  func() time.Time
}

func NewInventoryService(repo repository.InventoryRepository) InventoryService {
	return &inventoryService{repo: repo, now: time.Now}
}

func mapItem(i *model.InventoryItem) dto.InventoryItemResponse {
	resp := dto.InventoryItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Quantity:  i.Quantity,
		Unit:      i.Unit,
		MinStock:  i.MinStock,
		IsOrdered: i.IsOrdered,
		LowStock:  i.LowStock(),
	}
	if i.LastDeliveryDate != nil {
		s := i.LastDeliveryDate.Format(time.RFC3339)
		resp.LastDeliveryDate = &s
	}
	return resp
}

func mapHistory(h *model.StockHistory) dto.StockHistoryResponse {
	resp := dto.StockHistoryResponse{
		ID:             h.ID,
		ItemID:         h.ItemID,
		QuantityChange: h.Delta,
		OperationType:  h.OperationType,
		UserID:         h.UserID,
		CreatedAt:      h.CreatedAt.Format(time.RFC3339),
	}
	if h.User != nil {
		resp.Username = &h.User.Username
	}
	return resp
}

// actor returns nil for the zero id so history rows written outside an
// authenticated request carry no user.
func actor(userID uint) *uint {
	if userID == 0 {
		return nil
	}
	return &userID
}

func (s *inventoryService) ensureNameFree(ctx context.Context, name string, exceptID uint) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return conflict(msgDuplicateItem)
	}
	return nil
}

func (s *inventoryService) toItem(req dto.InventoryItemRequest) (*model.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("name is required.")
	}
	if req.MinStock.IsNegative() {
		return nil, validationf("min_stock cannot be negative.")
	}
	return &model.InventoryItem{
		Name:     name,
		Quantity: req.Quantity,
		Unit:     strings.TrimSpace(req.Unit),
		MinStock: req.MinStock,
	}, nil
}

// Create stores the item with its initial quantity; creation is not a ledger event.
func (s *inventoryService) Create(ctx context.Context, req dto.InventoryItemRequest) (*dto.InventoryItemResponse, error) {
	item, err := s.toItem(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, item.Name, 0); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, unique(err, msgDuplicateItem)
	}
	resp := mapItem(item)
	return &resp, nil
}

func (s *inventoryService) Get(ctx context.Context, id uint) (*dto.InventoryItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "inventory item")
	}
	resp := mapItem(item)
	return &resp, nil
}

func (s *inventoryService) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.InventoryItemResponse], error) {
	q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventoryItemResponse, len(items))
	for i := range items {
		data[i] = mapItem(&items[i])
	}
	return dto.NewListResponse(data, total, q), nil
}

// Update is the administrative override: it may set quantity directly and
// writes no history row.
func (s *inventoryService) Update(ctx context.Context, id uint, req dto.InventoryItemRequest) (*dto.InventoryItemResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "inventory item")
	}
	item, err := s.toItem(req)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, item.Name, id); err != nil {
		return nil, err
	}
	item.ID = id
	item.LastDeliveryDate = existing.LastDeliveryDate
	item.IsOrdered = existing.IsOrdered
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, lookup(unique(err, msgDuplicateItem), "inventory item")
	}
	resp := mapItem(item)
	return &resp, nil
}

// Delete removes the item; its history rows go with it by cascade.
func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	return lookup(s.repo.Delete(ctx, id), "inventory item")
}

// fitsCents reports whether d survives a NUMERIC(12,2) column unchanged.
func fitsCents(d decimal.Decimal) bool { return d.Equal(d.Round(2)) }

// ApplyOperation records a delivery or withdrawal. Withdrawals may drive the
// quantity below zero.
func (s *inventoryService) ApplyOperation(ctx context.Context, userID uint, req dto.InventoryOperationRequest) (*dto.InventoryItemResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, validationf("quantity must be greater than zero.")
	}
	if !fitsCents(req.Quantity) {
		return nil, validationf("quantity allows at most two decimal places.")
	}
	now := s.now()
	var (
		delta       decimal.Decimal
		deliveredAt *time.Time
	)
	switch req.OperationType {
	case model.OpDelivery:
		delta = req.Quantity
		deliveredAt = &now
	case model.OpWithdrawal:
		delta = req.Quantity.Neg()
	default:
		return nil, validationf("unknown operation type %q.", req.OperationType)
	}

	var item *model.InventoryItem
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AdjustQuantityTx(tx, req.ItemID, delta, deliveredAt); err != nil {
			return lookup(err, "inventory item")
		}
		h := &model.StockHistory{
			ItemID:        req.ItemID,
			Delta:         delta,
			OperationType: req.OperationType,
			UserID:        actor(userID),
			CreatedAt:     now,
		}
		if err := s.repo.CreateHistoryTx(tx, h); err != nil {
			return err
		}
		var err error
		item, err = s.repo.FindByIDTx(tx, req.ItemID)
		return err
	})
	if err != nil {
		return nil, txFailure(err)
	}
	resp := mapItem(item)
	return &resp, nil
}

// ToggleOrdered flips the ordered flag and records the new state in history
// with a zero delta.
func (s *inventoryService) ToggleOrdered(ctx context.Context, userID, id uint) (*dto.InventoryItemResponse, error) {
	var item *model.InventoryItem
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		item, err = s.repo.FindForUpdateTx(tx, id)
		if err != nil {
			return lookup(err, "inventory item")
		}
		ordered := !item.IsOrdered
		if err := s.repo.SetOrderedTx(tx, id, ordered); err != nil {
			return err
		}
		item.IsOrdered = ordered
		return s.repo.CreateHistoryTx(tx, &model.StockHistory{
			ItemID:        id,
			Delta:         decimal.Zero,
			OperationType: model.OrderStatusTag(ordered),
			UserID:        actor(userID),
			CreatedAt:     s.now(),
		})
	})
	if err != nil {
		return nil, txFailure(err)
	}
	resp := mapItem(item)
	return &resp, nil
}

func (s *inventoryService) History(ctx context.Context, id uint, q dto.ListQuery) (*dto.ListResponse[dto.StockHistoryResponse], error) {
	q.Normalize()
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookup(err, "inventory item")
	}
	rows, total, err := s.repo.ListHistory(ctx, id, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockHistoryResponse, len(rows))
	for i := range rows {
		data[i] = mapHistory(&rows[i])
	}
	return dto.NewListResponse(data, total, q), nil
}

// Alerts lists items at or below their minimum stock.
func (s *inventoryService) Alerts(ctx context.Context) ([]dto.InventoryItemResponse, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InventoryItemResponse, len(items))
	for i := range items {
		resp[i] = mapItem(&items[i])
	}
	return resp, nil
}
