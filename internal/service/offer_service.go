package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pweat/rejestr-prac/internal/config"
	"github.com/pweat/rejestr-prac/internal/dto"
	"github.com/pweat/rejestr-prac/internal/infra"
	"github.com/pweat/rejestr-prac/internal/model"
	"github.com/pweat/rejestr-prac/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const msgDuplicateOffer = "offer with this number already exists."

// OfferMailer delivers a rendered offer. infra.Mailer implements it.
type OfferMailer interface {
	SendPDF(ctx context.Context, to, subject, body, fileName string, pdf []byte) error
}

// OfferDocument is a rendered offer ready to download or attach.
type OfferDocument struct {
	FileName string
	Content  []byte
}

type OfferService interface {
	Create(ctx context.Context, req dto.OfferRequest) (*dto.OfferResponse, error)
	Get(ctx context.Context, id uint) (*dto.OfferResponse, error)
	List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.OfferResponse], error)
	Update(ctx context.Context, id uint, req dto.OfferRequest) (*dto.OfferResponse, error)
	Delete(ctx context.Context, id uint) error
	RenderPDF(ctx context.Context, id uint) (*OfferDocument, error)
	Send(ctx context.Context, id uint) error
}

type offerService struct {
	repo    repository.OfferRepository
	clients repository.ClientRepository
	company config.Company
	mailer  OfferMailer // nil when SMTP is not configured
	now     func() time.Time
}

func NewOfferService(repo repository.OfferRepository, clients repository.ClientRepository, company config.Company, mailer OfferMailer) OfferService {
	return &offerService{repo: repo, clients: clients, company: company, mailer: mailer, now: time.Now}
}

// FormatOfferNumber renders OF/<sequence in month>/<MM>/<YYYY>.
func FormatOfferNumber(seq int64, issued time.Time) string {
	return fmt.Sprintf("OF/%d/%02d/%d", seq, int(issued.Month()), issued.Year())
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func mapOffer(o *model.Offer, withItems bool) dto.OfferResponse {
	resp := dto.OfferResponse{
		ID:          o.ID,
		OfferNumber: o.OfferNumber,
		ClientID:    o.ClientID,
		IssueDate:   o.IssueDate.Format(dateLayout),
		VATRate:     o.VATRate,
		Notes:       o.Notes,
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		Totals: dto.OfferTotals{
			Net:   o.Net().Round(2),
			VAT:   o.VAT().Round(2),
			Gross: o.Gross().Round(2),
		},
	}
	if o.Client != nil {
		resp.Client = &dto.OfferClient{
			ID:          o.Client.ID,
			Name:        o.Client.Name,
			PhoneNumber: o.Client.PhoneNumber,
			Address:     o.Client.Address,
			Email:       o.Client.Email,
		}
	}
	if withItems {
		factor := decimal.NewFromInt(1).Add(o.VATRate.Div(decimal.NewFromInt(100)))
		resp.Items = make([]dto.OfferItemResponse, len(o.Items))
		for i, it := range o.Items {
			net := it.NetValue()
			resp.Items[i] = dto.OfferItemResponse{
				Position:   it.Position,
				Name:       it.Name,
				Quantity:   it.Quantity,
				Unit:       it.Unit,
				NetPrice:   it.NetPrice,
				NetValue:   net.Round(2),
				GrossValue: net.Mul(factor).Round(2),
			}
		}
	}
	return resp
}

// buildOffer validates the request and resolves defaults. The offer number
// is assigned later, inside the create transaction.
func (s *offerService) buildOffer(ctx context.Context, req dto.OfferRequest) (*model.Offer, error) {
	if len(req.Items) == 0 {
		return nil, validationf("an offer needs at least one item.")
	}
	vat := model.DefaultVATRate
	if req.VATRate != nil {
		vat = *req.VATRate
	}
	if vat.IsNegative() || vat.GreaterThan(decimal.NewFromInt(100)) {
		return nil, validationf("vatRate must be between 0 and 100.")
	}

	issued := s.now().UTC()
	issued = time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC)
	if req.IssueDate != "" {
		var err error
		if issued, err = parseDate("issueDate", req.IssueDate); err != nil {
			return nil, err
		}
	}

	if req.ClientID != nil {
		if _, err := s.clients.FindByID(ctx, *req.ClientID); err != nil {
			return nil, lookup(err, "client")
		}
	}

	items := make([]model.OfferItem, len(req.Items))
	for i, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, validationf("item %d: name is required.", i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, validationf("item %d: quantity must be greater than zero.", i+1)
		}
		if it.NetPrice.IsNegative() {
			return nil, validationf("item %d: netPrice cannot be negative.", i+1)
		}
		if !fitsCents(it.Quantity) || !fitsCents(it.NetPrice) {
			return nil, validationf("item %d: quantity and netPrice allow at most two decimal places.", i+1)
		}
		items[i] = model.OfferItem{
			Position: i + 1,
			Name:     name,
			Quantity: it.Quantity,
			Unit:     strings.TrimSpace(it.Unit),
			NetPrice: it.NetPrice,
		}
	}

	return &model.Offer{
		ClientID:  req.ClientID,
		IssueDate: issued,
		VATRate:   vat,
		Notes:     blankToNil(req.Notes),
		Items:     items,
	}, nil
}

// Create numbers the offer one past the highest sequence already used in its
// month, so deleting an offer never frees its number for an older slot. Read
// and insert are not serialized: two concurrent creates in the same month can
// compute the same number, and the loser gets a conflict from the unique
// index on offer_number.
func (s *offerService) Create(ctx context.Context, req dto.OfferRequest) (*dto.OfferResponse, error) {
	o, err := s.buildOffer(ctx, req)
	if err != nil {
		return nil, err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.LastSequenceTx(tx, o.IssueDate.Year(), o.IssueDate.Month())
		if err != nil {
			return err
		}
		o.OfferNumber = FormatOfferNumber(n+1, o.IssueDate)
		if err := s.repo.CreateTx(tx, o); err != nil {
			return unique(err, msgDuplicateOffer)
		}
		return s.repo.ReplaceItemsTx(tx, o.ID, o.Items)
	})
	if err != nil {
		return nil, txFailure(err)
	}
	return s.Get(ctx, o.ID)
}

func (s *offerService) Get(ctx context.Context, id uint) (*dto.OfferResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "offer")
	}
	resp := mapOffer(o, true)
	return &resp, nil
}

func (s *offerService) List(ctx context.Context, q dto.ListQuery) (*dto.ListResponse[dto.OfferResponse], error) {
	q.Normalize()
	offers, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OfferResponse, len(offers))
	for i := range offers {
		data[i] = mapOffer(&offers[i], false)
	}
	return dto.NewListResponse(data, total, q), nil
}

// Update rewrites the header and replaces all items; the number is kept.
func (s *offerService) Update(ctx context.Context, id uint, req dto.OfferRequest) (*dto.OfferResponse, error) {
	o, err := s.buildOffer(ctx, req)
	if err != nil {
		return nil, err
	}
	o.ID = id
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateHeaderTx(tx, o); err != nil {
			return lookup(err, "offer")
		}
		return s.repo.ReplaceItemsTx(tx, id, o.Items)
	})
	if err != nil {
		return nil, txFailure(err)
	}
	return s.Get(ctx, id)
}

func (s *offerService) Delete(ctx context.Context, id uint) error {
	return lookup(s.repo.Delete(ctx, id), "offer")
}

func (s *offerService) render(o *model.Offer) (*OfferDocument, error) {
	content, err := infra.RenderOfferPDF(o, s.company)
	if err != nil {
		return nil, err
	}
	return &OfferDocument{FileName: infra.OfferFileName(o.OfferNumber), Content: content}, nil
}

func (s *offerService) RenderPDF(ctx context.Context, id uint) (*OfferDocument, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "offer")
	}
	return s.render(o)
}

// Send e-mails the rendered offer to the client's address.
func (s *offerService) Send(ctx context.Context, id uint) error {
	if s.mailer == nil {
		return unavailable("e-mail delivery is not configured.", nil)
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookup(err, "offer")
	}
	if o.Client == nil || o.Client.Email == nil || *o.Client.Email == "" {
		return validationf("client has no e-mail address.")
	}
	doc, err := s.render(o)
	if err != nil {
		return err
	}

	subject := "Oferta " + o.OfferNumber
	if s.company.Name != "" {
		subject += " - " + s.company.Name
	}
	body := fmt.Sprintf("Dzień dobry,\n\nw załączniku przesyłamy ofertę %s.\n\nZ poważaniem\n%s\n",
		o.OfferNumber, s.company.Author)

	if err := s.mailer.SendPDF(ctx, *o.Client.Email, subject, body, doc.FileName, doc.Content); err != nil {
		if errors.Is(err, infra.ErrCircuitOpen) {
			return unavailable("e-mail service is temporarily unavailable.", err)
		}
		return unavailable("could not send e-mail.", err)
	}
	return nil
}
