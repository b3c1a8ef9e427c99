package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	"github.com/lancekit/lancekit/internal/clock"
	"github.com/lancekit/lancekit/internal/config"
	"github.com/lancekit/lancekit/internal/invoice/domain"
	"github.com/lancekit/lancekit/internal/invoice/engine"
	"github.com/lancekit/lancekit/internal/invoice/format"
	"github.com/lancekit/lancekit/internal/observability/metrics"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	"github.com/lancekit/lancekit/pkg/db/option"
	"github.com/lancekit/lancekit/pkg/db/pagination"
	"github.com/lancekit/lancekit/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Billing *config.BillingConfigHolder
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	billing     *config.BillingConfigHolder
	metrics     *metrics.Metrics
	repo        repository.Repository[domain.Invoice]
	itemRepo    repository.Repository[domain.InvoiceItem]
	clientRepo  repository.Repository[clientdomain.Client]
	projectRepo repository.Repository[projectdomain.Project]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		billing:     p.Billing,
		metrics:     p.Metrics,
		repo:        repository.ProvideStore[domain.Invoice](p.DB),
		itemRepo:    repository.ProvideStore[domain.InvoiceItem](p.DB),
		clientRepo:  repository.ProvideStore[clientdomain.Client](p.DB),
		projectRepo: repository.ProvideStore[projectdomain.Project](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	clientID, projectID, err := s.resolveRefs(ctx, req)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	billing := s.billing.Get()

	issueDate := now
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}
	dueDate := issueDate.AddDate(0, 0, billing.DueInDays)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}

	items, err := s.buildItems(req.Items, now)
	if err != nil {
		return domain.Invoice{}, err
	}
	totals := engine.RecomputeTotals(items, billing.TaxRate)

	invoice := domain.Invoice{
		ID:         s.genID.Generate(),
		ClientID:   clientID,
		ProjectID:  projectID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     domain.DeriveStatus(totals.Total, 0, dueDate, now),
		Subtotal:   totals.Subtotal,
		Tax:        totals.Tax,
		Total:      totals.Total,
		AmountPaid: 0,
		Notes:      strings.TrimSpace(req.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	invoice.Items = items

	// Number allocation and the invoice insert share a transaction, so a
	// failed insert never burns a sequence slot and concurrent creates
	// cannot collide on a number.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, issueDate.Year(), now)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = format.Number(billing.InvoiceNumberTemplate, issueDate, seq)
		return s.repo.WithTrx(tx).Create(ctx, &invoice)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceCreated(ctx)
	s.log.Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Float64("total", invoice.Total),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := &domain.Invoice{}
	opts := []option.QueryOption{}

	if status := strings.TrimSpace(req.Status); status != "" && status != "all" {
		filter.Status = domain.InvoiceStatus(status)
	}
	if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
		parsed, err := snowflake.ParseString(clientID)
		if err != nil || parsed == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidClient
		}
		filter.ClientID = parsed
	}
	if projectID := strings.TrimSpace(req.ProjectID); projectID != "" {
		parsed, err := snowflake.ParseString(projectID)
		if err != nil || parsed == 0 {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidProject
		}
		filter.ProjectID = parsed
	}

	page := req.Pagination.Normalized()
	opts = append(opts,
		option.WithSortBy(option.QuerySortBy{
			Field:     req.SortField,
			Direction: req.SortDirection,
			Allow:     map[string]bool{"issue_date": true, "due_date": true, "total": true, "created_at": true},
		}),
		option.ApplyPagination(page),
	)

	items, err := s.repo.Find(ctx, filter, opts...)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	return domain.ListInvoiceResponse{
		PageInfo: pagination.PageInfo{TotalCount: total, Limit: page.Limit, Offset: page.Offset},
		Invoices: invoices,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || invoiceID == 0 {
		return domain.Invoice{}, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindOne(ctx, &domain.Invoice{ID: invoiceID})
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	if err := s.loadItems(ctx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	clientID, projectID, err := s.resolveRefs(ctx, req.CreateInvoiceRequest)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	billing := s.billing.Get()

	items, err := s.buildItems(req.Items, now)
	if err != nil {
		return domain.Invoice{}, err
	}
	for i := range items {
		items[i].InvoiceID = existing.ID
	}
	totals := engine.RecomputeTotals(items, billing.TaxRate)

	existing.ClientID = clientID
	existing.ProjectID = projectID
	if req.IssueDate != nil {
		existing.IssueDate = req.IssueDate.UTC()
	}
	if req.DueDate != nil {
		existing.DueDate = req.DueDate.UTC()
	}
	existing.Subtotal = totals.Subtotal
	existing.Tax = totals.Tax
	existing.Total = totals.Total
	existing.Status = domain.DeriveStatus(existing.Total, existing.AmountPaid, existing.DueDate, now)
	existing.Notes = strings.TrimSpace(req.Notes)
	existing.UpdatedAt = now

	// Items are replaced wholesale inside one transaction, matching the
	// form's behavior of submitting the full item list on every save.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", existing.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		itemRefs := make([]*domain.InvoiceItem, len(items))
		for i := range items {
			itemRefs[i] = &items[i]
		}
		if err := s.itemRepo.WithTrx(tx).BatchCreate(ctx, itemRefs); err != nil {
			return err
		}
		update := existing
		update.Items = nil
		return s.repo.WithTrx(tx).Update(ctx, existing.ID, &update, domain.UpdatableColumns()...)
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	existing.Items = items
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", existing.ID).Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		return s.repo.WithTrx(tx).Delete(ctx, existing.ID)
	})
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.Invoice, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	updated, err := engine.ApplyPayment(existing, req.Amount, now)
	if err != nil {
		return domain.Invoice{}, err
	}
	updated.UpdatedAt = now

	values := updated
	values.Items = nil
	if err := s.repo.Update(ctx, updated.ID, &values, "amount_paid", "payment_date", "status", "updated_at"); err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordPayment(ctx, updated.Status == domain.InvoiceStatusPaid)
	s.log.Info("payment recorded",
		zap.String("invoice_number", updated.InvoiceNumber),
		zap.Float64("amount", req.Amount),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ? AND due_date < ?", domain.InvoiceStatusPending, now).
		Updates(map[string]any{"status": domain.InvoiceStatusOverdue, "updated_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *Service) resolveRefs(ctx context.Context, req domain.CreateInvoiceRequest) (snowflake.ID, snowflake.ID, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return 0, 0, domain.ErrInvalidClient
	}
	client, err := s.clientRepo.FindOne(ctx, &clientdomain.Client{ID: clientID})
	if err != nil {
		return 0, 0, err
	}
	if client == nil {
		return 0, 0, domain.ErrInvalidClient
	}

	var projectID snowflake.ID
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		projectID, err = snowflake.ParseString(raw)
		if err != nil || projectID == 0 {
			return 0, 0, domain.ErrInvalidProject
		}
		project, err := s.projectRepo.FindOne(ctx, &projectdomain.Project{ID: projectID})
		if err != nil {
			return 0, 0, err
		}
		if project == nil {
			return 0, 0, domain.ErrInvalidProject
		}
	}
	return clientID, projectID, nil
}

func (s *Service) buildItems(reqs []domain.LineItemRequest, now time.Time) ([]domain.InvoiceItem, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrNoItems
	}
	items := make([]domain.InvoiceItem, 0, len(reqs))
	for i, req := range reqs {
		description := strings.TrimSpace(req.Description)
		if description == "" || req.Quantity <= 0 || req.Rate < 0 {
			return nil, domain.ErrInvalidItem
		}
		items = append(items, domain.InvoiceItem{
			ID:          s.genID.Generate(),
			Position:    i,
			Description: description,
			Quantity:    req.Quantity,
			Rate:        req.Rate,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return items, nil
}

func (s *Service) loadItems(ctx context.Context, invoice *domain.Invoice) error {
	items, err := s.itemRepo.Find(ctx, &domain.InvoiceItem{InvoiceID: invoice.ID},
		option.WithSortBy(option.QuerySortBy{Field: "position", Direction: "asc", Allow: map[string]bool{"position": true}}))
	if err != nil {
		return err
	}
	invoice.Items = make([]domain.InvoiceItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoice.Items = append(invoice.Items, *item)
	}
	return nil
}

// nextSequence bumps the per-year counter and reads it back inside the
// caller's transaction. The row update takes a write lock, so concurrent
// allocations serialize on the year row.
func nextSequence(tx *gorm.DB, year int, now time.Time) (int64, error) {
	seed := domain.InvoiceSequence{Year: year, Seq: 0, UpdatedAt: now}
	if err := tx.Where(domain.InvoiceSequence{Year: year}).FirstOrCreate(&seed).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&domain.InvoiceSequence{}).
		Where("year = ?", year).
		Updates(map[string]any{"seq": gorm.Expr("seq + 1"), "updated_at": now}).Error; err != nil {
		return 0, err
	}

	var row domain.InvoiceSequence
	if err := tx.Where("year = ?", year).First(&row).Error; err != nil {
		return 0, err
	}
	return row.Seq, nil
}
