package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/daycare-api/internal/billing"
	"github.com/noah-isme/daycare-api/internal/models"
	"github.com/noah-isme/daycare-api/pkg/docstore"
)

// InvoiceRepository persists invoices, one per student and month.
type InvoiceRepository struct {
	store docstore.Store
}

// NewInvoiceRepository constructs the repository.
func NewInvoiceRepository(store docstore.Store) *InvoiceRepository {
	return &InvoiceRepository{store: store}
}

// FindByKey loads the invoice of a student for a month.
func (r *InvoiceRepository) FindByKey(ctx context.Context, key billing.InvoiceKey) (*models.Invoice, error) {
	return r.FindByID(ctx, key.DocumentID())
}

// FindByID loads an invoice.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.store.Get(ctx, CollectionInvoices, id, &invoice); err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}
	invoice.ID = id
	return &invoice, nil
}

// Put creates the invoice or fully replaces the one stored under the same key.
func (r *InvoiceRepository) Put(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = billing.InvoiceKeyFor(invoice.StudentID, invoice.Date).DocumentID()
	if err := r.store.Set(ctx, CollectionInvoices, invoice.ID, invoice); err != nil {
		return fmt.Errorf("put invoice %s: %w", invoice.ID, err)
	}
	return nil
}

// UpdateStatus changes only the status of an invoice.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus, at time.Time) error {
	fields := map[string]interface{}{"status": status, "updated_at": at}
	if err := r.store.Update(ctx, CollectionInvoices, id, fields); err != nil {
		return fmt.Errorf("update invoice %s status: %w", id, err)
	}
	return nil
}

// List returns invoices matching the filter.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	docs, err := r.store.List(ctx, CollectionInvoices)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	invoices, err := decodeDocuments(CollectionInvoices, docs, func(i *models.Invoice, id string) { i.ID = id })
	if err != nil {
		return nil, err
	}
	filtered := invoices[:0]
	for _, inv := range invoices {
		if filter.StudentID != 0 && inv.StudentID != filter.StudentID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.Year != 0 && inv.Date.Year() != filter.Year {
			continue
		}
		if filter.Month != 0 && int(inv.Date.Month()) != filter.Month {
			continue
		}
		filtered = append(filtered, inv)
	}
	return filtered, nil
}
