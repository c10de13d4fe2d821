package service

import (
	"errors"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type HistoryService interface {
	// ListInvoices returns invoices with nested line items and product
	// snapshots, newest invoice date first. A nil customerID lists all.
	ListInvoices(customerID *uuid.UUID) ([]model.Invoice, error)
	GetInvoice(id uuid.UUID) (*model.Invoice, error)
}

type historyService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewHistoryService(invoiceRepo repository.InvoiceRepository) HistoryService {
	return &historyService{invoiceRepo: invoiceRepo}
}

func (s *historyService) ListInvoices(customerID *uuid.UUID) ([]model.Invoice, error) {
	return s.invoiceRepo.FindAll(customerID)
}

func (s *historyService) GetInvoice(id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
