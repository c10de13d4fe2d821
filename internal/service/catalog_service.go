package service

import (
	"errors"
	"fmt"
	"time"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"
	"tienda-u-backend/pkg/validator"

	"github.com/google/uuid"
)

// featuredWindowDays is the trailing sales window used to rank
// featured products.
const featuredWindowDays = 30

var ErrProductNotFound = errors.New("product not found")

type CatalogService interface {
	ListSections() ([]model.Section, error)
	ListProducts(sectionID *uuid.UUID) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	ListFeaturedProducts(limit int) ([]model.Product, error)
	SetDailyStock(productID uuid.UUID, initialQty int, updatedBy string) (*model.DailyStock, error)
	ListDailyStock(date string) ([]model.DailyStock, error)
}

type catalogService struct {
	sectionRepo repository.SectionRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

func NewCatalogService(
	sectionRepo repository.SectionRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	invoiceRepo repository.InvoiceRepository,
	now func() time.Time,
) CatalogService {
	if now == nil {
		now = time.Now
	}
	return &catalogService{
		sectionRepo: sectionRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		invoiceRepo: invoiceRepo,
		now:         now,
	}
}

func (s *catalogService) ListSections() ([]model.Section, error) {
	return s.sectionRepo.FindActive()
}

func (s *catalogService) ListProducts(sectionID *uuid.UUID) ([]model.Product, error) {
	products, err := s.productRepo.FindActive(sectionID)
	if err != nil {
		return nil, err
	}
	if err := s.attachStock(products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct resolves one active product with today's stock attached.
// Inactive and missing products both read as not found.
func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil || !product.Active {
		return nil, ErrProductNotFound
	}

	products := []model.Product{*product}
	if err := s.attachStock(products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// attachStock resolves today's remaining quantity for every product in
// one batched query. Products without a stock row for today read as 0.
func (s *catalogService) attachStock(products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	stock, err := s.stockRepo.CurrentByProducts(ids, model.DateKey(s.now()))
	if err != nil {
		return err
	}

	for i := range products {
		products[i].CurrentStock = stock[products[i].ID]
	}
	return nil
}

func (s *catalogService) ListFeaturedProducts(limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}

	since := s.now().AddDate(0, 0, -featuredWindowDays)
	rows, err := s.invoiceRepo.BestSellers(since)
	if err != nil {
		return nil, err
	}

	var candidates []model.Product
	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			ids[i] = row.ProductID
		}
		loaded, err := s.productRepo.FindActiveByIDs(ids)
		if err != nil {
			return nil, err
		}
		// Restore the sales ranking lost by the IN query.
		byID := make(map[uuid.UUID]model.Product, len(loaded))
		for _, p := range loaded {
			byID[p.ID] = p
		}
		for _, row := range rows {
			if p, ok := byID[row.ProductID]; ok {
				candidates = append(candidates, p)
			}
		}
	} else {
		// No sales in the window: fall back to any active product that
		// has stock today.
		candidates, err = s.productRepo.FindActive(nil)
		if err != nil {
			return nil, err
		}
	}

	if err := s.attachStock(candidates); err != nil {
		return nil, err
	}

	featured := make([]model.Product, 0, limit)
	for _, p := range candidates {
		if p.CurrentStock <= 0 {
			continue
		}
		featured = append(featured, p)
		if len(featured) == limit {
			break
		}
	}
	return featured, nil
}

func (s *catalogService) SetDailyStock(productID uuid.UUID, initialQty int, updatedBy string) (*model.DailyStock, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}

	stock := &model.DailyStock{
		ProductID:  productID,
		Date:       model.DateKey(s.now()),
		InitialQty: initialQty,
		CurrentQty: initialQty,
		SoldQty:    0,
	}
	stock.CreatedBy = updatedBy
	stock.UpdatedBy = updatedBy

	if errs := validator.ValidateStruct(stock); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	if err := s.stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *catalogService) ListDailyStock(date string) ([]model.DailyStock, error) {
	if date == "" {
		date = model.DateKey(s.now())
	}
	return s.stockRepo.FindByDate(date)
}
