package service

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"tienda-u-backend/internal/model"
	"tienda-u-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidCartItem = errors.New("cart item requires a product and a quantity of at least 1")
)

type CartService interface {
	Get(userID uuid.UUID) ([]model.CartItem, error)
	Add(userID uuid.UUID, item model.CartItem) ([]model.CartItem, error)
	SetQuantity(userID, productID uuid.UUID, quantity int) ([]model.CartItem, error)
	Remove(userID, productID uuid.UUID) ([]model.CartItem, error)
	Clear(userID uuid.UUID) error
	Summary(userID uuid.UUID) (*model.CartSummary, error)
	ItemQuantity(userID, productID uuid.UUID) (int, error)
}

// cartService keeps each user's cart in memory and mirrors it to the
// keyed blob store after every mutation. Persistence failures are
// logged, not surfaced; the in-memory state stays authoritative for
// the session. Mutations are serialized by the mutex.
type cartService struct {
	cartRepo repository.CartRepository
	taxRate  decimal.Decimal

	mu    sync.Mutex
	carts map[uuid.UUID][]model.CartItem
}

func NewCartService(cartRepo repository.CartRepository, taxRate decimal.Decimal) CartService {
	return &cartService{
		cartRepo: cartRepo,
		taxRate:  taxRate,
		carts:    make(map[uuid.UUID][]model.CartItem),
	}
}

// load returns the cached cart, falling back to the persisted blob on
// first access. A missing blob is just an empty cart.
func (s *cartService) load(userID uuid.UUID) ([]model.CartItem, error) {
	if items, ok := s.carts[userID]; ok {
		return items, nil
	}

	blob, err := s.cartRepo.Load(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.carts[userID] = []model.CartItem{}
		return s.carts[userID], nil
	}
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	if err := json.Unmarshal(blob.Items, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	s.carts[userID] = items
	return items, nil
}

// persist overwrites the user's blob with the full item list.
func (s *cartService) persist(userID uuid.UUID, items []model.CartItem) {
	data, err := json.Marshal(items)
	if err != nil {
		log.Println("cart: failed to serialize cart for", userID, ":", err)
		return
	}
	if err := s.cartRepo.Save(userID, data); err != nil {
		log.Println("cart: failed to persist cart for", userID, ":", err)
	}
}

func (s *cartService) Get(userID uuid.UUID) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(userID)
}

func (s *cartService) Add(userID uuid.UUID, item model.CartItem) ([]model.CartItem, error) {
	if item.Product.ID == uuid.Nil || item.Quantity < 1 {
		return nil, ErrInvalidCartItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	// Merge by product id: adding an existing product increments its
	// quantity instead of appending a second line.
	merged := false
	for i := range items {
		if items[i].Product.ID == item.Product.ID {
			items[i].Quantity += item.Quantity
			if item.Notes != "" {
				items[i].Notes = item.Notes
			}
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
	}

	s.carts[userID] = items
	s.persist(userID, items)
	return items, nil
}

func (s *cartService) SetQuantity(userID, productID uuid.UUID, quantity int) ([]model.CartItem, error) {
	if quantity <= 0 {
		return s.Remove(userID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	s.carts[userID] = items
	s.persist(userID, items)
	return items, nil
}

func (s *cartService) Remove(userID, productID uuid.UUID) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}

	s.carts[userID] = kept
	s.persist(userID, kept)
	return kept, nil
}

func (s *cartService) Clear(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty := []model.CartItem{}
	s.carts[userID] = empty
	s.persist(userID, empty)
	return nil
}

func (s *cartService) Summary(userID uuid.UUID) (*model.CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	itemCount := 0
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.Product.UnitPrice.Mul(qty))
		itemCount += item.Quantity
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(s.taxRate).Round(2)

	return &model.CartSummary{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: itemCount,
	}, nil
}

func (s *cartService) ItemQuantity(userID, productID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(userID)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if item.Product.ID == productID {
			return item.Quantity, nil
		}
	}
	return 0, nil
}
