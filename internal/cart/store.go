package cart

import (
	"context"
	"encoding/json"
	"sync"

	"ostro-bazar/internal/catalog"
	"ostro-bazar/internal/discount"
	"ostro-bazar/internal/pricing"

	"go.uber.org/zap"
)

// LineItem is a product in the cart paired with a quantity. Identity is the
// product id: the cart never holds two lines for the same product.
type LineItem struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Store owns the canonical cart state. It is the single injectable cart
// service: every mutation goes through it, every mutation is persisted to
// the slot, and external slot writes replace the in-memory line items
// wholesale (last writer wins, never a field-by-field merge).
//
// The discount rate is process-local. It is not serialized into the slot,
// and a reload never resurrects one.
type Store struct {
	mu       sync.Mutex
	slot     Slot
	resolver *discount.Resolver
	logger   *zap.Logger

	items []LineItem
	open  bool
	rate  float64

	cancelWatch context.CancelFunc
}

// NewStore hydrates a store from the slot and starts watching it for
// external changes. A slot that is empty or holds malformed JSON yields an
// empty cart; hydration problems are logged, never fatal.
func NewStore(slot Slot, resolver *discount.Resolver, logger *zap.Logger) *Store {
	s := &Store{
		slot:     slot,
		resolver: resolver,
		logger:   logger,
	}

	data, err := slot.Load(context.Background())
	if err != nil {
		logger.Warn("Failed to load persisted cart, starting empty", zap.Error(err))
	} else if data != nil {
		var items []LineItem
		if err := json.Unmarshal(data, &items); err != nil {
			logger.Warn("Failed to parse persisted cart, starting empty", zap.Error(err))
		} else {
			s.items = items
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelWatch = cancel

	updates, err := slot.Watch(ctx)
	if err != nil {
		logger.Warn("Cart slot watch unavailable, cross-tab sync disabled", zap.Error(err))
		return s
	}

	go func() {
		for data := range updates {
			s.adoptExternal(data)
		}
	}()

	return s
}

// adoptExternal applies a slot write made elsewhere: full state replacement,
// discount rate untouched. A payload that does not parse is dropped and the
// current state kept.
func (s *Store) adoptExternal(data []byte) {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("Malformed external cart update ignored", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug("Cart replaced from external update", zap.Int("items", len(items)))
}

// persist writes the current line items to the slot. Persistence failures
// are logged and swallowed: the in-memory cart stays authoritative and the
// next successful write catches the slot up.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("Failed to serialize cart", zap.Error(err))
		return
	}
	if err := s.slot.Store(context.Background(), data); err != nil {
		s.logger.Warn("Failed to persist cart", zap.Error(err))
	}
}

// Add puts a product in the cart. A product already present gets its
// quantity incremented instead of a duplicate line. Adding always opens the
// cart view and always succeeds; zero stock is informational only.
func (s *Store) Add(product catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, LineItem{Product: product, Quantity: 1})
	}

	s.open = true
	s.persist()
}

// Remove deletes the line item with the given product id; absent ids are a
// no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != productID {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.persist()
}

// UpdateQuantity replaces a line item's quantity. Quantities below 1 are
// rejected silently; removal is explicit via Remove, never a side effect of
// reaching zero here.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.persist()
}

// Clear empties the cart and resets the discount rate.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	s.rate = 0
	s.persist()
}

// Checkout is terminal within the storefront: it clears the cart and closes
// the cart view. No order or payment interface is invoked.
func (s *Store) Checkout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	s.rate = 0
	s.open = false
	s.persist()
}

// SetOpen toggles cart view visibility. Pure presentation state.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}

// ApplyDiscount validates a code and adopts the resulting rate. A blank
// code is a no-op that leaves the current rate alone; an invalid code
// clears it; a valid code replaces it.
func (s *Store) ApplyDiscount(code string) discount.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.resolver.Apply(code, s.subtotalLocked())
	if err != nil {
		// Blank code: nothing changes, nothing to report.
		return discount.Result{}
	}

	s.rate = result.Rate
	return result
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items
}

// IsOpen reports cart view visibility.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// DiscountRate returns the active discount rate.
func (s *Store) DiscountRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// Totals computes the price breakdown from current state. Always fresh,
// never cached.
func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]pricing.Line, len(s.items))
	for i, item := range s.items {
		lines[i] = pricing.Line{UnitPrice: item.Price, Quantity: item.Quantity}
	}
	return pricing.Quote(lines, s.rate)
}

func (s *Store) subtotalLocked() float64 {
	var subtotal float64
	for _, item := range s.items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// Close cancels the slot subscription and releases the slot.
func (s *Store) Close() error {
	s.cancelWatch()
	return s.slot.Close()
}
