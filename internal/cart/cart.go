package cart

import (
	"errors"
	"log"
	"sync"

	"github.com/dukahub/storefront/internal/api"
	"github.com/dukahub/storefront/internal/session"
	"github.com/google/uuid"
)

// Item is one cart line. ID is the line identifier, distinct from the
// product it references.
type Item struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"product_name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image_url,omitempty"`
}

// State is a read-only snapshot; Total and Count are derived from Items.
type State struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	Count     int     `json:"item_count"`
	IsLoading bool    `json:"is_loading"`
	Error     string  `json:"error,omitempty"`
}

// Storage persists the guest cart between runs of the shell.
type Storage interface {
	Load() ([]Item, error)
	Save(items []Item) error
}

var ErrItemNotFound = errors.New("cart item not found")

// Store holds the cart. Mutations from authenticated users are written
// through to the backend cart and re-synced; guest mutations stay local.
type Store struct {
	client  api.Client
	tokens  session.TokenStore
	storage Storage

	mu      sync.RWMutex
	items   []Item
	loading bool
	err     string
}

func NewStore(client api.Client, tokens session.TokenStore, storage Storage) *Store {
	s := &Store{client: client, tokens: tokens, storage: storage}
	if storage != nil {
		items, err := storage.Load()
		if err != nil {
			log.Printf("cart storage load error: %v", err)
		} else {
			s.items = items
		}
	}
	return s
}

func (s *Store) authenticated() bool {
	return s.tokens != nil && s.tokens.AccessToken() != ""
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	st := State{Items: items, IsLoading: s.loading, Error: s.err}
	for _, item := range items {
		st.Total += item.Price * float64(item.Quantity)
		st.Count += item.Quantity
	}
	return st
}

// Empty reports whether the cart has no lines.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.Save(s.items); err != nil {
		log.Printf("cart storage save error: %v", err)
	}
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// Add merges into an existing line for the same product, otherwise appends.
func (s *Store) Add(item Item) error {
	s.setError("")

	if s.authenticated() {
		err := s.client.AddCartItem(api.AddCartItemRequest{
			Product:  item.ProductID,
			Quantity: item.Quantity,
		})
		if err != nil {
			s.setError(err.Error())
			return err
		}
		return s.Sync()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			s.items[i].Quantity += item.Quantity
			s.persistLocked()
			return nil
		}
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.items = append(s.items, item)
	s.persistLocked()
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(itemID string, quantity int) error {
	s.setError("")

	if s.authenticated() {
		if err := s.client.UpdateCartItem(itemID, quantity); err != nil {
			s.setError(err.Error())
			return err
		}
		return s.Sync()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			} else {
				s.items[i].Quantity = quantity
			}
			s.persistLocked()
			return nil
		}
	}
	return ErrItemNotFound
}

func (s *Store) Remove(itemID string) error {
	s.setError("")

	if s.authenticated() {
		if err := s.client.RemoveCartItem(itemID); err != nil {
			s.setError(err.Error())
			return err
		}
		return s.Sync()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrItemNotFound
}

// Clear empties the cart, including the backend copy for authenticated
// users. A backend failure leaves the local cart untouched.
func (s *Store) Clear() error {
	s.setError("")

	if s.authenticated() {
		if err := s.client.ClearCart(); err != nil {
			s.setError(err.Error())
			return err
		}
	}
	s.Reset()
	return nil
}

// Reset drops all lines locally without touching the backend. The checkout
// completion path uses it after the order has already consumed the cart.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
}

// Replace swaps the whole line set, used when hydrating from storage or the
// backend.
func (s *Store) Replace(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.persistLocked()
}

// Sync pulls the authoritative cart from the backend.
func (s *Store) Sync() error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	payload, err := s.client.GetCart()
	if err != nil {
		log.Printf("cart sync error: %v", err)
		return err
	}

	items := make([]Item, 0, len(payload.Items))
	for _, it := range payload.Items {
		items = append(items, Item{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.ImageURL,
		})
	}
	s.Replace(items)
	return nil
}
