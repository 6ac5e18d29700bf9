package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// State is the persisted form of a cart. The keys match what the browser
// client keeps in local storage.
type State struct {
	Lines        []Line `json:"cart"`
	RestaurantID *int   `json:"cartRestaurantId,omitempty"`
}

func stateOf(c Cart) State {
	st := State{Lines: c.Lines()}
	if !c.Empty() {
		id := c.RestaurantID()
		st.RestaurantID = &id
	}
	return st
}

func (st State) cart() Cart {
	if st.RestaurantID == nil {
		return Cart{}
	}
	return FromLines(*st.RestaurantID, st.Lines)
}

type Persister interface {
	Load() (State, error)
	Save(State) error
}

// Store serialises access to a Cart and persists it after every mutation.
type Store struct {
	mu        sync.Mutex
	cart      Cart
	persister Persister
	confirm   Confirmer
}

// NewStore rehydrates the cart from persister.
func NewStore(persister Persister, confirm Confirmer) (*Store, error) {
	st, err := persister.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return &Store{cart: st.cart(), persister: persister, confirm: confirm}, nil
}

func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Add reports false when the customer declined to switch restaurants.
func (s *Store) Add(item Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.cart.Add(item, s.confirm)
	if !ok {
		return false, nil
	}
	return true, s.commit(next)
}

func (s *Store) UpdateQuantity(menuItemID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(s.cart.UpdateQuantity(menuItemID, quantity))
}

func (s *Store) Remove(menuItemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(s.cart.Remove(menuItemID))
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(s.cart.Clear())
}

func (s *Store) commit(next Cart) error {
	if err := s.persister.Save(stateOf(next)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.cart = next
	return nil
}

// FilePersister keeps the cart in a JSON file.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

func (p *FilePersister) Load() (State, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", p.Path, err)
	}
	return st, nil
}

func (p *FilePersister) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return err
	}
	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.Path)
}

// MemoryPersister keeps the last saved state in memory.
type MemoryPersister struct {
	mu    sync.Mutex
	state State
	Saves int
}

func (p *MemoryPersister) Load() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, nil
}

func (p *MemoryPersister) Save(st State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = st
	p.Saves++
	return nil
}
