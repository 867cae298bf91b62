package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Storage persists the cart between runs, the way a browser keeps it in local storage.
type Storage interface {
	Load() (map[string]int, error)
	Save(map[string]int) error
}

// CartStore is the guest cart: product SKU to quantity. It never talks to the server.
type CartStore struct {
	mu      sync.Mutex
	items   map[string]int
	storage Storage
}

// NewCartStore loads the saved cart from storage. A nil storage keeps the cart in memory.
func NewCartStore(storage Storage) (*CartStore, error) {
	if storage == nil {
		storage = &MemoryStorage{}
	}
	items, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if items == nil {
		items = map[string]int{}
	}
	for sku, qty := range items {
		if qty <= 0 {
			delete(items, sku)
		}
	}
	return &CartStore{items: items, storage: storage}, nil
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Add increases the quantity of sku by qty.
func (c *CartStore) Add(sku string, qty int) error {
	sku = normalizeSKU(sku)
	if sku == "" {
		return errors.New("sku is required")
	}
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[sku] += qty
	return c.save()
}

// Set replaces the quantity of sku. Zero removes the line.
func (c *CartStore) Set(sku string, qty int) error {
	sku = normalizeSKU(sku)
	if sku == "" {
		return errors.New("sku is required")
	}
	if qty < 0 {
		return fmt.Errorf("quantity cannot be negative, got %d", qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty == 0 {
		delete(c.items, sku)
	} else {
		c.items[sku] = qty
	}
	return c.save()
}

func (c *CartStore) Remove(sku string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, normalizeSKU(sku))
	return c.save()
}

func (c *CartStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[string]int{}
	return c.save()
}

// Lines returns the cart as checkout lines, ordered by SKU.
func (c *CartStore) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, 0, len(c.items))
	for sku, qty := range c.items {
		lines = append(lines, Line{SKU: sku, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].SKU < lines[j].SKU })
	return lines
}

func (c *CartStore) TotalQuantity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, qty := range c.items {
		total += qty
	}
	return total
}

func (c *CartStore) save() error {
	snapshot := make(map[string]int, len(c.items))
	for k, v := range c.items {
		snapshot[k] = v
	}
	return c.storage.Save(snapshot)
}

type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]int
}

func (m *MemoryStorage) Load() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStorage) Save(items map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	return nil
}

// FileStorage keeps the cart as a JSON object in Path.
type FileStorage struct {
	Path string
}

func (f FileStorage) Load() (map[string]int, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := map[string]int{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return items, nil
}

// Save replaces the file through a rename.
func (f FileStorage) Save(items map[string]int) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
