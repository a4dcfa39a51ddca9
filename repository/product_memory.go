package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"sportsstore/models"

	"github.com/shopspring/decimal"
)

// MemoryProductRepository keeps products in insertion order in process memory.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int64
}

// NewMemoryProductRepository stores the given products, assigning ids to
// those without one.
func NewMemoryProductRepository(seed ...models.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{nextID: 1}
	for _, p := range seed {
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	for _, p := range seed {
		if p.ID == 0 {
			p.ID = r.nextID
			r.nextID++
		}
		r.products = append(r.products, p)
	}
	return r
}

// DemoProducts is the starter catalog used when no database is configured.
func DemoProducts() []models.Product {
	return []models.Product{
		{Name: "Kayak", Description: "A boat for one person", Category: "Watersports", Price: decimal.NewFromInt(275)},
		{Name: "Lifejacket", Description: "Protective and fashionable", Category: "Watersports", Price: decimal.RequireFromString("48.95")},
		{Name: "Surf Board", Description: "Ride the waves", Category: "Watersports", Price: decimal.NewFromInt(179)},
		{Name: "Football", Description: "FIFA-approved size and weight", Category: "Soccer", Price: decimal.NewFromInt(25)},
		{Name: "Corner Flags", Description: "Give your playing field a professional touch", Category: "Soccer", Price: decimal.RequireFromString("34.95")},
		{Name: "Running Shoes", Description: "Light and quick", Category: "Running", Price: decimal.NewFromInt(95)},
		{Name: "Thinking Cap", Description: "Improve your brain efficiency by 75%", Category: "Chess", Price: decimal.NewFromInt(16)},
		{Name: "Unsteady Chair", Description: "Secretly give your opponent a disadvantage", Category: "Chess", Price: decimal.RequireFromString("29.95")},
	}
}

func (r *MemoryProductRepository) Products(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		p := r.products[i]
		return &p, nil
	}
	return nil, ErrProductNotFound
}

func (r *MemoryProductRepository) FindPage(_ context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Product
	for _, p := range r.products {
		if category == "" || p.Category == category {
			matched = append(matched, p)
		}
	}
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (r *MemoryProductRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return distinctCategories(r.products), nil
}

func (r *MemoryProductRepository) SaveProduct(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
		product.CreatedAt = now
		product.UpdatedAt = now
		r.products = append(r.products, *product)
		return nil
	}

	i := r.indexOf(product.ID)
	if i < 0 {
		return ErrProductNotFound
	}
	existing := &r.products[i]
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Category = product.Category
	existing.Price = product.Price
	existing.UpdatedAt = now
	*product = *existing
	return nil
}

func (r *MemoryProductRepository) DeleteProduct(_ context.Context, id int64) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrProductNotFound
	}
	deleted := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)
	return &deleted, nil
}

func (r *MemoryProductRepository) indexOf(id int64) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

func paginate(products []models.Product, page, limit int) []models.Product {
	if limit <= 0 {
		return products
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(products) {
		return []models.Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func distinctCategories(products []models.Product) []string {
	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}
