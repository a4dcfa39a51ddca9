package services_test

import (
	"context"
	"errors"

	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/sender"

	"github.com/shopspring/decimal"
)

// --- Mock ProductRepository ---

type spyRepo struct {
	*repository.MemoryProductRepository
	saved   []models.Product
	deleted []int64
	failAll error
}

func newSpyRepo(products ...models.Product) *spyRepo {
	return &spyRepo{MemoryProductRepository: repository.NewMemoryProductRepository(products...)}
}

func (r *spyRepo) Products(ctx context.Context) ([]models.Product, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	return r.MemoryProductRepository.Products(ctx)
}

func (r *spyRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	return r.MemoryProductRepository.FindByID(ctx, id)
}

func (r *spyRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	r.saved = append(r.saved, *p)
	if r.failAll != nil {
		return r.failAll
	}
	return r.MemoryProductRepository.SaveProduct(ctx, p)
}

func (r *spyRepo) DeleteProduct(ctx context.Context, id int64) (*models.Product, error) {
	r.deleted = append(r.deleted, id)
	if r.failAll != nil {
		return nil, r.failAll
	}
	return r.MemoryProductRepository.DeleteProduct(ctx, id)
}

// --- Mock OrderProcessor ---

type mockProcessor struct {
	calls []processorCall
	err   error
}

type processorCall struct {
	lines    []models.CartLine
	shipping models.ShippingDetails
}

func (m *mockProcessor) ProcessOrder(_ context.Context, cart *models.Cart, shipping models.ShippingDetails) error {
	m.calls = append(m.calls, processorCall{lines: cart.Lines(), shipping: shipping})
	return m.err
}

// --- Mock EmailSender ---

type mockSender struct {
	to, subject, body string
	calls             int
	result            sender.SendResult
	err               error
}

func (m *mockSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.calls++
	m.to, m.subject, m.body = to, subject, body
	return m.result, m.err
}

// --- Mock ReceiptRepository ---

type mockReceipts struct {
	saved []models.OrderReceipt
	list  []models.OrderReceipt
	err   error
}

func (m *mockReceipts) SaveReceipt(_ context.Context, r *models.OrderReceipt) error {
	m.saved = append(m.saved, *r)
	return m.err
}

func (m *mockReceipts) ListReceipts(_ context.Context, _ models.ReceiptFilter) ([]models.OrderReceipt, int64, error) {
	return m.list, int64(len(m.list)), m.err
}

// --- Mock Publisher ---

type mockPublisher struct {
	keys     []string
	payloads [][]byte
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, key string, payload []byte) error {
	m.keys = append(m.keys, key)
	m.payloads = append(m.payloads, payload)
	return m.err
}

// --- Mock MetricsRecorder ---

type mockMetrics struct {
	counts []string
	values map[string]float64
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.counts = append(m.counts, name)
	return nil
}

func (m *mockMetrics) RecordValue(_ context.Context, name string, v float64, _ map[string]string) error {
	if m.values == nil {
		m.values = map[string]float64{}
	}
	m.values[name] = v
	return nil
}

// --- Helpers ---

var errDown = errors.New("downstream unavailable")

func product(id int64, name string, price int64) models.Product {
	return models.Product{ID: id, Name: name, Category: "Cat", Price: decimal.NewFromInt(price)}
}

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		Name:    "Joe Bloggs",
		Line1:   "1 Main Street",
		City:    "Springfield",
		State:   "IL",
		Zip:     "62701",
		Country: "USA",
	}
}
