package services

import (
	"context"
	"errors"
	"fmt"

	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/validation"

	aws_pkg "sportsstore/pkg/aws"

	"go.uber.org/zap"
)

const ViewEdit = "Edit"

// AdminService manages the catalog.
type AdminService interface {
	List(ctx context.Context) (models.ActionResult, error)
	// Edit shows the product, with a nil model when the id is unknown.
	Edit(ctx context.Context, id int64) (models.ActionResult, error)
	Create() models.ActionResult
	// Save stores product unless state carries validation errors, in which
	// case the edit view is shown again and the store is not touched.
	Save(ctx context.Context, product models.Product, state validation.ModelState) (models.ActionResult, error)
	Delete(ctx context.Context, id int64) (models.ActionResult, error)
	Receipts(ctx context.Context, filter models.ReceiptFilter) ([]models.OrderReceipt, int64, error)
}

type adminServiceImpl struct {
	repo     repository.ProductRepository
	receipts repository.ReceiptRepository
	metrics  MetricsRecorder
	logger   *zap.Logger
}

// NewAdminService wires the admin operations. receipts and metrics may be nil.
func NewAdminService(
	repo repository.ProductRepository,
	receipts repository.ReceiptRepository,
	metrics MetricsRecorder,
	logger *zap.Logger,
) AdminService {
	return &adminServiceImpl{repo: repo, receipts: receipts, metrics: metrics, logger: logger}
}

func (s *adminServiceImpl) List(ctx context.Context) (models.ActionResult, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("list products: %w", err)
	}
	return models.ShowView(ViewIndex, products, validation.ModelState{}), nil
}

func (s *adminServiceImpl) Edit(ctx context.Context, id int64) (models.ActionResult, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return models.ShowView(ViewEdit, nil, validation.ModelState{}), nil
	}
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return models.ShowView(ViewEdit, product, validation.ModelState{}), nil
}

func (s *adminServiceImpl) Create() models.ActionResult {
	return models.ShowView(ViewEdit, &models.Product{}, validation.ModelState{})
}

func (s *adminServiceImpl) Save(ctx context.Context, product models.Product, state validation.ModelState) (models.ActionResult, error) {
	if !state.IsValid() {
		return models.ShowView(ViewEdit, &product, state), nil
	}

	if err := s.repo.SaveProduct(ctx, &product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return models.ActionResult{}, notFound("Product not found")
		}
		return models.ActionResult{}, fmt.Errorf("save product: %w", err)
	}

	s.logger.Info("Product saved", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	s.recordCount(ctx, aws_pkg.MetricProductsSaved)
	return models.Redirect(ActionIndex, map[string]string{
		"message": fmt.Sprintf("%s has been saved", product.Name),
	}), nil
}

// Delete removes the product. An unknown id is reported as not found
// rather than ignored.
func (s *adminServiceImpl) Delete(ctx context.Context, id int64) (models.ActionResult, error) {
	deleted, err := s.repo.DeleteProduct(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return models.ActionResult{}, notFound("Product not found")
	}
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("delete product %d: %w", id, err)
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", deleted.ID), zap.String("name", deleted.Name))
	s.recordCount(ctx, aws_pkg.MetricProductsDelete)
	return models.Redirect(ActionIndex, map[string]string{
		"message": fmt.Sprintf("%s was deleted", deleted.Name),
	}), nil
}

func (s *adminServiceImpl) Receipts(ctx context.Context, filter models.ReceiptFilter) ([]models.OrderReceipt, int64, error) {
	if s.receipts == nil {
		return nil, 0, &ServiceError{StatusCode: 501, Message: "Order receipts are not enabled"}
	}
	receipts, total, err := s.receipts.ListReceipts(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	return receipts, total, nil
}

func (s *adminServiceImpl) recordCount(ctx context.Context, metric string) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordCount(ctx, metric, nil); err != nil {
		s.logger.Warn("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
