package services

import (
	"context"
	"fmt"

	"sportsstore/models"
	"sportsstore/repository"
	"sportsstore/validation"

	"golang.org/x/sync/errgroup"
)

const (
	ViewList = "List"
	ViewMenu = "Menu"

	DefaultPageSize = 4
)

// CatalogService serves the public product pages.
type CatalogService interface {
	List(ctx context.Context, category string, page int) (models.ActionResult, error)
	Menu(ctx context.Context, category string) (models.ActionResult, error)
}

type catalogServiceImpl struct {
	repo     repository.ProductRepository
	pageSize int
}

func NewCatalogService(repo repository.ProductRepository, pageSize int) CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &catalogServiceImpl{repo: repo, pageSize: pageSize}
}

// List returns one page of products with the category menu. The two reads
// run concurrently.
func (s *catalogServiceImpl) List(ctx context.Context, category string, page int) (models.ActionResult, error) {
	if page < 1 {
		page = 1
	}

	var (
		products   []models.Product
		total      int64
		categories []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, total, err = s.repo.FindPage(gctx, category, page, s.pageSize)
		if err != nil {
			return fmt.Errorf("find products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.Categories(gctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.ActionResult{}, err
	}

	if products == nil {
		products = []models.Product{}
	}
	return models.ShowView(ViewList, models.ProductsListViewModel{
		Products:        products,
		PagingInfo:      models.NewPagingInfo(page, s.pageSize, total),
		CurrentCategory: category,
		Categories:      categories,
	}, validation.ModelState{}), nil
}

func (s *catalogServiceImpl) Menu(ctx context.Context, category string) (models.ActionResult, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return models.ActionResult{}, fmt.Errorf("list categories: %w", err)
	}
	return models.ShowView(ViewMenu, models.NavViewModel{
		Categories:       categories,
		SelectedCategory: category,
	}, validation.ModelState{}), nil
}
