package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	idGen       IDGenerator
	clock       Clock
}

func NewProductUsecase(productRepo repo.ProductRepository, idGen IDGenerator, clock Clock) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, idGen: idGen, clock: clock}
}

type ListProductsInput struct {
	Category string
	Search   string
	Sort     string
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Varieties   []string        `json:"varieties"`
	Images      []string        `json:"images"`
	Active      *bool           `json:"active"`
}

// ListPublicProducts は公開中の商品だけを返す
func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if len(in.Search) > 100 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "search too long")
	}

	items, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Category: in.Category,
		Search:   in.Search,
		Sort:     in.Sort,
	})
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, id string) (model.Product, error) {
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindActiveByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := u.productRepo.ListCategories(ctx)
	if err != nil {
		return []string{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return categories, nil
}

// CreateProduct は管理者用
func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if in.Name == "" || in.Category == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name and category are required")
	}
	if in.Price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	now := u.clock.Now()
	p := model.Product{
		ID:          u.idGen.NewID(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Varieties:   in.Varieties,
		Images:      in.Images,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// UpdateProduct は管理者用。activeもここで切り替えられる
func (u *ProductUsecase) UpdateProduct(ctx context.Context, id string, in ProductInput) (model.Product, error) {
	if id == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Name == "" || in.Category == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name and category are required")
	}
	if in.Price.IsNegative() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	p := model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Varieties:   in.Varieties,
		Images:      in.Images,
		Active:      active,
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// DeleteProduct はソフト削除（active=false）
func (u *ProductUsecase) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.productRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
