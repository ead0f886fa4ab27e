package products

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"katydid-common-auth/pkg/idgen"
	"katydid-common-auth/pkg/validator"
)

// PageSize 商品列表的每页条数
const PageSize = 10

// ValidationFailed 请求验证失败，携带全部字段错误
type ValidationFailed struct {
	// Errors 字段错误列表
	Errors []*validator.FieldError
}

// Error 实现 error 接口
func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("products: validation failed with %d field error(s)", len(e.Errors))
}

// Page 一页商品列表
type Page struct {
	// Items 本页商品，按最后修改时间倒序
	Items []*Product `json:"productos"`
	// Number 实际返回的页码（请求页非法时回退到第 1 页）
	Number int `json:"page"`
	// TotalPages 总页数，空目录也算一页
	TotalPages int `json:"total_pages"`
	// Total 商品总条数
	Total int64 `json:"total"`
}

// Service 商品目录服务：分页列表与增删改
type Service struct {
	store Store
	ids   *idgen.Generator
	v     *validator.Validator
	log   *zap.Logger
}

// NewService 创建商品服务
func NewService(store Store, ids *idgen.Generator, log *zap.Logger) (*Service, error) {
	if store == nil || ids == nil {
		return nil, errors.New("products: service dependencies missing")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store: store,
		ids:   ids,
		v:     validator.New(),
		log:   log,
	}, nil
}

// ListPage 返回商品列表的一页
// 页码从 1 开始；页码小于 1 或超出总页数时回退到第 1 页，而不是报错
func (s *Service) ListPage(ctx context.Context, page int) (*Page, error) {
	_, total, err := s.store.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 || page > totalPages {
		page = 1
	}

	items, _, err := s.store.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}
	return &Page{
		Items:      items,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}

// Create 创建商品
func (s *Service) Create(ctx context.Context, req *ProductRequest) (*Product, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, err
	}
	product := &Product{
		ID:            id,
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		Precio:        req.Precio,
		CantidadStock: req.CantidadStock,
	}
	if err := s.store.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.Int64("product_id", product.ID), zap.String("nombre", product.Nombre))
	return product, nil
}

// Update 更新商品的全部字段
func (s *Service) Update(ctx context.Context, id int64, req *ProductRequest) (*Product, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	product, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Nombre = req.Nombre
	product.Descripcion = req.Descripcion
	product.Precio = req.Precio
	product.CantidadStock = req.CantidadStock
	if err := s.store.Update(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product updated", zap.Int64("product_id", id))
	return product, nil
}

// Delete 删除商品
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *Service) validate(req *ProductRequest) error {
	if req == nil {
		return &ValidationFailed{Errors: []*validator.FieldError{
			validator.NewFieldError(nil, "", "request", "required", ""),
		}}
	}
	if fieldErrs := s.v.Validate(req, SceneProduct); len(fieldErrs) > 0 {
		return &ValidationFailed{Errors: fieldErrs}
	}
	return nil
}
