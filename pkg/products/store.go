package products

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrProductNotFound 商品不存在
var ErrProductNotFound = errors.New("products: product not found")

// Store 商品存储接口
type Store interface {
	// List 按最后修改时间倒序返回一页商品和总条数
	// limit 为 0 时不取行，只返回总条数
	List(ctx context.Context, offset, limit int) ([]*Product, int64, error)
	// Get 按主键查找商品，不存在时返回 ErrProductNotFound
	Get(ctx context.Context, id int64) (*Product, error)
	// Create 创建商品
	Create(ctx context.Context, product *Product) error
	// Update 保存商品的全部字段
	Update(ctx context.Context, product *Product) error
	// Delete 删除商品，目标不存在时不报错
	Delete(ctx context.Context, id int64) error
}

// AutoMigrate 同步商品表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Product{})
}

// gormStore Store 的 gorm 实现
type gormStore struct {
	db *gorm.DB
}

// NewStore 创建 gorm 商品存储
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) List(ctx context.Context, offset, limit int) ([]*Product, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*Product
	err := s.db.WithContext(ctx).
		Order("fecha_ultima_modificacion DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *gormStore) Get(ctx context.Context, id int64) (*Product, error) {
	var product Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) Create(ctx context.Context, product *Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *gormStore) Update(ctx context.Context, product *Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

func (s *gormStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&Product{}, id).Error
}
