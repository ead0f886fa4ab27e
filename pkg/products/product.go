package products

import (
	"time"

	"katydid-common-auth/pkg/validator"
)

// SceneProduct 商品写入场景
const SceneProduct validator.ValidateScene = 1 << 0

// Product 商品模型（Huellitas Alegres 的宠物用品目录）
type Product struct {
	// ID 主键，由 Snowflake 生成器分配
	ID int64 `gorm:"primaryKey" json:"id"`
	// Nombre 商品名称
	Nombre string `gorm:"size:200" json:"nombre"`
	// Descripcion 商品描述
	Descripcion string `gorm:"size:1000" json:"descripcion"`
	// Precio 单价
	Precio float64 `json:"precio"`
	// CantidadStock 库存数量
	CantidadStock int `json:"cantidad_stock"`
	// UpdatedAt 最后修改时间，列表按该字段倒序排列
	UpdatedAt time.Time `gorm:"column:fecha_ultima_modificacion" json:"fecha_ultima_modificacion" validate:"-"`
}

// TableName 沿用原有库表命名
func (Product) TableName() string {
	return "productos_producto"
}

// ProductRequest 商品创建/编辑请求
type ProductRequest struct {
	Nombre        string  `json:"nombre"`
	Descripcion   string  `json:"descripcion"`
	Precio        float64 `json:"precio"`
	CantidadStock int     `json:"cantidad_stock"`
}

// RuleValidation 实现 validator.RuleValidator 接口
func (r *ProductRequest) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		SceneProduct: {
			"Nombre":        "required,max=200",
			"Descripcion":   "required,max=1000",
			"Precio":        "gte=0",
			"CantidadStock": "gte=0",
		},
	}
}
