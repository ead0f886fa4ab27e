package validator

import (
	"fmt"
)

// 常量定义：用于错误消息和防御检查
const (
	// maxMapKeyLength 最大键名长度，防止恶意超长键名
	maxMapKeyLength = 256
)

// MapValidator Map 字段验证器，专门用于验证 map[string]any 类型的动态扩展字段
// 设计目标：
//   - 单一职责：只负责 map 类型的验证逻辑
//   - 开放封闭：通过 KeyValidators 支持扩展，无需修改核心代码
type MapValidator struct {
	// ParentNameSpace 结构体命名空间，用于生成准确的错误路径
	// 例如：User.Extras
	ParentNameSpace string

	// RequiredKeys 必填的键列表，这些键必须存在于 map 中
	RequiredKeys []string

	// AllowedKeys 允许的键白名单（如果为空则不限制）
	// 用于防止非法字段注入
	AllowedKeys []string

	// KeyValidators 特定键的自定义验证函数映射
	// key: 字段名，value: 验证函数（返回 error 表示验证失败）
	KeyValidators map[string]func(value any) error

	// allowedKeysMap 内部缓存的允许键 map（O(1) 查找）
	allowedKeysMap map[string]bool
}

// NewMapValidator 创建 Map 验证器
func NewMapValidator(parentNamespace string) *MapValidator {
	return &MapValidator{
		ParentNameSpace: parentNamespace,
		KeyValidators:   make(map[string]func(value any) error),
	}
}

// WithRequiredKeys 设置必填键，返回自身便于链式调用
func (m *MapValidator) WithRequiredKeys(keys ...string) *MapValidator {
	m.RequiredKeys = keys
	return m
}

// WithAllowedKeys 设置允许键白名单，返回自身便于链式调用
func (m *MapValidator) WithAllowedKeys(keys ...string) *MapValidator {
	m.AllowedKeys = keys
	m.allowedKeysMap = make(map[string]bool, len(keys))
	for _, key := range keys {
		m.allowedKeysMap[key] = true
	}
	return m
}

// WithKeyValidator 为特定键设置验证函数，返回自身便于链式调用
func (m *MapValidator) WithKeyValidator(key string, fn func(value any) error) *MapValidator {
	m.KeyValidators[key] = fn
	return m
}

// Validate 验证 map 数据，收集所有错误后统一返回
// 验证顺序：必填键 -> 白名单 -> 键名长度 -> 自定义键验证
func (m *MapValidator) Validate(data map[string]any) []*FieldError {
	var errs []*FieldError

	// 必填键检查
	for _, key := range m.RequiredKeys {
		if _, ok := data[key]; !ok {
			errs = append(errs, NewFieldError(nil, key, key, "required", "").
				WithNamespace(m.namespaceOf(key)))
		}
	}

	for key, value := range data {
		// 键名长度检查
		if len(key) > maxMapKeyLength {
			errs = append(errs, NewFieldError(value, key, key, "max_key_len",
				fmt.Sprintf("%d", maxMapKeyLength)).WithNamespace(m.ParentNameSpace))
			continue
		}

		// 白名单检查
		if len(m.allowedKeysMap) > 0 && !m.allowedKeysMap[key] {
			errs = append(errs, NewFieldError(value, key, key, "not_allowed", "").
				WithNamespace(m.namespaceOf(key)))
			continue
		}

		// 自定义键验证
		if fn, ok := m.KeyValidators[key]; ok && fn != nil {
			if err := fn(value); err != nil {
				errs = append(errs, NewFieldError(value, key, key, "key_validate", "").
					WithMessage(err.Error()).WithNamespace(m.namespaceOf(key)))
			}
		}
	}

	return errs
}

// namespaceOf 生成键的完整命名空间
func (m *MapValidator) namespaceOf(key string) string {
	if m.ParentNameSpace == "" {
		return key
	}
	return m.ParentNameSpace + "." + key
}
