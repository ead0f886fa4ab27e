package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errorMessageEstimateLen 单条错误消息的预估长度，用于 strings.Builder 预分配
const errorMessageEstimateLen = 48

// ValidationContext 验证上下文，用于收集一次验证过程中的全部错误
type ValidationContext struct {
	// Scene 验证场景
	Scene ValidateScene `json:"scene"`
	// Message 总体错误消息（可选）
	Message string `json:"message,omitempty"`
	// Errors 所有验证错误的集合（可选）
	Errors []*FieldError `json:"errors,omitempty"`
}

// FieldError 单个字段的验证错误
// 国际化时，可以通过 Namespace + Tag 和 Param 查找对应的翻译
type FieldError struct {
	// FieldName 结构体字段名
	FieldName string `json:"field_name,omitempty"`
	// JsonName JSON 字段名
	JsonName string `json:"json_name"`
	// Tag 验证标签（如 required, auth_email, min 等）
	Tag string `json:"tag"`
	// Param 验证参数（如 min=3 中的 "3"）
	Param string `json:"param,omitempty"`
	// Value 字段的实际值
	Value any `json:"value,omitempty"`
	// Message 友好的错误消息（可选，用于直接显示给用户）
	Message string `json:"message,omitempty"`
	// Namespace 字段的完整命名空间（如 RegisterRequest.Email）
	Namespace string `json:"namespace,omitempty"`
}

// NewValidationContext 创建验证上下文
func NewValidationContext(scene ValidateScene) *ValidationContext {
	return &ValidationContext{
		Scene:  scene,
		Errors: make([]*FieldError, 0),
	}
}

// NewFieldError 创建字段错误
func NewFieldError(value any, fieldName, jsonName, tag, param string) *FieldError {
	return &FieldError{
		FieldName: fieldName,
		JsonName:  jsonName,
		Tag:       tag,
		Param:     param,
		Value:     value,
		Namespace: jsonName,
	}
}

// Error 实现 error 接口
func (vc *ValidationContext) Error() string {
	if len(vc.Errors) == 0 {
		if len(vc.Message) == 0 {
			return "validation passed: no errors"
		}
		return fmt.Sprintf("validation failed: %s", vc.Message)
	}

	var builder strings.Builder
	builder.Grow(len(vc.Errors) * errorMessageEstimateLen)

	for i, err := range vc.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.String())
	}

	return builder.String()
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	if fe.Message != "" {
		return fmt.Sprintf("field '%s': %s", fe.JsonName, fe.Message)
	}
	return fmt.Sprintf("field '%s' validation failed on tag '%s'", fe.JsonName, fe.Tag)
}

// HasErrors 检查是否有验证错误
func (vc *ValidationContext) HasErrors() bool {
	return len(vc.Errors) > 0
}

// FirstError 返回第一个字段错误（没有错误时返回 nil）
// 用途：表单提交失败时，焦点需要落在第一个无效字段上
func (vc *ValidationContext) FirstError() *FieldError {
	if len(vc.Errors) == 0 {
		return nil
	}
	return vc.Errors[0]
}

// AddError 通过 FieldError 添加字段错误
func (vc *ValidationContext) AddError(err *FieldError) {
	if err != nil {
		vc.Errors = append(vc.Errors, err)
	}
}

// AddErrorByValidator 通过 validator.FieldError 添加字段错误
func (vc *ValidationContext) AddErrorByValidator(err validator.FieldError) {
	vc.Errors = append(vc.Errors, &FieldError{
		FieldName: err.StructField(),
		JsonName:  err.Field(),
		Tag:       err.Tag(),
		Param:     err.Param(),
		Value:     err.Value(),
		Message:   err.Error(),
		Namespace: err.Namespace(),
	})
}

// AddErrorByDetail 通过详细信息添加字段错误
func (vc *ValidationContext) AddErrorByDetail(value any, field, json, tag, param, message, namespace string) {
	vc.Errors = append(vc.Errors, &FieldError{
		FieldName: field,
		JsonName:  json,
		Tag:       tag,
		Param:     param,
		Value:     value,
		Message:   message,
		Namespace: namespace,
	})
}

// AddErrors 批量添加字段错误
func (vc *ValidationContext) AddErrors(errors []*FieldError) {
	vc.Errors = append(vc.Errors, errors...)
}

// ToJSON 转换为 JSON 格式
func (vc *ValidationContext) ToJSON() ([]byte, error) {
	return json.Marshal(vc)
}

// GetErrorsByTag 按验证标签获取错误
func (vc *ValidationContext) GetErrorsByTag(tag string) []*FieldError {
	var errors []*FieldError
	for _, err := range vc.Errors {
		if err.Tag == tag {
			errors = append(errors, err)
		}
	}
	return errors
}

// WithMessage 设置友好错误消息，返回自身便于链式调用
func (fe *FieldError) WithMessage(message string) *FieldError {
	fe.Message = message
	return fe
}

// WithNamespace 设置命名空间，返回自身便于链式调用
func (fe *FieldError) WithNamespace(namespace string) *FieldError {
	fe.Namespace = namespace
	return fe
}
