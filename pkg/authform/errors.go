package authform

import (
	"fmt"
)

// ValidationError 字段级验证错误（可恢复，以内联文案展示，永不致命）
type ValidationError struct {
	// Field 出错的字段
	Field FieldID
	// Message 用户可见的错误文案
	Message string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo '%s': %s", e.Field, e.Message)
}

// SubmissionRejected 表单级提交拒绝（可恢复，以可关闭的提示展示）
type SubmissionRejected struct {
	// Reason 拒绝原因标识
	Reason RejectReason
}

// Error 实现 error 接口
func (e *SubmissionRejected) Error() string {
	return fmt.Sprintf("submission rejected: %s", e.Reason)
}
