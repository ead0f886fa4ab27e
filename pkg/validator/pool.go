package validator

import (
	"sync"
)

// ============================================================================
// 对象池优化 - 减少内存分配和 GC 压力
// ============================================================================

var (
	// validationContextPool ValidationContext 对象池
	// 用途：复用 ValidationContext 对象，减少频繁的内存分配
	// 线程安全：sync.Pool 是线程安全的
	validationContextPool = sync.Pool{
		New: func() interface{} {
			return &ValidationContext{
				Errors: make([]*FieldError, 0, 8), // 预分配8个错误容量
			}
		},
	}
)

// acquireValidationContext 从对象池获取 ValidationContext
// 使用后必须调用 releaseValidationContext 归还
func acquireValidationContext(scene ValidateScene) *ValidationContext {
	ctx := validationContextPool.Get().(*ValidationContext)
	ctx.Scene = scene
	ctx.Message = ""
	ctx.Errors = ctx.Errors[:0] // 清空错误列表，保留底层数组
	return ctx
}

// releaseValidationContext 将 ValidationContext 归还到对象池
func releaseValidationContext(ctx *ValidationContext) {
	if ctx == nil {
		return
	}
	ctx.Scene = SceneNone
	ctx.Message = ""
	ctx.Errors = ctx.Errors[:0]
	validationContextPool.Put(ctx)
}
