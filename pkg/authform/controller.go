package authform

import (
	"context"
	"strings"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// trimmed 去除首尾空白，所有规则断言都基于裁剪后的值
func trimmed(raw string) string {
	return strings.TrimSpace(raw)
}

// Controller 登录/注册表单的验证控制器
//
// 职责：
//   - 持有字段规则和每字段/每表单的有效性状态
//   - 暴露验证、模式切换、提交守卫等操作给 UI 事件层消费
//   - 不依赖任何具体的 UI 工具集，事件以回调形式进出
//
// 生命周期：规则在构造时定义一次，之后不可变；字段状态随交互更新，
// 随清空或模式切换重置，不做持久化
//
// 并发：操作串行地运行在单一事件循环上时无需外部加锁；
// 控制器内部仍以互斥锁保护状态，允许测试在多协程下构造独立实例
type Controller struct {
	// mode 当前激活的表单模式，同一时刻只有一个模式的字段可参与提交
	mode FormMode
	// fields 全部字段的运行时状态
	fields map[FieldID]*FieldState
	// rules 不可变的字段规则表
	rules map[FieldID]*FieldRule
	// machine 提交生命周期状态机（实例私有，没有全局守卫）
	machine *fsm.FSM

	// onModeChanged 模式切换通知（用于无障碍播报等展示层关注点）
	onModeChanged func(FormMode)

	log *zap.Logger
	mu  sync.Mutex
}

// Option 控制器的可选配置
type Option func(*Controller)

// WithModeChangedHandler 设置模式切换通知回调
func WithModeChangedHandler(fn func(FormMode)) Option {
	return func(c *Controller) { c.onModeChanged = fn }
}

// WithLogger 设置日志器
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController 创建表单验证控制器，初始模式为登录
func NewController(opts ...Option) *Controller {
	c := &Controller{
		mode:    ModeLogin,
		fields:  make(map[FieldID]*FieldState),
		rules:   defaultRules(),
		machine: newSubmitMachine(),
	}
	for _, ids := range modeFields {
		for _, id := range ids {
			if _, ok := c.fields[id]; !ok {
				c.fields[id] = &FieldState{}
			}
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
// 字段验证
// ============================================================================

// ValidateField 验证单个字段的当前值（纯检查，不更新状态也不触碰展示层）
//
// 参数：
//   - id: 字段标识符，没有关联规则的字段恒为有效
//   - raw: 字段当前值，内部裁剪首尾空白
//   - required: 必填标志（由调用方按模式提供，不存储在规则上）
//
// 语义：
//   - 空值仅在 required 为 true 时无效
//   - password-confirm 委托给 ValidatePasswordMatch，忽略自身的格式规则
func (c *Controller) ValidateField(id FieldID, raw string, required bool) ValidationResult {
	value := trimmed(raw)

	if id == FieldPasswordConfirm {
		c.mu.Lock()
		password := trimmed(c.fields[FieldPassword].Raw)
		c.mu.Unlock()
		return c.ValidatePasswordMatch(password, value)
	}

	if value == "" {
		if required {
			return ValidationResult{Valid: false, Message: msgRequired}
		}
		return ValidationResult{Valid: true}
	}

	rule, ok := c.rules[id]
	if !ok {
		// 无规则字段恒为有效
		return ValidationResult{Valid: true}
	}
	if !rule.Check(value) {
		return ValidationResult{Valid: false, Message: rule.Message}
	}
	return ValidationResult{Valid: true}
}

// ValidatePasswordMatch 验证两个密码字段是否匹配
// 有效条件：确认值非空 且 与密码值相等
func (c *Controller) ValidatePasswordMatch(password, confirm string) ValidationResult {
	if confirm == "" || password != confirm {
		return ValidationResult{Valid: false, Message: msgPasswordMatch}
	}
	return ValidationResult{Valid: true}
}

// RecordFieldValue 记录字段的新值并重新验证（输入/失焦事件的入口）
//
// 跨字段依赖：按字段依赖图重新验证受影响的字段，密码变化会连带
// 重新检查确认字段的匹配状态，而不是只在确认字段自身变化时检查
//
// 顺序保证：后到的调用覆盖先到的结果（每字段 last-write-wins）
//
// 返回：本次重新验证的全部字段结果，键为字段标识符
func (c *Controller) RecordFieldValue(id FieldID, raw string) map[FieldID]ValidationResult {
	c.mu.Lock()
	state, ok := c.fields[id]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	state.Raw = raw
	required := c.mode.Required(id)
	c.mu.Unlock()

	results := make(map[FieldID]ValidationResult, 2)
	results[id] = c.revalidate(id, required)

	// 依赖图传播：重新验证下游字段（仅限当前模式内的字段）
	for _, dep := range fieldDeps[id] {
		if c.modeContains(dep) {
			results[dep] = c.revalidate(dep, c.currentMode().Required(dep))
		}
	}
	return results
}

// revalidate 重新验证字段并回写状态
func (c *Controller) revalidate(id FieldID, required bool) ValidationResult {
	c.mu.Lock()
	raw := c.fields[id].Raw
	c.mu.Unlock()

	result := c.ValidateField(id, raw, required)

	c.mu.Lock()
	state := c.fields[id]
	if trimmed(state.Raw) == "" && !required {
		// 空的可选字段回到中性态，而不是展示"有效"
		state.Validity = ValidityUnvalidated
		state.Message = ""
	} else if result.Valid {
		state.Validity = ValidityValid
		state.Message = ""
	} else {
		state.Validity = ValidityInvalid
		state.Message = result.Message
	}
	c.mu.Unlock()
	return result
}

// ClearField 清空字段，恢复中性展示（不得残留过期的错误装饰）
func (c *Controller) ClearField(id FieldID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.fields[id]; ok {
		state.reset()
	}
}

// ============================================================================
// 展示层投影
// ============================================================================

// ApplyValidationPresentation 把验证结果投影为 UI 状态
//
// 契约（空值中性策略）：
//   - 错误文案槽仅在 结果无效 且 字段有值 时展示
//   - 没有值的字段无论结果如何都不展示有效/错误装饰
func (c *Controller) ApplyValidationPresentation(id FieldID, result ValidationResult) PresentationState {
	c.mu.Lock()
	hasValue := false
	if state, ok := c.fields[id]; ok {
		hasValue = state.HasValue()
	}
	c.mu.Unlock()

	if !hasValue {
		return PresentationState{Class: PresentationNone}
	}
	if result.Valid {
		return PresentationState{Class: PresentationValid}
	}
	return PresentationState{Class: PresentationError, Message: result.Message}
}

// FieldPresentation 返回字段当前状态的 UI 投影（便捷读取器）
// 未验证的字段即使有值也保持中性，装饰只反映实际发生过的验证
func (c *Controller) FieldPresentation(id FieldID) PresentationState {
	c.mu.Lock()
	state, ok := c.fields[id]
	if !ok || state.Validity == ValidityUnvalidated {
		c.mu.Unlock()
		return PresentationState{Class: PresentationNone}
	}
	result := ValidationResult{Valid: state.Validity == ValidityValid, Message: state.Message}
	c.mu.Unlock()
	return c.ApplyValidationPresentation(id, result)
}

// ============================================================================
// 模式切换
// ============================================================================

// SwitchFormMode 切换表单模式
//
// 语义：
//   - 目标模式等于当前模式时是 no-op，不发出任何通知（幂等）
//   - 切换时重置旧模式的全部字段状态，激活新模式，发出模式切换通知
//   - 快速连续切换时最后请求的模式生效，没有排队
//   - 不取消在途的提交：守卫跨模式切换保持（策略选择）
func (c *Controller) SwitchFormMode(target FormMode) {
	if !target.Valid() {
		return
	}

	c.mu.Lock()
	if target == c.mode {
		c.mu.Unlock()
		return
	}
	old := c.mode
	for _, id := range old.Fields() {
		c.fields[id].reset()
	}
	c.mode = target
	notify := c.onModeChanged
	c.mu.Unlock()

	if c.log != nil {
		c.log.Debug("form mode switched",
			zap.String("from", old.String()), zap.String("to", target.String()))
	}
	if notify != nil {
		notify(target)
	}
}

// Mode 返回当前激活的表单模式
func (c *Controller) Mode() FormMode {
	return c.currentMode()
}

func (c *Controller) currentMode() FormMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) modeContains(id FieldID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode.Contains(id)
}

// FieldValidity 返回字段的当前验证状态
func (c *Controller) FieldValidity(id FieldID) Validity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.fields[id]; ok {
		return state.Validity
	}
	return ValidityUnvalidated
}

// FieldValue 返回字段记录的原始值
func (c *Controller) FieldValue(id FieldID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.fields[id]; ok {
		return state.Raw
	}
	return ""
}

// ============================================================================
// 提交
// ============================================================================

// HandleSubmit 处理一次提交请求
//
// 状态机流转：Idle → Validating → (Submitting | Idle)
//   - 守卫生效（在途提交未完成）时：no-op，返回 Rejected(already_submitting)
//   - 验证激活模式的全部必填字段，注册模式额外执行密码匹配检查；
//     任一失败：返回 Rejected(incomplete_or_invalid)，FirstInvalid 指向
//     第一个无效字段（焦点去向），守卫保持关闭，回到 Idle
//   - 全部通过：守卫生效，进入 Submitting，返回 Accepted；
//     实际的网络提交动作由调用方负责，完成后必须调用 CompleteSubmission
//
// values 非 nil 时先批量记录字段值再验证（提交事件携带表单快照的场景）
func (c *Controller) HandleSubmit(ctx context.Context, values map[FieldID]string) SubmitOutcome {
	c.mu.Lock()
	if c.machine.Is(StateSubmitting) {
		c.mu.Unlock()
		if c.log != nil {
			c.log.Debug("submit ignored, guard active")
		}
		return SubmitOutcome{Accepted: false, Reason: RejectAlreadySubmitting}
	}
	if err := c.machine.Event(ctx, eventSubmit); err != nil {
		c.mu.Unlock()
		return SubmitOutcome{Accepted: false, Reason: RejectAlreadySubmitting}
	}
	mode := c.mode
	for id, raw := range values {
		if state, ok := c.fields[id]; ok && mode.Contains(id) {
			state.Raw = raw
		}
	}
	c.mu.Unlock()

	// Validating：逐字段验证，收集全部错误
	var fieldErrors []*ValidationError
	var firstInvalid FieldID
	for _, id := range mode.Fields() {
		required := mode.Required(id)
		result := c.revalidate(id, required)
		if !result.Valid {
			if firstInvalid == "" {
				firstInvalid = id
			}
			fieldErrors = append(fieldErrors, &ValidationError{Field: id, Message: result.Message})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(fieldErrors) > 0 {
		_ = c.machine.Event(ctx, eventReject)
		if c.log != nil {
			c.log.Debug("submit rejected",
				zap.String("mode", mode.String()),
				zap.String("first_invalid", string(firstInvalid)),
				zap.Int("errors", len(fieldErrors)))
		}
		return SubmitOutcome{
			Accepted:     false,
			Reason:       RejectInvalid,
			FirstInvalid: firstInvalid,
			FieldErrors:  fieldErrors,
		}
	}

	if err := c.machine.Event(ctx, eventAccept); err != nil {
		return SubmitOutcome{Accepted: false, Reason: RejectAlreadySubmitting}
	}
	if c.log != nil {
		c.log.Debug("submit accepted", zap.String("mode", mode.String()))
	}
	return SubmitOutcome{Accepted: true}
}
