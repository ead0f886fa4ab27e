package authform

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// 提交生命周期状态机的状态常量
// 状态流转：Idle → Validating → Submitting → Idle
const (
	StateIdle       = "idle"       // 空闲，可以发起提交
	StateValidating = "validating" // 正在对激活模式的字段执行验证
	StateSubmitting = "submitting" // 提交已放行，等待外部完成信号
)

// 提交生命周期状态机的事件常量
const (
	eventSubmit   = "submit"   // 提交请求到达
	eventAccept   = "accept"   // 全部字段验证通过
	eventReject   = "reject"   // 存在无效字段
	eventComplete = "complete" // 外部完成信号（成功或失败）
)

// RejectReason 提交被拒绝的原因标识
type RejectReason string

const (
	// RejectInvalid 存在未填写或无效的字段
	RejectInvalid RejectReason = "incomplete_or_invalid"
	// RejectAlreadySubmitting 已有提交在途，守卫生效
	RejectAlreadySubmitting RejectReason = "already_submitting"
)

// SubmitOutcome 一次提交请求的结论
type SubmitOutcome struct {
	// Accepted 是否放行（true 时调用方负责执行实际的提交动作）
	Accepted bool
	// Reason 拒绝原因，仅在 Accepted 为 false 时有效
	Reason RejectReason
	// FirstInvalid 第一个无效字段，焦点应该移动到这里
	// 仅在 Reason 为 RejectInvalid 时非空
	FirstInvalid FieldID
	// FieldErrors 本次验证产生的全部字段错误
	FieldErrors []*ValidationError
}

// newSubmitMachine 创建提交生命周期状态机
//
// 守卫语义：
//   - 处于 Submitting 即守卫生效，任何新的提交请求都是 no-op
//   - 守卫只能由外部完成信号显式复位，状态机自身不做超时
//   - 每个控制器实例持有独立的状态机，没有进程级的全局守卫
func newSubmitMachine() *fsm.FSM {
	return fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventSubmit, Src: []string{StateIdle}, Dst: StateValidating},
			{Name: eventAccept, Src: []string{StateValidating}, Dst: StateSubmitting},
			{Name: eventReject, Src: []string{StateValidating}, Dst: StateIdle},
			{Name: eventComplete, Src: []string{StateSubmitting}, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)
}

// IsSubmitting 守卫状态读取器：是否有提交在途
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Is(StateSubmitting)
}

// SubmitState 返回提交生命周期状态机的当前状态
func (c *Controller) SubmitState() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// CompleteSubmission 外部完成信号：提交已结束（无论成功失败）
// 显式复位守卫，使控制器回到可提交的空闲状态
// 没有在途提交时返回 SubmissionRejected 错误
func (c *Controller) CompleteSubmission(ctx context.Context, success bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.machine.Is(StateSubmitting) {
		return &SubmissionRejected{Reason: "no_submission_in_flight"}
	}
	if err := c.machine.Event(ctx, eventComplete); err != nil {
		return err
	}
	if c.log != nil {
		c.log.Debug("submission completed",
			zap.Bool("success", success), zap.String("mode", c.mode.String()))
	}
	return nil
}
