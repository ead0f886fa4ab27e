package authform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// validRegisterValues 一组可以通过注册验证的字段值
func validRegisterValues() map[FieldID]string {
	return map[FieldID]string{
		FieldName:            "Ana Núñez",
		FieldEmail:           "ana@example.com",
		FieldPhone:           "+5691234567",
		FieldPassword:        "Secret123",
		FieldPasswordConfirm: "Secret123",
	}
}

func TestHandleSubmitLoginAccepted(t *testing.T) {
	ctx := context.Background()
	c := NewController()

	outcome := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.True(t, outcome.Accepted)
	assert.True(t, c.IsSubmitting())
	assert.Equal(t, StateSubmitting, c.SubmitState())
}

func TestHandleSubmitRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	c := NewController()
	c.SwitchFormMode(ModeRegister)

	values := validRegisterValues()
	values[FieldEmail] = "no-es-email"
	values[FieldPasswordConfirm] = "Distinta9"

	outcome := c.HandleSubmit(ctx, values)
	assert.False(t, outcome.Accepted)
	assert.Equal(t, RejectInvalid, outcome.Reason)
	// 焦点去向：按表单展示顺序的第一个无效字段
	assert.Equal(t, FieldEmail, outcome.FirstInvalid)
	assert.Len(t, outcome.FieldErrors, 2)
	// 守卫保持关闭，回到空闲
	assert.False(t, c.IsSubmitting())
	assert.Equal(t, StateIdle, c.SubmitState())
}

func TestHandleSubmitOptionalPhoneEmpty(t *testing.T) {
	ctx := context.Background()
	c := NewController()
	c.SwitchFormMode(ModeRegister)

	values := validRegisterValues()
	values[FieldPhone] = ""

	outcome := c.HandleSubmit(ctx, values)
	assert.True(t, outcome.Accepted, "空的可选电话不应该阻止提交")
}

func TestHandleSubmitGuardReentrancy(t *testing.T) {
	ctx := context.Background()
	c := NewController()

	first := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.True(t, first.Accepted)

	// 完成信号到来之前的第二次提交：no-op，守卫状态不变
	second := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.False(t, second.Accepted)
	assert.Equal(t, RejectAlreadySubmitting, second.Reason)
	assert.True(t, c.IsSubmitting())
}

func TestCompleteSubmissionResetsGuard(t *testing.T) {
	ctx := context.Background()
	c := NewController()

	outcome := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.True(t, outcome.Accepted)

	// 完成信号显式复位守卫（成功与失败同样复位）
	assert.NoError(t, c.CompleteSubmission(ctx, false))
	assert.False(t, c.IsSubmitting())

	// 复位后可以再次提交
	again := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.True(t, again.Accepted)
}

func TestCompleteSubmissionWithoutInFlight(t *testing.T) {
	c := NewController()
	err := c.CompleteSubmission(context.Background(), true)
	assert.Error(t, err, "没有在途提交时完成信号应该报错")
}

func TestGuardPersistsAcrossModeSwitch(t *testing.T) {
	ctx := context.Background()
	c := NewController()

	outcome := c.HandleSubmit(ctx, map[FieldID]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "Secret123",
	})
	assert.True(t, outcome.Accepted)

	// 提交在途时切换模式不取消守卫（策略：守卫跨模式保持）
	c.SwitchFormMode(ModeRegister)
	assert.True(t, c.IsSubmitting())

	second := c.HandleSubmit(ctx, validRegisterValues())
	assert.False(t, second.Accepted)
	assert.Equal(t, RejectAlreadySubmitting, second.Reason)
}
