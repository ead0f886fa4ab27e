package authapi

import (
	"katydid-common-auth/pkg/authform"
	"katydid-common-auth/pkg/validator"
)

// Response 统一的 JSON 响应结构（沿用原服务的响应形状）
type Response struct {
	// Success 操作是否成功
	Success bool `json:"success"`
	// Message 用户可见的结果文案
	Message string `json:"message"`
	// RedirectURL 成功后的跳转地址（可选）
	RedirectURL string `json:"redirect_url,omitempty"`
	// Token 会话令牌（仅登录成功时返回）
	Token string `json:"token,omitempty"`
	// FocusField 第一个无效字段，前端焦点应该移动到这里（可选）
	FocusField string `json:"focus_field,omitempty"`
	// Errors 字段级错误列表（可选）
	Errors []FieldMessage `json:"errors,omitempty"`
}

// FieldMessage 单个字段的错误文案
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// 用户可见的结果文案（沿用原服务的西语文案）
const (
	msgRegistered      = "Usuario registrado exitosamente"
	msgEmailTaken      = "Este email ya está registrado"
	msgLoginOK         = "Autenticación satisfactoria - Bienvenido a Huellitas Alegres"
	msgBadCredentials  = "Error en la autenticación: Email o contraseña incorrectos"
	msgAccountDisabled = "Error en la autenticación: Cuenta desactivada"
	msgBadPayload      = "Error en el formato de datos"
	msgInvalidFields   = "Revisa los campos marcados"
	msgLoggedOut       = "Sesión cerrada exitosamente"
	msgProductDeleted  = "Producto eliminado exitosamente"
	msgProductNotFound = "Producto no encontrado"
	msgUnauthorized    = "Sesión inválida o expirada"
	msgInternal        = "Error interno del servicio"

	// redirectAfterLogin 登录成功后的跳转地址（商品列表页）
	redirectAfterLogin = "/productos/"
)

// fromControllerErrors 把表单控制器的字段错误转成响应文案列表
func fromControllerErrors(errs []*authform.ValidationError) []FieldMessage {
	out := make([]FieldMessage, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldMessage{Field: string(e.Field), Message: e.Message})
	}
	return out
}

// fromFieldErrors 把验证引擎的字段错误转成响应文案列表
func fromFieldErrors(errs []*validator.FieldError) []FieldMessage {
	out := make([]FieldMessage, 0, len(errs))
	for _, e := range errs {
		msg := e.Message
		if msg == "" {
			msg = e.String()
		}
		out = append(out, FieldMessage{Field: e.JsonName, Message: msg})
	}
	return out
}
