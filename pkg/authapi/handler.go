package authapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-common-auth/pkg/authform"
	"katydid-common-auth/pkg/authsvc"
)

// Handler 认证相关的 HTTP 处理器
//
// 每个请求重建一个表单控制器做提交门禁与逐字段校验，
// 通过后才把请求委托给业务服务层。
type Handler struct {
	svc *authsvc.Service
	log *zap.Logger
}

// NewHandler 创建认证处理器
func NewHandler(svc *authsvc.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// registerPayload 注册请求体
type registerPayload struct {
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
	Extras          map[string]any `json:"extras"`
}

// loginPayload 登录请求体
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register 处理用户注册
//
//	@Summary		注册新用户
//	@Description	校验表单字段，创建用户并生成用户名
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerPayload	true	"注册数据"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	Response
//	@Router			/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}

	ctrl := authform.NewController(authform.WithLogger(h.log))
	ctrl.SwitchFormMode(authform.ModeRegister)

	outcome := ctrl.HandleSubmit(c.Request.Context(), map[authform.FieldID]string{
		authform.FieldName:            payload.Name,
		authform.FieldEmail:           payload.Email,
		authform.FieldPhone:           payload.Phone,
		authform.FieldPassword:        payload.Password,
		authform.FieldPasswordConfirm: payload.PasswordConfirm,
	})
	if !outcome.Accepted {
		c.JSON(http.StatusBadRequest, Response{
			Success:    false,
			Message:    msgInvalidFields,
			FocusField: string(outcome.FirstInvalid),
			Errors:     fromControllerErrors(outcome.FieldErrors),
		})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &authsvc.RegisterRequest{
		Name:            payload.Name,
		Email:           payload.Email,
		Phone:           payload.Phone,
		Password:        payload.Password,
		PasswordConfirm: payload.PasswordConfirm,
		Extras:          payload.Extras,
	})
	_ = ctrl.CompleteSubmission(c.Request.Context(), err == nil)
	if err != nil {
		var vf *authsvc.ValidationFailed
		switch {
		case errors.As(err, &vf):
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Message: msgInvalidFields,
				Errors:  fromFieldErrors(vf.Errors),
			})
		case errors.Is(err, authsvc.ErrEmailTaken):
			c.JSON(http.StatusOK, Response{Success: false, Message: msgEmailTaken})
		default:
			h.log.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msgInternal})
		}
		return
	}

	h.log.Info("user registered", zap.String("username", user.Username))
	c.JSON(http.StatusOK, Response{Success: true, Message: msgRegistered})
}

// Login 处理用户登录
//
//	@Summary		登录
//	@Description	校验凭据并签发会话令牌
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginPayload	true	"登录数据"
//	@Success		200		{object}	Response
//	@Failure		400		{object}	Response
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}

	ctrl := authform.NewController(authform.WithLogger(h.log))
	outcome := ctrl.HandleSubmit(c.Request.Context(), map[authform.FieldID]string{
		authform.FieldEmail:    payload.Email,
		authform.FieldPassword: payload.Password,
	})
	if !outcome.Accepted {
		c.JSON(http.StatusBadRequest, Response{
			Success:    false,
			Message:    msgInvalidFields,
			FocusField: string(outcome.FirstInvalid),
			Errors:     fromControllerErrors(outcome.FieldErrors),
		})
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), &authsvc.LoginRequest{
		Email:    payload.Email,
		Password: payload.Password,
	})
	_ = ctrl.CompleteSubmission(c.Request.Context(), err == nil)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			c.JSON(http.StatusOK, Response{Success: false, Message: msgBadCredentials})
		case errors.Is(err, authsvc.ErrAccountDisabled):
			c.JSON(http.StatusOK, Response{Success: false, Message: msgAccountDisabled})
		default:
			h.log.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msgInternal})
		}
		return
	}

	h.log.Info("user logged in", zap.String("username", user.Username))
	c.JSON(http.StatusOK, Response{
		Success:     true,
		Message:     msgLoginOK,
		RedirectURL: redirectAfterLogin,
		Token:       token,
	})
}

// Logout 处理退出登录
//
//	@Summary		退出登录
//	@Description	吊销当前会话令牌
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	Response
//	@Failure		401	{object}	Response
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(ctxKeyToken)
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msgInternal})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: msgLoggedOut})
}

// Session 返回当前会话信息
//
//	@Summary		查询当前会话
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]any
//	@Failure		401	{object}	Response
//	@Router			/auth/session [get]
func (h *Handler) Session(c *gin.Context) {
	claims := mustClaims(c)
	userID, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, Response{Success: false, Message: msgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"email":   claims.Email,
		"expires": claims.ExpiresAt.Time,
	})
}
