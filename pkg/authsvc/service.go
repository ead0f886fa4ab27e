package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"katydid-common-auth/pkg/authform"
	"katydid-common-auth/pkg/idgen"
	"katydid-common-auth/pkg/validator"
)

// 服务级错误定义
var (
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("authsvc: email already registered")
	// ErrInvalidCredentials 凭证错误（账户不存在和密码错误统一返回，不泄露存在性）
	ErrInvalidCredentials = errors.New("authsvc: invalid credentials")
	// ErrAccountDisabled 账户被禁用
	ErrAccountDisabled = errors.New("authsvc: account disabled")
)

// usernameMaxAttempts 用户名冲突时的最大重试次数
const usernameMaxAttempts = 1000

// ValidationFailed 请求验证失败，携带全部字段错误
type ValidationFailed struct {
	// Errors 字段错误列表
	Errors []*validator.FieldError
}

// Error 实现 error 接口
func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("authsvc: validation failed with %d field error(s)", len(e.Errors))
}

// Service 认证服务：注册、登录、注销
// 作为表单控制器放行（Accepted）之后的提交执行方
type Service struct {
	store    Store
	sessions *SessionManager
	ids      *idgen.Generator
	v        *validator.Validator
	log      *zap.Logger
}

// NewService 创建认证服务
// 会在独立的验证器实例上注册 auth_* 规则标签
func NewService(store Store, sessions *SessionManager, ids *idgen.Generator, log *zap.Logger) (*Service, error) {
	if store == nil || sessions == nil || ids == nil {
		return nil, errors.New("authsvc: service dependencies missing")
	}
	if log == nil {
		log = zap.NewNop()
	}

	v := validator.New()
	if err := authform.RegisterAuthRules(v); err != nil {
		return nil, err
	}

	return &Service{
		store:    store,
		sessions: sessions,
		ids:      ids,
		v:        v,
		log:      log,
	}, nil
}

// Sessions 返回会话管理器（供 HTTP 中间件校验令牌）
func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// Register 注册新账户
//
// 流程：
//  1. 字段规则 + 跨字段验证（注册场景）
//  2. 扩展字段白名单检查
//  3. 邮箱唯一性检查
//  4. 由邮箱本地部分生成唯一用户名（冲突时追加数字后缀）
//  5. bcrypt 散列密码，分配 Snowflake ID，落库
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if req == nil {
		return nil, &ValidationFailed{Errors: []*validator.FieldError{
			validator.NewFieldError(nil, "", "request", "required", ""),
		}}
	}

	// 字段与跨字段验证
	fieldErrs := s.v.Validate(req, SceneRegister)
	if extraErrs := extrasValidator.Validate(req.Extras); len(extraErrs) > 0 {
		fieldErrs = append(fieldErrs, extraErrs...)
	}
	if len(fieldErrs) > 0 {
		return nil, &ValidationFailed{Errors: fieldErrs}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 邮箱唯一性
	taken, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	username, err := s.generateUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.NextID()
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           id,
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Extras:       req.Extras,
		RegisteredAt: time.Now(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.Int64("user_id", user.ID), zap.String("username", username))
	return user, nil
}

// Login 认证账户并签发会话
//
// 账户不存在与密码错误统一返回 ErrInvalidCredentials；
// 凭证正确但账户被禁用/删除时返回 ErrAccountDisabled
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	if req == nil {
		return nil, "", ErrInvalidCredentials
	}
	if fieldErrs := s.v.Validate(req, SceneLogin); len(fieldErrs) > 0 {
		return nil, "", &ValidationFailed{Errors: fieldErrs}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, "", ErrAccountDisabled
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user authenticated", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Logout 注销会话
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	s.log.Info("session revoked")
	return nil
}

// generateUsername 由邮箱本地部分生成唯一用户名
// 冲突时追加递增的数字后缀（ana, ana1, ana2, ...）
func (s *Service) generateUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	username := base
	for i := 1; i <= usernameMaxAttempts; i++ {
		taken, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("authsvc: cannot allocate username for '%s'", base)
}
