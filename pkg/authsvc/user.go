package authsvc

import (
	"time"

	"katydid-common-auth/pkg/types"
	"katydid-common-auth/pkg/validator"
)

// 认证相关的验证场景
const (
	SceneLogin    validator.ValidateScene = 1 << 0 // 登录场景
	SceneRegister validator.ValidateScene = 1 << 1 // 注册场景
)

// User 账户模型
// 以邮箱作为认证字段，用户名由邮箱本地部分自动生成并保证唯一
type User struct {
	// ID 主键，由 Snowflake 生成器分配
	ID int64 `gorm:"primaryKey" json:"id"`
	// Username 自动生成的唯一用户名
	Username string `gorm:"size:150;uniqueIndex" json:"username"`
	// Email 邮箱（认证字段，全局唯一）
	Email string `gorm:"size:254;uniqueIndex" json:"email"`
	// Name 展示姓名
	Name string `gorm:"size:150" json:"name"`
	// Phone 联系电话（可选）
	Phone string `gorm:"size:20" json:"phone,omitempty"`
	// PasswordHash bcrypt 密码散列，永不出现在 JSON 里
	PasswordHash string `gorm:"size:60" json:"-"`
	// Status 账户状态位（删除/禁用/未验证）
	Status types.Status `gorm:"index" json:"status"`
	// Extras 画像扩展字段，JSON 存储
	Extras types.Extras `gorm:"type:json" json:"extras,omitempty" validate:"-"`
	// RegisteredAt 注册时间
	RegisteredAt time.Time `json:"registered_at" validate:"-"`
}

// TableName 沿用原有库表命名
func (User) TableName() string {
	return "usuarios_usuario"
}

// IsActive 账户是否可登录
func (u *User) IsActive() bool {
	return u.Status.CanAuthenticate()
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Password        string       `json:"password"`
	PasswordConfirm string       `json:"password_confirm"`
	Extras          types.Extras `json:"extras,omitempty" validate:"-"`
}

// RuleValidation 实现 validator.RuleValidator 接口
// 字段规则引用 authform 注册的 auth_* 标签，与客户端控制器共享同一套规则源
func (r *RegisterRequest) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		SceneRegister: {
			"Name":     "required,auth_name",
			"Email":    "required,auth_email",
			"Phone":    "omitempty,auth_phone",
			"Password": "required,auth_password",
		},
	}
}

// CustomValidation 实现 validator.CustomValidator 接口：密码匹配的跨字段检查
func (r *RegisterRequest) CustomValidation(scene validator.ValidateScene, report validator.FuncReportError) {
	if !scene.Match(SceneRegister) {
		return
	}
	if r.PasswordConfirm == "" || r.Password != r.PasswordConfirm {
		report("RegisterRequest.PasswordConfirm", "password_match", "")
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RuleValidation 实现 validator.RuleValidator 接口
// 登录只做必填和邮箱格式检查，密码强度在注册侧保证
func (r *LoginRequest) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		SceneLogin: {
			"Email":    "required,auth_email",
			"Password": "required",
		},
	}
}

// extrasValidator 注册请求的扩展字段白名单
// 防止客户端注入任意画像键
var extrasValidator = validator.NewMapValidator("RegisterRequest.Extras").
	WithAllowedKeys("avatar", "bio", "locale")
