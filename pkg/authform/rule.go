package authform

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"katydid-common-auth/pkg/validator"
)

// FieldID 表单字段标识符
type FieldID string

// 认证表单的字段标识符常量
const (
	FieldName            FieldID = "name"             // 姓名（仅注册）
	FieldEmail           FieldID = "email"            // 邮箱（登录凭证）
	FieldPhone           FieldID = "phone"            // 电话（可选）
	FieldPassword        FieldID = "password"         // 密码
	FieldPasswordConfirm FieldID = "password-confirm" // 确认密码（仅注册）
)

// 字段格式的正则定义
var (
	// emailRegexp 简化版 RFC-5322 检查：非空白非@字符 + @ + 非空白非@字符 + . + 非空白非@字符
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// phoneRegexp 可选的前导 + 号，可选的首位数字类，后接 7-15 位数字
	phoneRegexp = regexp.MustCompile(`^\+?[1-9]?[0-9]{7,15}$`)
)

// 密码长度与姓名长度的边界常量
const (
	minPasswordLen = 8
	minNameLen     = 2
	maxNameLen     = 50
)

// FieldRule 字段规则：一个命名的有效性断言加上对应的错误文案
// 生命周期：控制器初始化时构造一次，之后不可变
type FieldRule struct {
	// ID 规则所属的字段标识符
	ID FieldID
	// Check 有效性断言，入参为已去除首尾空白的字段值
	Check func(value string) bool
	// Message 验证失败时的错误文案
	Message string
}

// 字段验证失败的用户可见文案（面向 Huellitas Alegres 的西语用户）
const (
	msgRequired      = "Este campo es obligatorio"
	msgEmailInvalid  = "Ingresa un correo electrónico válido"
	msgPasswordWeak  = "La contraseña debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número"
	msgNameInvalid   = "El nombre debe tener entre 2 y 50 letras"
	msgPhoneInvalid  = "Ingresa un número de teléfono válido"
	msgPasswordMatch = "Las contraseñas no coinciden"
)

// checkEmail 邮箱格式断言
func checkEmail(value string) bool {
	return emailRegexp.MatchString(value)
}

// checkPassword 密码强度断言：长度 >= 8 且同时包含小写字母、大写字母和数字
// 注意：强密码字符类额外允许 @$!%*?& 等符号，但断言只检查三类字符的存在性
// 和长度，不拒绝字符类之外的字符（策略选择，不是字符白名单）
// 长度按字符数而不是字节数计算，与姓名规则保持一致
func checkPassword(value string) bool {
	if utf8.RuneCountInString(value) < minPasswordLen {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, r := range value {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// checkName 姓名断言：2-50 个字符，只允许 Unicode 字母（含重音字母和 ñ/Ñ）和空格
func checkName(value string) bool {
	runes := []rune(value)
	if len(runes) < minNameLen || len(runes) > maxNameLen {
		return false
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}

// checkPhone 电话断言：可选字段，空值恒为有效，非空时匹配电话格式
func checkPhone(value string) bool {
	if value == "" {
		return true
	}
	return phoneRegexp.MatchString(value)
}

// defaultRules 构造全部字段规则
// 注意：password-confirm 不在其中，它委托给 ValidatePasswordMatch 跨字段检查
func defaultRules() map[FieldID]*FieldRule {
	return map[FieldID]*FieldRule{
		FieldEmail:    {ID: FieldEmail, Check: checkEmail, Message: msgEmailInvalid},
		FieldPassword: {ID: FieldPassword, Check: checkPassword, Message: msgPasswordWeak},
		FieldName:     {ID: FieldName, Check: checkName, Message: msgNameInvalid},
		FieldPhone:    {ID: FieldPhone, Check: checkPhone, Message: msgPhoneInvalid},
	}
}

// fieldDeps 跨字段依赖图：键字段的值变化时，值列表中的字段需要重新验证
// 密码确认是多字段不变式，密码或确认任意一方变化都要重新检查匹配，
// 而不是只挂在确认字段自身的输入事件上
var fieldDeps = map[FieldID][]FieldID{
	FieldPassword:        {FieldPasswordConfirm},
	FieldPasswordConfirm: {},
}

// ============================================================================
// pkg/validator 规则标签注册
// ============================================================================

// RegisterAuthRules 将认证字段断言注册为验证器的自定义规则标签
// 注册后服务端请求模型可以在规则串中引用 auth_email / auth_password /
// auth_name / auth_phone，与客户端控制器共享同一套规则源
func RegisterAuthRules(v *validator.Validator) error {
	tags := map[string]validator.RuleFunc{
		"auth_email":    func(s string) bool { return checkEmail(strings.TrimSpace(s)) },
		"auth_password": func(s string) bool { return checkPassword(strings.TrimSpace(s)) },
		"auth_name":     func(s string) bool { return checkName(strings.TrimSpace(s)) },
		"auth_phone":    func(s string) bool { return checkPhone(strings.TrimSpace(s)) },
	}
	for tag, fn := range tags {
		if err := v.RegisterRule(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
