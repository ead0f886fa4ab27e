package authform

import (
	"testing"

	"katydid-common-auth/pkg/validator"
)

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"user@example.com", true},
		{"a@b.c", true},
		{"user.name+tag@sub.example.org", true},
		{"", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"user@example", false},
		{"user @example.com", false},
		{"user@exa mple.com", false},
	}
	for _, tt := range tests {
		if got := checkEmail(tt.value); got != tt.want {
			t.Errorf("checkEmail(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Abcdefg1", true},
		{"abcdefg1", false}, // 缺大写
		{"ABCDEFG1", false}, // 缺小写
		{"Abcdefgh", false}, // 缺数字
		{"Abc123", false},   // 太短
		{"", false},
		{"Str0ngPass!", true},
		{"Pass word1", true}, // 字符类之外的字符不被拒绝
		{"Contraseña1", true},
		{"Añ1añ1", false},  // 6 个字符，多字节字母不得按字节数凑长度
		{"Añboñe1Ñ", true}, // 恰好 8 个字符
	}
	for _, tt := range tests {
		if got := checkPassword(tt.value); got != tt.want {
			t.Errorf("checkPassword(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCheckName(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"Ana", true},
		{"José María", true},
		{"Núñez", true},
		{"Ñandú", true},
		{"A", false}, // 太短
		{"", false},
		{"Ana123", false},
		{"Ana_", false},
		{"李雷", true},
	}
	for _, tt := range tests {
		if got := checkName(tt.value); got != tt.want {
			t.Errorf("checkName(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	// 50 个字母是上界，51 个越界
	long := make([]rune, 50)
	for i := range long {
		long[i] = 'a'
	}
	if !checkName(string(long)) {
		t.Error("50 个字母的姓名应该有效")
	}
	if checkName(string(long) + "a") {
		t.Error("51 个字母的姓名应该无效")
	}
}

func TestCheckPhone(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true}, // 可选字段，空值恒有效
		{"12345678", true},
		{"+5691234567", true},
		{"123456", false}, // 位数不足
		{"12-34-56-78", false},
		{"telefono", false},
	}
	for _, tt := range tests {
		if got := checkPhone(tt.value); got != tt.want {
			t.Errorf("checkPhone(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRegisterAuthRules(t *testing.T) {
	v := validator.New()
	if err := RegisterAuthRules(v); err != nil {
		t.Fatalf("RegisterAuthRules() error = %v", err)
	}

	type form struct {
		Email    string `json:"email" validate:"required,auth_email"`
		Password string `json:"password" validate:"required,auth_password"`
	}

	if errs := v.Validate(&form{Email: "user@example.com", Password: "Secret123"}, validator.SceneAll); errs != nil {
		t.Errorf("合法表单不应该报错，got %v", errs)
	}
	errs := v.Validate(&form{Email: "no-es-email", Password: "corta"}, validator.SceneAll)
	if len(errs) != 2 {
		t.Errorf("非法表单应该返回两个错误，got %v", errs)
	}
}
