package validator

import (
	"strings"
	"testing"
)

// 测试场景常量
const (
	SceneCreate ValidateScene = 1 << 0 // 创建场景
	SceneUpdate ValidateScene = 1 << 1 // 更新场景
)

// testAccount 测试账户模型
type testAccount struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Nickname        string `json:"nickname"`
}

// RuleValidation 实现 RuleValidator 接口
func (a *testAccount) RuleValidation() map[ValidateScene]map[string]string {
	return map[ValidateScene]map[string]string{
		SceneCreate: {
			"Email":    "required,email",
			"Password": "required,min=6,max=64",
			"Nickname": "omitempty,min=2,max=20",
		},
		SceneUpdate: {
			"Email":    "omitempty,email",
			"Password": "omitempty,min=6,max=64",
		},
	}
}

// CustomValidation 实现 CustomValidator 接口
func (a *testAccount) CustomValidation(scene ValidateScene, report FuncReportError) {
	if scene.Match(SceneCreate) && a.Password != a.PasswordConfirm {
		report("testAccount.PasswordConfirm", "password_match", "")
	}
}

func TestValidateSceneMatch(t *testing.T) {
	combined := SceneCreate | SceneUpdate
	if !combined.Match(SceneCreate) {
		t.Error("组合场景应该匹配创建场景")
	}
	if !combined.Match(SceneUpdate) {
		t.Error("组合场景应该匹配更新场景")
	}
	if SceneCreate.Match(SceneUpdate) {
		t.Error("创建场景不应该匹配更新场景")
	}
	if !SceneAll.Match(SceneCreate) {
		t.Error("SceneAll 应该匹配任意场景")
	}
	if SceneNone.Match(SceneCreate) {
		t.Error("SceneNone 不应该匹配任何场景")
	}
}

func TestValidateByRules(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		account *testAccount
		scene   ValidateScene
		wantErr bool
	}{
		{
			name: "创建_合法数据",
			account: &testAccount{
				Email:           "user@example.com",
				Password:        "Secret123",
				PasswordConfirm: "Secret123",
			},
			scene:   SceneCreate,
			wantErr: false,
		},
		{
			name: "创建_缺少邮箱",
			account: &testAccount{
				Password:        "Secret123",
				PasswordConfirm: "Secret123",
			},
			scene:   SceneCreate,
			wantErr: true,
		},
		{
			name: "创建_密码太短",
			account: &testAccount{
				Email:           "user@example.com",
				Password:        "abc",
				PasswordConfirm: "abc",
			},
			scene:   SceneCreate,
			wantErr: true,
		},
		{
			name:    "更新_空字段全部跳过",
			account: &testAccount{},
			scene:   SceneUpdate,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.account, tt.scene)
			if (errs != nil) != tt.wantErr {
				t.Errorf("Validate() errs = %v, wantErr = %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateCustomValidation(t *testing.T) {
	v := New()

	account := &testAccount{
		Email:           "user@example.com",
		Password:        "Secret123",
		PasswordConfirm: "Different1",
	}

	errs := v.Validate(account, SceneCreate)
	if errs == nil {
		t.Fatal("密码不一致时应该返回错误")
	}

	found := false
	for _, fe := range errs {
		if fe.Tag == "password_match" {
			found = true
			if fe.JsonName != "PasswordConfirm" {
				t.Errorf("JsonName = %s, want PasswordConfirm", fe.JsonName)
			}
		}
	}
	if !found {
		t.Error("错误列表中应该包含 password_match 标签")
	}

	// 更新场景不执行创建场景的跨字段验证
	if errs := v.Validate(account, SceneUpdate); errs != nil {
		t.Errorf("更新场景不应该报错，got %v", errs)
	}
}

func TestRegisterRule(t *testing.T) {
	v := New()

	// 注册一个禁止保留用户名的自定义规则
	err := v.RegisterRule("not_admin", func(value string) bool {
		return !strings.EqualFold(value, "admin")
	})
	if err != nil {
		t.Fatalf("RegisterRule() error = %v", err)
	}

	type form struct {
		Username string `json:"username" validate:"required,not_admin"`
	}

	if errs := v.Validate(&form{Username: "admin"}, SceneAll); errs == nil {
		t.Error("保留用户名应该验证失败")
	}
	if errs := v.Validate(&form{Username: "katydid"}, SceneAll); errs != nil {
		t.Errorf("普通用户名应该验证通过，got %v", errs)
	}
}

func TestValidateByTagsErrorDetail(t *testing.T) {
	// 没有 RuleValidation 的类型走 struct tag 验证，
	// 错误要带上完整的字段信息（结构体字段名 + json 名 + 命名空间）
	type form struct {
		Username string `json:"username" validate:"required"`
	}

	errs := New().Validate(&form{}, SceneAll)
	if len(errs) != 1 {
		t.Fatalf("应该返回一个错误，got %d", len(errs))
	}
	fe := errs[0]
	if fe.FieldName != "Username" {
		t.Errorf("FieldName = %s, want Username", fe.FieldName)
	}
	if fe.JsonName != "username" {
		t.Errorf("JsonName = %s, want username", fe.JsonName)
	}
	if fe.Tag != "required" {
		t.Errorf("Tag = %s, want required", fe.Tag)
	}
	if fe.Message == "" {
		t.Error("struct tag 路径的错误应该带上底层错误信息")
	}
	if fe.Namespace == "" {
		t.Error("struct tag 路径的错误应该带上命名空间")
	}
}

func TestValidateNilObject(t *testing.T) {
	errs := New().Validate(nil, SceneAll)
	if len(errs) != 1 {
		t.Fatalf("nil 对象应该返回一个错误，got %d", len(errs))
	}
	if errs[0].Tag != "required" {
		t.Errorf("Tag = %s, want required", errs[0].Tag)
	}
}

func TestValidationContextError(t *testing.T) {
	ctx := NewValidationContext(SceneCreate)
	if ctx.HasErrors() {
		t.Error("新建上下文不应该有错误")
	}
	if ctx.FirstError() != nil {
		t.Error("没有错误时 FirstError 应该返回 nil")
	}

	ctx.AddError(NewFieldError("v", "Email", "email", "required", ""))
	ctx.AddErrorByDetail(nil, "Password", "password", "min", "6", "", "")

	if !ctx.HasErrors() {
		t.Error("添加错误后 HasErrors 应该为 true")
	}
	if got := ctx.FirstError().JsonName; got != "email" {
		t.Errorf("FirstError().JsonName = %s, want email", got)
	}
	if msg := ctx.Error(); !strings.Contains(msg, "email") || !strings.Contains(msg, "password") {
		t.Errorf("Error() 应该包含所有字段错误，got %s", msg)
	}
}
