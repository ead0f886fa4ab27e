package validator

import (
	"fmt"
	"strings"
	"testing"
)

func TestMapValidatorRequiredKeys(t *testing.T) {
	mv := NewMapValidator("User.Extras").WithRequiredKeys("avatar")

	errs := mv.Validate(map[string]any{"bio": "hola"})
	if len(errs) != 1 {
		t.Fatalf("缺少必填键应该返回一个错误，got %d", len(errs))
	}
	if errs[0].Tag != "required" || errs[0].JsonName != "avatar" {
		t.Errorf("错误内容不符: %+v", errs[0])
	}
	if errs[0].Namespace != "User.Extras.avatar" {
		t.Errorf("Namespace = %s, want User.Extras.avatar", errs[0].Namespace)
	}
}

func TestMapValidatorAllowedKeys(t *testing.T) {
	mv := NewMapValidator("User.Extras").WithAllowedKeys("avatar", "bio")

	errs := mv.Validate(map[string]any{"avatar": "a.png", "hack": true})
	if len(errs) != 1 {
		t.Fatalf("白名单外的键应该返回一个错误，got %d", len(errs))
	}
	if errs[0].Tag != "not_allowed" || errs[0].JsonName != "hack" {
		t.Errorf("错误内容不符: %+v", errs[0])
	}
}

func TestMapValidatorKeyValidator(t *testing.T) {
	mv := NewMapValidator("User.Extras").
		WithKeyValidator("bio", func(value any) error {
			s, ok := value.(string)
			if !ok || len(s) > 10 {
				return fmt.Errorf("bio 必须是不超过10个字符的字符串")
			}
			return nil
		})

	if errs := mv.Validate(map[string]any{"bio": "corto"}); errs != nil {
		t.Errorf("合法值不应该报错，got %v", errs)
	}
	if errs := mv.Validate(map[string]any{"bio": strings.Repeat("x", 11)}); len(errs) != 1 {
		t.Errorf("超长值应该返回一个错误，got %v", errs)
	}
}
