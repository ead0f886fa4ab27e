package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// 验证器配置常量
const (
	// maxNestedDepth 最大嵌套验证深度，防止无限递归导致栈溢出
	maxNestedDepth = 100
)

// ============================================================================
// 核心验证接口
// ============================================================================

// RuleValidator 规则验证器接口 - 定义字段验证规则
// 用途：为模型字段提供场景化的格式验证规则（必填、长度、格式等）
// 规则字符串格式遵循 go-playground/validator 的标签语法，
// 可以引用通过 RegisterRule 注册的自定义标签（如 auth_email）
//
// 示例：
//
//	func (r *RegisterRequest) RuleValidation() map[ValidateScene]map[string]string {
//	    return map[ValidateScene]map[string]string{
//	        SceneRegister: {"Email": "required,auth_email", "Password": "required,auth_password"},
//	    }
//	}
type RuleValidator interface {
	// RuleValidation 返回场景化的验证规则映射
	// 返回格式：map[场景标识][字段名]规则字符串
	RuleValidation() map[ValidateScene]map[string]string
}

// CustomValidator 自定义验证器接口 - 跨字段验证和复杂业务逻辑验证
// 用途：验证多个字段之间的关系和约束（如：密码和确认密码必须一致）
// 所有错误都通过 report 函数报告，无需返回值
type CustomValidator interface {
	// CustomValidation 执行业务验证逻辑
	// 参数：
	//   - scene：当前验证场景，可根据场景执行不同的验证逻辑
	//   - report：错误报告函数，用于向验证器报告错误
	CustomValidation(scene ValidateScene, report FuncReportError)
}

// FuncReportError 错误报告函数类型
// 用途：在 CustomValidator 中向验证器报告错误，无需手动构造 FieldError
// 参数：
//   - namespace: 字段路径（如 "RegisterRequest.PasswordConfirm"）
//   - tag: 验证标签（如："password_match"）
//   - param: 验证参数
type FuncReportError func(namespace, tag, param string)

// RuleFunc 自定义规则函数，对单个字符串值执行校验
type RuleFunc func(value string) bool

// Validator 验证器，提供结构体字段验证功能
// 设计原则：
//   - 单例模式：默认验证器全局唯一，减少资源消耗
//   - 工厂模式：New() 方法创建独立的验证器实例
//
// 特性：
//   - 支持场景化验证、嵌套验证、自定义验证
//   - 类型信息缓存，避免重复的反射操作
type Validator struct {
	// validate 底层验证器实例（go-playground/validator）
	validate *validator.Validate
	// typeCache 类型信息缓存，key: reflect.Type, value: *typeInfo
	typeCache *sync.Map
}

// typeInfo 类型信息缓存结构，避免重复的类型断言和反射操作
type typeInfo struct {
	// isRuleValidator 是否实现了 RuleValidator 接口
	isRuleValidator bool
	// isCustomValidator 是否实现了 CustomValidator 接口
	isCustomValidator bool
	// validationRules 缓存的验证规则（来自 RuleValidator）
	validationRules map[ValidateScene]map[string]string
}

var (
	// defaultValidator 默认验证器实例，全局单例
	defaultValidator *Validator
	// once 确保默认验证器只初始化一次（线程安全）
	once sync.Once
)

// Default 获取默认验证器实例（单例模式）
// 线程安全，可在多个 goroutine 中并发调用
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Validate 使用默认验证器验证对象（便捷函数）
func Validate(obj any, scene ValidateScene) []*FieldError {
	return Default().Validate(obj, scene)
}

// New 创建新的验证器实例
// 适用场景：需要独立的验证器实例（如单元测试、隔离配置）
func New() *Validator {
	v := validator.New()

	// 注册自定义标签名函数，使用 json tag 作为字段名
	// 验证错误消息中会显示 json 字段名而不是结构体字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		validate:  v,
		typeCache: &sync.Map{},
	}
}

// RegisterRule 注册自定义验证规则标签
// 注册后可在规则字符串中引用（如 "required,auth_email"）
// 注意：只支持字符串类型字段，其他类型一律视为失败
func (v *Validator) RegisterRule(tag string, fn RuleFunc) error {
	if tag == "" || fn == nil {
		return fmt.Errorf("validator: invalid rule registration for tag '%s'", tag)
	}
	return v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return fn(fl.Field().String())
	})
}

// Validate 验证模型，支持指定场景和嵌套验证
//
// 验证流程（按顺序执行）：
//  1. 执行字段规则验证（RuleValidator 场景规则 或 struct tag）
//  2. 递归验证嵌套的结构体字段
//  3. 执行结构规则验证（CustomValidator 跨字段验证）
//
// 错误收集策略：收集所有错误后统一返回，而非遇到第一个错误就停止
// 返回：验证错误列表，nil 表示验证通过
func (v *Validator) Validate(obj any, scene ValidateScene) []*FieldError {
	// 防御：nil 对象直接报错
	if obj == nil {
		return []*FieldError{
			NewFieldError(nil, "", "struct", "required", "").
				WithMessage("validation target cannot be nil"),
		}
	}

	info := v.getOrCacheTypeInfo(obj)

	// 创建验证上下文，用于收集所有验证错误
	ctx := acquireValidationContext(scene)
	defer releaseValidationContext(ctx)

	// 步骤1: 字段规则验证
	if info.isRuleValidator {
		v.validateFieldsByRules(obj, info.validationRules, ctx)
	} else {
		v.validateFieldsByTags(obj, ctx)
	}

	// 步骤2: 递归验证嵌套的结构体字段（深度优先遍历）
	v.validateNestedStructs(obj, ctx, 0)

	// 步骤3: 结构规则验证（跨字段）
	if info.isCustomValidator {
		v.validateStructRules(obj, scene, ctx)
	}

	if !ctx.HasErrors() {
		return nil
	}
	// 上下文会被归还到对象池，错误列表需要复制后返回
	result := make([]*FieldError, len(ctx.Errors))
	copy(result, ctx.Errors)
	return result
}

// validateFieldsByRules 通过 RuleValidator 接口验证字段
// 支持场景化规则，使用 validate.Var() 逐字段验证
func (v *Validator) validateFieldsByRules(obj any, rules map[ValidateScene]map[string]string, ctx *ValidationContext) {
	if rules == nil || ctx == nil {
		return
	}

	// 匹配当前场景的规则（位运算匹配，后匹配的规则覆盖先匹配的）
	matchedRules := make(map[string]string)
	for scene, sceneRules := range rules {
		if scene.Match(ctx.Scene) {
			for fieldName, rule := range sceneRules {
				matchedRules[fieldName] = rule
			}
		}
	}
	if len(matchedRules) == 0 {
		return
	}

	val := reflect.ValueOf(obj)
	if !val.IsValid() {
		return
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	for fieldName, rule := range matchedRules {
		if rule == "" {
			continue
		}

		field := val.FieldByName(fieldName)
		if !field.IsValid() {
			// 尝试通过 JSON tag 查找
			field = v.findFieldByJSONTag(val, val.Type(), fieldName)
		}
		if !field.IsValid() || !field.CanInterface() {
			continue
		}

		if err := v.validate.Var(field.Interface(), rule); err != nil {
			v.addFieldErrors(fieldName, field.Interface(), err, ctx)
		}
	}
}

// validateFieldsByTags 通过 struct tag 验证字段（标准方式）
func (v *Validator) validateFieldsByTags(obj any, ctx *ValidationContext) {
	if err := v.validate.Struct(obj); err != nil {
		v.addFieldErrors("", nil, err, ctx)
	}
}

// validateNestedStructs 递归验证嵌套结构体
// 深度优先遍历，支持嵌入字段，最大深度限制防止无限递归
func (v *Validator) validateNestedStructs(obj any, ctx *ValidationContext, depth int) {
	if depth > maxNestedDepth {
		ctx.AddErrorByDetail(
			obj, "Struct", "struct", "nest_depth", "",
			fmt.Sprintf("nested validation depth exceeds maximum limit %d", maxNestedDepth), "",
		)
		return
	}

	val := reflect.ValueOf(obj)
	if !val.IsValid() {
		return
	}
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanInterface() || !field.IsValid() {
			continue
		}
		if field.Kind() == reflect.Ptr && field.IsNil() {
			continue
		}

		fieldKind := field.Kind()
		if fieldKind == reflect.Ptr {
			fieldKind = field.Elem().Kind()
		}
		if fieldKind != reflect.Struct && !fieldType.Anonymous {
			continue
		}
		// time.Time 等基础结构不参与递归
		if fieldType.Tag.Get("validate") == "-" {
			continue
		}

		fieldValue := field.Interface()
		info := v.getOrCacheTypeInfo(fieldValue)

		if info.isRuleValidator {
			v.validateFieldsByRules(fieldValue, info.validationRules, ctx)
		}
		v.validateNestedStructs(fieldValue, ctx, depth+1)
		if info.isCustomValidator {
			v.validateStructRules(fieldValue, ctx.Scene, ctx)
		}
	}
}

// validateStructRules 执行结构规则验证（多字段协同验证）
// 提供 FuncReportError 函数，简化模型中的错误报告
func (v *Validator) validateStructRules(obj any, scene ValidateScene, ctx *ValidationContext) {
	customValidator, ok := obj.(CustomValidator)
	if !ok {
		return
	}

	report := func(namespace, tag, param string) {
		// namespace 的最后一段作为 json 字段名
		jsonName := namespace
		if idx := strings.LastIndex(namespace, "."); idx >= 0 {
			jsonName = namespace[idx+1:]
		}
		ctx.AddErrorByDetail(nil, "", jsonName, tag, param, "", namespace)
	}

	customValidator.CustomValidation(scene, report)
}

// getOrCacheTypeInfo 获取或缓存类型信息
// 线程安全：使用 sync.Map 的 LoadOrStore 避免并发问题
func (v *Validator) getOrCacheTypeInfo(obj any) *typeInfo {
	if obj == nil {
		return &typeInfo{}
	}

	typ := reflect.TypeOf(obj)
	if typ == nil {
		return &typeInfo{}
	}

	if cached, ok := v.typeCache.Load(typ); ok {
		return cached.(*typeInfo)
	}

	info := &typeInfo{}
	if ruleValidator, ok := obj.(RuleValidator); ok {
		info.isRuleValidator = true
		info.validationRules = ruleValidator.RuleValidation()
	}
	_, info.isCustomValidator = obj.(CustomValidator)

	actual, _ := v.typeCache.LoadOrStore(typ, info)
	return actual.(*typeInfo)
}

// addFieldErrors 添加字段验证错误到上下文
// 适配器：将底层验证器的错误转换为内部错误类型
// fieldName 为空表示来自 struct tag 验证，错误信息直接取自底层错误
func (v *Validator) addFieldErrors(fieldName string, value any, err error, ctx *ValidationContext) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// 不是标准的验证错误，作为普通错误处理
		ctx.AddErrorByDetail(value, fieldName, fieldName, "", "", err.Error(), fieldName)
		return
	}

	for _, e := range validationErrors {
		// struct tag 路径，底层错误自带完整的字段信息
		if fieldName == "" {
			ctx.AddErrorByValidator(e)
			continue
		}

		fe := &FieldError{
			FieldName: fieldName,
			JsonName:  e.Field(),
			Tag:       e.Tag(),
			Param:     e.Param(),
			Value:     e.Value(),
			Namespace: e.Namespace(),
		}
		// Var() 验证时底层拿不到字段名，用调用方传入的名字补齐
		if fe.JsonName == "" {
			fe.JsonName = fieldName
			fe.Namespace = fieldName
		}
		ctx.AddError(fe)
	}
}

// findFieldByJSONTag 通过 JSON tag 查找字段
// 当字段名不匹配时，尝试通过 json tag 查找对应的字段
func (v *Validator) findFieldByJSONTag(val reflect.Value, typ reflect.Type, jsonTag string) reflect.Value {
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.SplitN(typ.Field(i).Tag.Get("json"), ",", 2)[0]
		if tag == jsonTag {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}
