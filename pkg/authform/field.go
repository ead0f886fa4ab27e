package authform

// Validity 字段的验证状态
type Validity int8

const (
	ValidityUnvalidated Validity = iota // 未验证（初始态/清空后）
	ValidityValid                       // 验证通过
	ValidityInvalid                     // 验证失败
)

// String 返回验证状态的可读名称
func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// FieldState 单个输入字段的运行时状态
// 值变化或失焦时更新；字段清空或所属表单被切走时重置
type FieldState struct {
	// Raw 原始输入值（未裁剪）
	Raw string
	// Validity 当前验证状态
	Validity Validity
	// Message 验证失败时的错误文案，其余状态为空
	Message string
}

// HasValue 判断字段是否有有效输入（裁剪后非空）
func (s *FieldState) HasValue() bool {
	return trimmed(s.Raw) != ""
}

// reset 将字段恢复为中性的未验证状态
func (s *FieldState) reset() {
	s.Raw = ""
	s.Validity = ValidityUnvalidated
	s.Message = ""
}

// ValidationResult 单次字段验证的结果值
// 验证错误永远作为结果值返回，不会 panic，也不会抛出
type ValidationResult struct {
	// Valid 是否验证通过
	Valid bool `json:"valid"`
	// Message 验证失败时的错误文案
	Message string `json:"message,omitempty"`
}

// PresentationClass 字段的 UI 装饰类别
type PresentationClass int8

const (
	PresentationNone  PresentationClass = iota // 中性：无装饰
	PresentationValid                          // 有效装饰
	PresentationError                          // 错误装饰 + 错误文案槽
)

// String 返回装饰类别的可读名称
func (p PresentationClass) String() string {
	switch p {
	case PresentationValid:
		return "valid"
	case PresentationError:
		return "error"
	default:
		return "none"
	}
}

// PresentationState 验证结果到 UI 状态的投影
type PresentationState struct {
	// Class 装饰类别
	Class PresentationClass
	// Message 错误文案槽，仅在 Class 为 PresentationError 时非空
	Message string
}
