package authform

// FormMode 表单模式，登录和注册两个表单同一时刻只有一个处于激活状态
type FormMode int8

const (
	ModeLogin    FormMode = iota // 登录表单
	ModeRegister                 // 注册表单
)

// String 返回模式的可读名称
func (m FormMode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeRegister:
		return "register"
	default:
		return "unknown"
	}
}

// Valid 检查模式是否为合法值
func (m FormMode) Valid() bool {
	return m == ModeLogin || m == ModeRegister
}

// modeFields 每个模式下参与验证和提交的字段，按表单内的展示顺序排列
// 顺序敏感：提交失败时焦点落在"第一个"无效字段上
var modeFields = map[FormMode][]FieldID{
	ModeLogin:    {FieldEmail, FieldPassword},
	ModeRegister: {FieldName, FieldEmail, FieldPhone, FieldPassword, FieldPasswordConfirm},
}

// optionalFields 可选字段集合，空值时不参与必填检查
var optionalFields = map[FieldID]bool{
	FieldPhone: true,
}

// Fields 返回指定模式下的全部字段（展示顺序）
func (m FormMode) Fields() []FieldID {
	return modeFields[m]
}

// Contains 判断字段是否属于指定模式
func (m FormMode) Contains(id FieldID) bool {
	for _, f := range modeFields[m] {
		if f == id {
			return true
		}
	}
	return false
}

// Required 判断字段在指定模式下是否必填
func (m FormMode) Required(id FieldID) bool {
	return m.Contains(id) && !optionalFields[id]
}
