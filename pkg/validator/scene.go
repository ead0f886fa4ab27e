package validator

// ValidateScene 验证场景标识符，使用位运算支持场景组合验证
// 设计目标：
//   - 使用 int64 类型，支持位运算（按位或、按位与）
//   - 允许场景组合：SceneLogin | SceneRegister 表示同时适用于两个场景
//   - 支持场景匹配：使用 scene.Match(target) 判断是否包含目标场景
//
// 使用示例：
//
//	const (
//	    SceneLogin    ValidateScene = 1 << 0 // 0b01 登录场景
//	    SceneRegister ValidateScene = 1 << 1 // 0b10 注册场景
//	)
//
//	// 场景组合：登录和注册都需要的规则
//	SceneAuth := SceneLogin | SceneRegister
type ValidateScene int64

// 预定义的通用验证场景常量
const (
	SceneNone ValidateScene = 0  // 无场景
	SceneAll  ValidateScene = -1 // 所有场景(111...111)
)

// Match 判断当前场景是否包含目标场景（位运算匹配）
func (s ValidateScene) Match(target ValidateScene) bool {
	return s&target != 0
}
