package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Status 账户状态类型，使用位运算支持多状态叠加，最多支持63种状态
// 删除/禁用/未验证按 系统/管理员/用户 三个级别区分来源，
// 登录网关只关心聚合后的结论（CanAuthenticate）
type Status int64

// 预定义的账户状态位
const (
	StatusNone Status = 0 // 无状态（正常账户）

	StatusSysDeleted  Status = 1 << iota // 删除状态（系统级别）
	StatusAdmDeleted                     // 删除状态（管理员级别）
	StatusUserDeleted                    // 删除状态（用户级别）

	StatusSysDisabled  // 禁用状态（系统级别）
	StatusAdmDisabled  // 禁用状态（管理员级别）
	StatusUserDisabled // 禁用状态（用户级别）

	StatusSysUnverified  // 未验证状态（系统级别）
	StatusAdmUnverified  // 未验证状态（管理员级别）
	StatusUserUnverified // 未验证状态（用户级别）
)

// Set 设置指定的状态位
func (s *Status) Set(flag Status) {
	*s |= flag
}

// Unset 取消指定的状态位
func (s *Status) Unset(flag Status) {
	*s &^= flag
}

// Contain 检查是否包含指定的状态位
func (s Status) Contain(flag Status) bool {
	return s&flag == flag
}

// HasAny 检查是否包含任意一个指定的状态位
func (s Status) HasAny(flags ...Status) bool {
	for _, flag := range flags {
		if s&flag != 0 {
			return true
		}
	}
	return false
}

// Clear 清除所有状态位
func (s *Status) Clear() {
	*s = StatusNone
}

// IsDeleted 是否删除（任意级别）
func (s Status) IsDeleted() bool {
	return s.HasAny(StatusSysDeleted, StatusAdmDeleted, StatusUserDeleted)
}

// IsDisabled 是否禁用（任意级别）
func (s Status) IsDisabled() bool {
	return s.HasAny(StatusSysDisabled, StatusAdmDisabled, StatusUserDisabled)
}

// IsUnverified 是否未验证（任意级别）
func (s Status) IsUnverified() bool {
	return s.HasAny(StatusSysUnverified, StatusAdmUnverified, StatusUserUnverified)
}

// CanAuthenticate 账户是否允许通过认证（登录网关的聚合结论）
// 删除或禁用的账户一律拒绝，未验证不阻止登录
func (s Status) CanAuthenticate() bool {
	return !s.IsDeleted() && !s.IsDisabled()
}

// Value 实现 driver.Valuer 接口，用于数据库存储
func (s Status) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan 实现 sql.Scanner 接口，用于从数据库读取
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusNone
		return nil
	}

	switch v := value.(type) {
	case int64:
		*s = Status(v)
	case int:
		*s = Status(v)
	case uint64:
		*s = Status(v)
	case []byte:
		var num int64
		if err := json.Unmarshal(v, &num); err != nil {
			return err
		}
		*s = Status(num)
	default:
		return fmt.Errorf("cannot scan type %T into Status", value)
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler 接口
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(s))
}

// UnmarshalJSON 实现 json.Unmarshaler 接口
func (s *Status) UnmarshalJSON(data []byte) error {
	var num int64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Status(num)
	return nil
}
