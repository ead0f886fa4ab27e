package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Extras 扩展字段类型，用于存储动态的键值对数据
//
// 设计说明：
// - 主要用于 Model 里存放非索引字段（如用户头像、简介等画像数据）
// - 基于 map[string]any，支持存储任意类型的值
// - 数据库以 JSON 存储，避免频繁修改表结构
//
// 线程安全：
// - map 类型非线程安全，多协程并发读写需要外部加锁
//
// 注意事项：
// - 类型转换失败时返回零值和 false
// - nil 和空 map 在序列化时行为一致
// - 键名不能为空字符串，否则会被忽略
type Extras map[string]any

// NewExtras 创建一个新的扩展字段实例
func NewExtras(capacity int) Extras {
	return make(Extras, capacity)
}

// Set 设置键值，空键名被忽略
func (e Extras) Set(key string, value any) {
	if len(key) == 0 {
		return
	}
	e[key] = value
}

// Get 获取键值
func (e Extras) Get(key string) (any, bool) {
	v, ok := e[key]
	return v, ok
}

// Delete 删除键
func (e Extras) Delete(key string) {
	delete(e, key)
}

// GetString 获取字符串值，类型不匹配时返回零值和 false
func (e Extras) GetString(key string) (string, bool) {
	if v, ok := e[key]; ok {
		s, ok := v.(string)
		return s, ok
	}
	return "", false
}

// GetInt64 获取整数值，兼容 JSON 反序列化产生的 float64
func (e Extras) GetInt64(key string) (int64, bool) {
	switch v := e[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// GetBool 获取布尔值
func (e Extras) GetBool(key string) (bool, bool) {
	if v, ok := e[key]; ok {
		b, ok := v.(bool)
		return b, ok
	}
	return false, false
}

// Value 实现 driver.Valuer 接口，以 JSON 格式存储到数据库
func (e Extras) Value() (driver.Value, error) {
	if len(e) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner 接口，从数据库的 JSON 列读取
func (e *Extras) Scan(value interface{}) error {
	if value == nil {
		*e = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan type %T into Extras", value)
	}

	if len(data) == 0 {
		*e = nil
		return nil
	}
	return json.Unmarshal(data, e)
}
