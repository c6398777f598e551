package domain

import (
	"net/mail"
	"strings"
	"time"
)

// DefaultRetention 空间无活动的默认保留期，列表过滤与停用共用
const DefaultRetention = 180 * 24 * time.Hour

// EmailSpace 表示一个一次性邮箱地址（蜂巢中的一个格子）。
//
// 地址全局唯一，由存储层的唯一索引保证；空间只会被激活时间刷新或停用，从不物理删除。
type EmailSpace struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;index"`
	LastActivity time.Time `json:"last_activity" gorm:"not null;index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true;index"`
}

// TableName 指定 GORM 表名
func (EmailSpace) TableName() string {
	return "email_spaces"
}

// ActiveSince 判断空间未被停用且最后活动不早于 since（窗口边界包含在内）。
func (s *EmailSpace) ActiveSince(since time.Time) bool {
	return s.IsActive && !s.LastActivity.Before(since)
}

// NormalizeAddress 从地址中提取 addr-spec 并转小写，用作空间的唯一键。
//
// "Bob <B@x.com>" 与 "b@x.com" 得到相同结果；无法解析时只去除空白和成对的尖括号。
func NormalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if parsed, err := mail.ParseAddress(addr); err == nil {
		return strings.ToLower(parsed.Address)
	}
	if strings.HasPrefix(addr, "<") && strings.HasSuffix(addr, ">") {
		addr = strings.TrimSpace(addr[1 : len(addr)-1])
	}
	return strings.ToLower(addr)
}
