package common

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout 日期格式（YYYY-MM-DD）
const DateLayout = "2006-01-02"

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// Today 回傳今日日期字串
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate 解析 YYYY-MM-DD，空字串視為今日
func ParseDate(s string) (string, error) {
	if s == "" {
		return Today(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", NewFieldValidationError("date", "date must be in YYYY-MM-DD format")
	}
	return t.Format(DateLayout), nil
}
