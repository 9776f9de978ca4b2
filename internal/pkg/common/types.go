package common

import "strings"

// MealType 餐別偏好
type MealType string

const (
	MealTypeAny       MealType = "any"
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// ParseMealType 解析餐別偏好，空字串視為 any
func ParseMealType(s string) (MealType, error) {
	switch MealType(strings.ToLower(strings.TrimSpace(s))) {
	case "", MealTypeAny:
		return MealTypeAny, nil
	case MealTypeBreakfast:
		return MealTypeBreakfast, nil
	case MealTypeLunch:
		return MealTypeLunch, nil
	case MealTypeDinner:
		return MealTypeDinner, nil
	}
	return "", NewFieldValidationError("meal_type", "meal_type must be one of any, breakfast, lunch, dinner")
}

// Valid 是否為具體餐別（不含 any）
func (m MealType) Valid() bool {
	return m == MealTypeBreakfast || m == MealTypeLunch || m == MealTypeDinner
}
