// Утилитарные функции общего назначения
package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// Deref возвращает значение по указателю или нулевое значение для nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NormalizeEmail приводит email к каноническому виду, в котором он хранится в бд.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
