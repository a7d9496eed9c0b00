package domain

import "errors"

// 业务错误分类；具体错误用 fmt.Errorf("%w: ...", ErrXxx) 包装
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrAuth        = errors.New("authentication failed")
	ErrForbidden   = errors.New("forbidden")
	ErrConstraint  = errors.New("constraint violation")
	ErrUnavailable = errors.New("service unavailable")
)
