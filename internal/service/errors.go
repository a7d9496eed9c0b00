package service

import (
	"fmt"

	"go-course-market/internal/domain"
	"go-course-market/pkg/utils"
)

func invalid(msg string) error { return fmt.Errorf("%w: %s", domain.ErrValidation, msg) }

func unauthorized(msg string) error { return fmt.Errorf("%w: %s", domain.ErrAuth, msg) }

func checkPassword(pw string) error {
	switch {
	case pw == "":
		return invalid("password is required")
	case len(pw) > utils.MaxPasswordBytes:
		return invalid(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	}
	return nil
}
