package repository

import (
	"errors"
	"fmt"

	"github.com/otcheredev/nurse-call-service/internal/apperr"
	"gorm.io/gorm"
)

// wrapNotFound converts gorm's record-not-found into an application
// error; anything else is wrapped with context.
func wrapNotFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

// passthrough returns application errors untouched and wraps the rest.
func passthrough(err error, action string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
