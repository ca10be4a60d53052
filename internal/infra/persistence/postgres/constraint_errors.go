package postgres

import (
	"strings"

	domainerrors "userhub/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// isUniqueConstraintViolation reports whether the error is a unique
// constraint violation surfaced by GORM or by the underlying driver.
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Driver-level messages, covering postgres ("duplicate key value
	// violates unique constraint") and sqlite ("UNIQUE constraint failed").
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint")
}

// duplicateError picks the typed duplicate error matching the violated
// column, so a store-level race resolves to the same outcome as the
// application-side pre-check. Username is reported ahead of email, matching
// the pre-check order.
func duplicateError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "email") {
		return domainerrors.ErrEmailTaken.WrapMessage("store constraint violated")
	}

	return domainerrors.ErrUsernameTaken.WrapMessage("store constraint violated")
}
