package services

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/sm8ta/auth_microservice/internal/core/domain"
)

// internalError hides err behind domain.ErrInternal while keeping it, with
// its code and context, reachable for logging.
func internalError(code, operation string, err error) error {
	return oops.Code(code).
		With("operation", operation).
		Wrap(fmt.Errorf("%w: %w", domain.ErrInternal, err))
}
