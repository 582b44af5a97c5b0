package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"goal-tracker-go/internal/domain/apperr"
	"goal-tracker-go/internal/domain/file"
	"goal-tracker-go/pkg/logger"
)

func statusFor(err error, kind apperr.Kind) int {
	switch kind {
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.CapacityExceeded:
		if errors.Is(err, file.ErrFileTooLarge) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case apperr.ValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError maps a service error to its HTTP response and logs it.
// op follows the "<area>.<op>" convention; args are extra log attributes.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	if isMalformedID(err) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		log.BusinessError(op+": not_found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}

	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.Internal {
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	log.BusinessError(op+": "+appErr.Code, err, args...)
	writeError(w, statusFor(err, appErr.Kind), appErr.Code, appErr.Message)
}

// isMalformedID reports a path id that Postgres could not cast to uuid.
// Such an id can never match a row.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
