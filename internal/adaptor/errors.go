package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"society-parking/internal/data/repository"
	"society-parking/internal/usecase"
	"society-parking/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps service failure kinds to HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrNotAllowed):
		log.Warn(operation+" failed - not allowed", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrAlreadyInitialized),
		errors.Is(err, repository.ErrAlreadyTerminal),
		errors.Is(err, repository.ErrSlotNotAvailable):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, usecase.ErrInvalidWindow),
		errors.Is(err, usecase.ErrWrongSlotKind),
		errors.Is(err, usecase.ErrNoSlotAvailable),
		errors.Is(err, usecase.ErrBookingFailed):
		log.Warn(operation+" failed - rejected", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		log.Warn(operation+" failed - invalid input", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
