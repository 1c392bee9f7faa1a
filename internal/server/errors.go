package server

import (
	"net/http"

	apperrors "github.com/sendlens/sendlens/internal/errors"
)

// HandleError is the central handler for all HTTP errors.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}
