package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/storefront/internal/session"
	"github.com/GTDGit/storefront/internal/store"
	"github.com/GTDGit/storefront/internal/utils"
	"github.com/GTDGit/storefront/pkg/storefront"
)

// writeError maps a store or backend error onto the response envelope. A
// backend 401 carries the login redirect the API client recorded.
func writeError(c *gin.Context, sess *session.Manager, err error, fallback string) {
	switch {
	case errors.Is(err, storefront.ErrUnauthorized):
		redirect := ""
		if sess != nil {
			redirect = sess.PendingRedirect()
		}
		utils.Unauthorized(c, storefront.Message(err, "Session expired, please log in again"), redirect)
	case errors.Is(err, storefront.ErrNotFound):
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, storefront.Message(err, "Item not found"))
	case errors.Is(err, store.ErrInvalidQuantity):
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidQuantity, "Quantity must be at least 1")
	case errors.Is(err, store.ErrInvalidTargetPrice):
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidPrice, "Target price must be greater than zero")
	case errors.Is(err, store.ErrNoBrowser):
		utils.Error(c, http.StatusConflict, utils.CodeNoBrowser, "Sharing is not available here")
	default:
		utils.Error(c, http.StatusBadGateway, utils.CodeBackendError, storefront.Message(err, fallback))
	}
}

// paramID parses a positive int64 path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.Error(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
