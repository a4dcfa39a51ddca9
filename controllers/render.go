package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"sportsstore/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// actionRoutes maps the redirect targets of one controller to paths.
type actionRoutes map[string]string

// render writes an ActionResult. Views are sent as JSON, with 422 when the
// model state carries errors. Redirects answer 303 so a POST is followed by
// a GET.
func render(ctx *gin.Context, result models.ActionResult, routes actionRoutes) {
	if !result.IsView() {
		ctx.Redirect(http.StatusSeeOther, location(result, routes))
		return
	}

	status := http.StatusOK
	if !result.State.IsValid() {
		status = http.StatusUnprocessableEntity
	}
	ctx.JSON(status, gin.H{
		"view":   result.ViewName,
		"model":  result.Model,
		"errors": result.State.Errors(),
	})
}

func location(result models.ActionResult, routes actionRoutes) string {
	path, ok := routes[result.Action]
	if !ok {
		path = "/"
	}
	query := url.Values{}
	for k, v := range result.Params {
		if v != "" {
			query.Set(k, v)
		}
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func parsePaginationParams(ctx *gin.Context) (int, int) {
	page, limit := defaultPage, defaultLimit
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit))); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limit = l
	}
	return page, limit
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}
