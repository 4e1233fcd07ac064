package handler

import (
	"net/http"
	"strconv"

	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/session"
	"github.com/djjoel12/talksellr/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// { message: string }
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Sessionミドルウェアが入れたセッション
func getSessionFromContext(c echo.Context) (session.Scope, bool) {
	s, ok := c.Get(middleware.CtxSessionKey).(session.Scope)
	return s, ok && s != nil
}

// page（default 1）とlimit（default 20）
func parsePage(c echo.Context) (int, int, error) {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}
	return page, limit, nil
}
