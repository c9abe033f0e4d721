package handlers

import (
	"errors"
	"net/http"
	"verinews/internal/services"

	"github.com/gin-gonic/gin"
)

// OK 成功返回
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 资源创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Fail 带状态码的错误返回
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// AbortError 服务层错误到状态码的统一映射
// 未识别的错误一律 500，不把内部细节漏给客户端
func AbortError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var analysisErr *services.AnalysisError

	switch {
	case errors.Is(err, services.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermission):
		Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		Fail(c, http.StatusConflict, err.Error())
	case errors.As(err, &validationErr):
		Fail(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &analysisErr):
		Fail(c, http.StatusBadGateway, analysisErr.Error())
	default:
		Fail(c, http.StatusInternalServerError, "服务器内部错误")
	}
}
