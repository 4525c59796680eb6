package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bananadb/pkg/apierror"
)

// Response 標準 API 回應信封
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse 清單類回應信封，count 一律輸出（包含 0）
type ListResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// OK 渲染成功回應
func OK(ctx *gin.Context, message string, data any) {
	ctx.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// List 渲染清單回應
func List(ctx *gin.Context, count int, data any) {
	ctx.JSON(http.StatusOK, ListResponse{
		Success: true,
		Count:   count,
		Data:    data,
	})
}

// Fail 渲染錯誤回應
// apierror.Error 使用其自帶的 HTTP 狀態碼，其他錯誤視為 500
func Fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) && apiErr.HTTPStatus > 0 {
		status = apiErr.HTTPStatus
		ctx.JSON(status, Response{
			Success: false,
			Message: apiErr.Message,
		})
		return
	}

	ctx.JSON(status, Response{
		Success: false,
		Message: err.Error(),
	})
}

// FailWithStatus 渲染指定狀態碼的錯誤回應
func FailWithStatus(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Response{
		Success: false,
		Message: message,
	})
}
