// Package apierror 提供帶 HTTP 狀態碼的錯誤類型，供 API 層統一處理錯誤。
package apierror

import (
	"fmt"
	"net/http"
)

// Error 單個錯誤資訊
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"` // HTTP 狀態碼，不序列化到回應中
	RawError   error  `json:"-"` // 內部錯誤，用於伺服器端除錯，不序列化到回應中
}

// Error 實作 error 介面
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.RawError != nil {
		str += fmt.Sprintf(" (RawError: %v)", e.RawError)
	}
	return str
}

// Is 實作 errors.Is 介面，以 Code 判斷錯誤類型
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e == nil || t == nil {
		return false
	}

	return e.Code == t.Code
}

// Unwrap 實作 errors.Unwrap 介面，回傳底層錯誤
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.RawError
}

// 編譯期檢查 Error 是否實作了所有必要介面
var _ interface {
	Error() string
	Is(target error) bool
	Unwrap() error
} = (*Error)(nil)

// New 建立新的錯誤，預設 HTTP 狀態碼為 500
func New(code, message string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewWithStatus 建立新的錯誤並指定 HTTP 狀態碼
func NewWithStatus(code, message string, httpStatus int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// NewWithRaw 建立新的錯誤並附帶原始錯誤
func NewWithRaw(code, message string, httpStatus int, rawError error) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		RawError:   rawError,
	}
}
