// Package ginx 提供 gin handler 的統一回應輔助函式。
//
// API 一律使用 JSON 信封格式：
//
//	{"success": true, "message": "...", "data": {...}}
//
// 清單類回應另帶 count 欄位。錯誤回應依 apierror 的 HTTP 狀態碼渲染，
// 其他錯誤一律視為 500。
package ginx
