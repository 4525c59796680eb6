// Package idgen 提供儲存鍵（storage key）產生器。
//
// 使用 Sonyflake 演算法產生全域唯一且遞增的 ID，
// 再組合副檔名成為圖片檔案的儲存鍵，例如 img-123456789.jpg。
// 儲存鍵由構造保證不重複，永不重用。
package idgen
