// Package api 提供 HTTP API 介面
package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"bananadb/internal/bananadb/service"
)

// Options API 伺服器設定
type Options struct {
	Address     string // 監聽位址
	UploadsDir  string // 圖片儲存目錄，掛載在 /uploads
	TemplateDir string // 前端頁面目錄
}

// API HTTP 伺服器
type API struct {
	engine *gin.Engine
	server *http.Server

	image *Image
}

// New 建立 API 伺服器並註冊所有路由
func New(imageService *service.ImageService, opts Options) (*API, error) {
	engine := gin.Default()
	engine.Use(corsMiddleware())

	api := &API{
		engine: engine,
		image:  NewImage(imageService),
	}

	api.image.RegisterRoutes(engine.Group("/api"))

	// 前端頁面：不存在時回傳 404 JSON
	indexPath := filepath.Join(opts.TemplateDir, "index.html")
	engine.GET("/", func(ctx *gin.Context) {
		if _, err := os.Stat(indexPath); err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{
				"error": "前端頁面不存在，請先建立 templates/index.html",
			})
			return
		}
		ctx.File(indexPath)
	})

	// 已儲存圖片的靜態存取
	engine.Static("/uploads", opts.UploadsDir)

	api.server = &http.Server{
		Addr:    opts.Address,
		Handler: engine,
	}
	return api, nil
}

// Run 啟動 HTTP 伺服器，阻塞直到伺服器關閉
func (a *API) Run(ctx context.Context) error {
	err := a.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown 優雅關閉
func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 實作 grace.Grace 介面
func (a *API) Name() string {
	return "BananaDB API"
}

// corsMiddleware 允許瀏覽器擴充功能與前端跨域存取
func corsMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", "*")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
