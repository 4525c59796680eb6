// Package bananadb 提供 BananaDB 伺服器的主入口和初始化邏輯
package bananadb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"

	"bananadb/internal/bananadb/ai"
	"bananadb/internal/bananadb/api"
	"bananadb/internal/bananadb/config"
	"bananadb/internal/bananadb/repository"
	"bananadb/internal/bananadb/service"
)

type Server struct {
	cfg  *config.Config
	api  *api.API
	repo *repository.Repository
	ai   *ai.GeminiClient
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	// 1. 建立 Repository（SQLite，首次啟動時自動建表）
	repo, err := repository.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}
	logger.Info().Str("path", cfg.DBPath()).Msg("Database initialized")

	// 2. 建立圖片檔案儲存
	storage, err := service.NewStorage(cfg.UploadsDir())
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}

	// 3. 建立 Gemini Client
	// 沒有 API 金鑰時降級運行：分析回傳固定佔位結果，其餘功能照常
	var geminiClient *ai.GeminiClient
	var analyzerClient ai.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		analyzerClient = geminiClient
		logger.Info().Str("model", cfg.GeminiModel).Msg("Gemini client initialized")
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, AI analysis disabled")
	}

	// 4. 建立 AI Engine 與 Image Service
	engine := ai.NewEngine(analyzerClient)
	imageService := service.NewImageService(repo, storage, engine)

	// 5. 建立 API
	apiInstance, err := api.New(imageService, api.Options{
		Address:     cfg.Address,
		UploadsDir:  cfg.UploadsDir(),
		TemplateDir: cfg.TemplateDir,
	})
	if err != nil {
		return nil, err
	}

	server := &Server{
		cfg:  cfg,
		api:  apiInstance,
		repo: repo,
		ai:   geminiClient,
	}
	return server, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服務生命週期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	if s.ai != nil {
		if err := s.ai.Close(); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to close gemini client")
		}
	}
	return s.repo.Close()
}

// Name 實作 grace.Grace 介面
func (s *Server) Name() string {
	return "BananaDB Server"
}

// zerologLogger 實作 grace.Logger 介面
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
