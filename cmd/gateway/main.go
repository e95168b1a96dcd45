package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/relaygate/clob/dataapi"
	"github.com/betbot/relaygate/internal/builder"
	"github.com/betbot/relaygate/internal/credstore"
	"github.com/betbot/relaygate/internal/gateway"
	"github.com/betbot/relaygate/internal/whalefeed"
	"github.com/betbot/relaygate/internal/whalestore"
	"github.com/betbot/relaygate/pkg/config"
	"github.com/betbot/relaygate/pkg/logger"
)

func main() {
	// .env 尽力加载，不存在时用真实环境变量
	_ = godotenv.Load()

	configPath := flag.String("config", getenv("RELAYGATE_CONFIG", "config.yaml"), "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("加载配置失败: %v", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Console:    cfg.Log.Console,
	}); err != nil {
		logger.Errorf("初始化日志失败: %v", err)
		os.Exit(1)
	}

	var encKey []byte
	if cfg.Store.CredEncryptionKey != "" {
		encKey, err = credstore.ParseKey(cfg.Store.CredEncryptionKey)
		if err != nil {
			logger.Errorf("解析凭证库加密密钥失败: %v", err)
			os.Exit(1)
		}
	}

	creds, err := credstore.Open(credstore.OpenOptions{
		Path:          cfg.Store.CredPath,
		EncryptionKey: encKey,
	})
	if err != nil {
		logger.Errorf("打开凭证库失败: %v", err)
		os.Exit(1)
	}
	defer creds.Close()

	whales, err := whalestore.Open(cfg.Store.WhaleDBPath)
	if err != nil {
		logger.Errorf("打开鲸鱼交易库失败: %v", err)
		os.Exit(1)
	}
	defer whales.Close()

	dataAPI := dataapi.NewClient(cfg.Clob.DataAPIHost)

	var builderClient *builder.Client
	if cfg.Builder.Enabled {
		builderClient = builder.NewClient(cfg.Builder.URL)
	}

	pipeline := whalefeed.NewPipeline(dataAPI, whales,
		cfg.Whale.ThresholdUSD, cfg.Whale.PageSize, cfg.Whale.MaxPages, !cfg.Whale.UnorderedFeed)

	srv := gateway.New(gateway.Deps{
		Config:   cfg,
		Creds:    creds,
		Whales:   whales,
		DataAPI:  dataAPI,
		Builder:  builderClient,
		Pipeline: pipeline,
	})

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// 可选的后台定时聚合
	if cfg.Whale.SyncIntervalSeconds > 0 {
		go runSyncLoop(rootCtx, pipeline, cfg)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("relaygate 监听 %s", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP 服务异常: %v", err)
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh
	rootCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)

	logger.Infof("relaygate 已停止")
}

// runSyncLoop 按配置的间隔循环执行聚合，窗口取滚动统计窗口
func runSyncLoop(ctx context.Context, pipeline *whalefeed.Pipeline, cfg *config.Config) {
	interval := time.Duration(cfg.Whale.SyncIntervalSeconds) * time.Second
	window := time.Duration(cfg.Whale.WindowHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := pipeline.Run(ctx, time.Now().Add(-window)); err != nil {
				logger.Errorf("[sync] 定时聚合失败: %v", err)
			}
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
