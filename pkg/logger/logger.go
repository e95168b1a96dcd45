package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Logger 全局日志实例
	Logger *logrus.Logger
	mu     sync.Mutex
)

// Config 日志配置
type Config struct {
	Level      string // debug/info/warn/error
	File       string // 为空时只输出到 stdout
	MaxSizeMB  int    // 单个日志文件上限
	MaxBackups int
	MaxAgeDays int
	Console    bool // 是否同时输出到 stdout
}

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	Logger.SetLevel(logrus.InfoLevel)
}

// Init 初始化日志（文件轮转 + 可选控制台输出）
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	var writers []io.Writer
	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0o755); err != nil {
			return err
		}
		maxSize := config.MaxSizeMB
		if maxSize == 0 {
			maxSize = 100
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    maxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAgeDays,
			Compress:   true,
		})
	}
	if config.Console || config.File == "" {
		writers = append(writers, os.Stdout)
	}
	Logger.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Debug 输出 debug 日志
func Debug(args ...interface{}) { Logger.Debug(args...) }

// Debugf 输出格式化 debug 日志
func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }

// Info 输出 info 日志
func Info(args ...interface{}) { Logger.Info(args...) }

// Infof 输出格式化 info 日志
func Infof(format string, args ...interface{}) { Logger.Infof(format, args...) }

// Warn 输出 warn 日志
func Warn(args ...interface{}) { Logger.Warn(args...) }

// Warnf 输出格式化 warn 日志
func Warnf(format string, args ...interface{}) { Logger.Warnf(format, args...) }

// Error 输出 error 日志
func Error(args ...interface{}) { Logger.Error(args...) }

// Errorf 输出格式化 error 日志
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }

// WithField 创建带字段的日志条目
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithFields 创建带多字段的日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}
