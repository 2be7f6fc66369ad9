package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zjp-CN/bilingual/pkg/providers"
)

// NewLogger 创建一个新的日志记录器，日志写到 stderr，不与 --stdout 的译文混在一起
func NewLogger(debug bool) *zap.Logger {
	config := zap.NewProductionConfig()

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		// 配置固定，出错时退回到最简单的 stderr 日志
		return zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			config.Level,
		))
	}

	return logger
}

// NewNop 不输出任何内容，用于测试
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// Secret 记录密钥时只保留首尾
func Secret(key, value string) zap.Field {
	return zap.String(key, providers.MaskSecret(value))
}
