package sysutil

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 未初始化时不输出任何日志，方便测试
var Log = zap.NewNop()
var LogSugar = Log.Sugar()

// InitLogger 日志写到 stderr，stdout 留给事件输出
func InitLogger(verbose, quiet bool) {
	if quiet {
		Log = zap.NewNop()
		LogSugar = Log.Sugar()
		return
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder // 格式化时间输出
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	// 终端上才用彩色级别
	if isatty.IsTerminal(os.Stderr.Fd()) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(os.Stderr)),
		level,
	)
	Log = zap.New(core, zap.AddCaller())
	LogSugar = Log.Sugar()
}
