package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.SugaredLogger

// Init configures the global logger. With logPath set, output goes to
// that file (truncated on start) without color codes; otherwise stdout.
func Init(verbose bool, logPath string) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeCaller = nil
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if logPath != "" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	writer := zapcore.AddSync(os.Stdout)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			println("Failed to create log file: " + err.Error())
		} else {
			writer = zapcore.AddSync(f)
		}
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), writer, level)
	Log = zap.New(core).Sugar()
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
