package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/eventloop"
	"github.com/Hara602/udevraw/internal/fieldspec"
	"github.com/Hara602/udevraw/internal/filter"
	"github.com/Hara602/udevraw/internal/output"
	"github.com/Hara602/udevraw/internal/session"
	"github.com/Hara602/udevraw/internal/sysutil"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// 致命错误的退出码
const exitOops = 23

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	cfg, err := config.ParseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		fmt.Fprint(os.Stderr, config.Usage(args[0]))
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", args[0], err)
		fmt.Fprintf(os.Stderr, "Try '%s --help' for more information.\n", args[0])
		return 1
	}

	// 初始化日志
	sysutil.InitLogger(cfg.Verbose, cfg.Quiet)
	defer sysutil.Log.Sync()

	sess, err := session.Open(cfg, nil)
	if err != nil {
		return oops(err)
	}
	defer sess.Close()

	// SIGINT/SIGTERM 让阻塞中的接收返回 EOF，循环正常结束
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			sysutil.Log.Info("Shutting down...", zap.Stringer("signal", sig))
			sess.Stop()
		case <-done:
		}
	}()

	spec := fieldspec.Parse(cfg.Extended)
	formatter := output.New(cfg.Filters, spec, cfg.Prefix)
	sysutil.Log.Debug("output fields",
		zap.String("extended", spec.String()),
		zap.Strings("fields", formatter.Enabled()),
		zap.String("prefix", cfg.Prefix))

	opts := []eventloop.Option{eventloop.WithIdleSignal(sess.Idle)}
	if sess.Recorder != nil {
		opts = append(opts, eventloop.WithRecorder(sess.Recorder))
	}
	loop := eventloop.New(sess.Source, filter.New(cfg.Filters), formatter, sess.Out, opts...)
	if err := loop.Run(); err != nil {
		return oops(err)
	}

	stats := loop.Stats()
	sysutil.Log.Debug("done",
		zap.Uint64("received", stats.Received),
		zap.Uint64("emitted", stats.Emitted),
		zap.Uint64("dropped", stats.Dropped))
	if err := sess.Close(); err != nil {
		sysutil.Log.Warn("release failed", zap.Error(err))
	}
	return 0
}

// oops 所有致命错误都在这里报告，-q 时不输出
func oops(err error) int {
	sysutil.Log.Error("udevraw OOPS", zap.Error(err))
	return exitOops
}
