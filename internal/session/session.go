// Package session 持有一次运行中获取的全部资源：事件源、事件日志和输出 fd
package session

import (
	"fmt"
	"os"
	"sync"

	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/journal"
	"github.com/Hara602/udevraw/internal/model"
	"github.com/Hara602/udevraw/internal/sysutil"
	"github.com/Hara602/udevraw/internal/watcher"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MonitorSession 由 Open 创建，Close 在任何退出路径上释放全部资源
type MonitorSession struct {
	Source   watcher.DeviceWatcher
	Idle     *sysutil.UdevQueue
	Recorder *journal.Recorder
	Out      *os.File

	closeOnce sync.Once
	closeErr  error
}

// Opener 打开监听源，测试时可以替换
type Opener func(cfg *config.Config) (watcher.DeviceWatcher, error)

// DefaultOpener "replay:<path>" 回放日志，其他交给 netlink
func DefaultOpener(cfg *config.Config) (watcher.DeviceWatcher, error) {
	if path, ok := cfg.ReplayPath(); ok {
		r, err := journal.OpenReplay(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return watcher.New(cfg.Source)
}

// Open 严格按顺序：打开源、安装过滤、开始接收。失败时已获取的资源都会释放
func Open(cfg *config.Config, open Opener) (s *MonitorSession, err error) {
	if open == nil {
		open = DefaultOpener
	}
	s = &MonitorSession{}
	defer func() {
		if err != nil {
			if cerr := s.Close(); cerr != nil {
				sysutil.Log.Warn("release after failed open", zap.Error(cerr))
			}
			s = nil
		}
	}()

	if s.Out, err = outputFile(cfg.OutputFD); err != nil {
		return s, err
	}

	if s.Source, err = open(cfg); err != nil {
		return s, err
	}

	f := cfg.Filters
	if f.Subsystem != "" || f.Devtype != "" {
		if err = s.Source.InstallSubsystemFilter(f.Subsystem, f.Devtype); err != nil {
			return s, err
		}
	}

	if err = s.Source.EnableReceiving(); err != nil {
		return s, err
	}

	if cfg.Journal != "" {
		if s.Recorder, err = journal.OpenRecorder(cfg.Journal, cfg.Source); err != nil {
			return s, err
		}
		sysutil.Log.Info("recording events", zap.String("journal", cfg.Journal), zap.String("run", s.Recorder.RunID()))
	}

	s.Idle = sysutil.NewUdevQueue("")
	sysutil.Log.Debug("monitor session open",
		zap.String("src", cfg.Source),
		zap.String("subsystem", f.Subsystem),
		zap.String("devtype", f.Devtype),
		zap.Int("fd", cfg.OutputFD))
	return s, nil
}

func outputFile(fd int) (*os.File, error) {
	switch fd {
	case 1:
		return os.Stdout, nil
	case 2:
		return os.Stderr, nil
	}
	// 复制一份，关闭时不影响调用者的 fd
	dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 3)
	if err != nil {
		return nil, fmt.Errorf("%w: fd %d: %v", model.ErrOutputFailed, fd, err)
	}
	return os.NewFile(uintptr(dup), fmt.Sprintf("fd%d", fd)), nil
}

// Stop 可在信号处理 goroutine 中调用，阻塞的 Receive 会返回 io.EOF
func (s *MonitorSession) Stop() {
	if s.Source != nil {
		s.Source.Stop()
	}
}

// Close 可重复调用，只有第一次真正释放
func (s *MonitorSession) Close() error {
	s.closeOnce.Do(func() {
		if s.Recorder != nil {
			s.closeErr = multierr.Append(s.closeErr, s.Recorder.Close())
		}
		if s.Source != nil {
			s.closeErr = multierr.Append(s.closeErr, s.Source.Close())
		}
		if s.Out != nil && s.Out != os.Stdout && s.Out != os.Stderr {
			s.closeErr = multierr.Append(s.closeErr, s.Out.Close())
		}
	})
	return s.closeErr
}
