//go:build linux

package watcher

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/model"
	"github.com/Hara602/udevraw/internal/sysutil"
	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// 事件风暴时 (例如 coldplug) 避免 ENOBUFS
const receiveBufferSize = 128 * 1024 * 1024

type linuxWatcher struct {
	source  string
	conn    *netlink.UEventConn
	matcher netlink.Matcher
	// wake[1] 写入一个字节唤醒阻塞在 poll 上的 Receive
	wake    [2]int
	enabled bool
	stopped atomic.Bool

	// mu 保证 Close 关闭管道后 Stop 不会再写入
	mu     sync.Mutex
	closed bool
}

func newWatcher(source string) (DeviceWatcher, error) {
	var mode netlink.Mode
	switch source {
	case config.SourceUdev:
		mode = netlink.UdevEvent
	case config.SourceKernel:
		mode = netlink.KernelEvent
	default:
		return nil, fmt.Errorf("%w with src=%s: unknown source", model.ErrSourceUnavailable, source)
	}

	// 连接 NETLINK_KOBJECT_UEVENT
	conn := new(netlink.UEventConn)
	if err := conn.Connect(mode); err != nil {
		return nil, fmt.Errorf("%w with src=%s: %v", model.ErrSourceUnavailable, source, err)
	}

	var wake [2]int
	if err := unix.Pipe2(wake[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w with src=%s: wakeup pipe: %v", model.ErrSourceUnavailable, source, err)
	}

	return &linuxWatcher{
		source: source,
		conn:   conn,
		wake:   wake,
	}, nil
}

func (w *linuxWatcher) InstallSubsystemFilter(subsystem, devtype string) error {
	m, err := NewSubsystemMatcher(subsystem, devtype)
	if err != nil {
		return err
	}
	w.matcher = m
	sysutil.Log.Debug("monitor filter installed",
		zap.String("src", w.source),
		zap.String("subsystem", subsystem),
		zap.String("devtype", devtype))
	return nil
}

func (w *linuxWatcher) EnableReceiving() error {
	if w.stopped.Load() {
		return fmt.Errorf("%w: monitor already stopped", model.ErrEnableFailed)
	}
	// SO_RCVBUFFORCE 需要 CAP_NET_ADMIN，失败时退回 SO_RCVBUF
	if err := unix.SetsockoptInt(w.conn.Fd, unix.SOL_SOCKET, unix.SO_RCVBUFFORCE, receiveBufferSize); err != nil {
		if err := unix.SetsockoptInt(w.conn.Fd, unix.SOL_SOCKET, unix.SO_RCVBUF, receiveBufferSize); err != nil {
			return fmt.Errorf("%w: %v", model.ErrEnableFailed, err)
		}
	}
	w.enabled = true
	return nil
}

func (w *linuxWatcher) Receive() (*model.DeviceEvent, error) {
	if !w.enabled {
		return nil, fmt.Errorf("%w: receiving not enabled", model.ErrReceiveFailed)
	}

	fds := []unix.PollFd{
		{Fd: int32(w.conn.Fd), Events: unix.POLLIN},
		{Fd: int32(w.wake[0]), Events: unix.POLLIN},
	}
	for {
		if w.stopped.Load() {
			return nil, io.EOF
		}
		fds[0].Revents, fds[1].Revents = 0, 0
		// 没有超时，事件源负责最终送来事件或结束
		if _, err := unix.Poll(fds, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return nil, fmt.Errorf("%w: poll: %v", model.ErrReceiveFailed, err)
		}
		if fds[1].Revents != 0 {
			return nil, io.EOF
		}
		if fds[0].Revents&unix.POLLIN == 0 {
			if fds[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				return nil, fmt.Errorf("%w: socket revents 0x%x", model.ErrReceiveFailed, fds[0].Revents)
			}
			continue
		}

		raw, err := w.conn.ReadMsg()
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", model.ErrReceiveFailed, err)
		}

		ev, uevent, err := decode(raw)
		if err != nil {
			// 和 libudev 一样丢弃无法解析的消息
			sysutil.Log.Debug("dropping malformed uevent", zap.Int("len", len(raw)), zap.Error(err))
			continue
		}
		if w.matcher != nil && !w.matcher.Evaluate(*uevent) {
			continue
		}
		return ev, nil
	}
}

func (w *linuxWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.stopped.CompareAndSwap(false, true) {
		_, _ = unix.Write(w.wake[1], []byte{0})
	}
}

func (w *linuxWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	w.stopped.Store(true)
	return multierr.Combine(
		w.conn.Close(),
		unix.Close(w.wake[0]),
		unix.Close(w.wake[1]),
	)
}
