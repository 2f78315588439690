package watcher

import (
	"github.com/Hara602/udevraw/internal/model"
)

// DeviceWatcher 设备事件源。调用顺序固定：
// InstallSubsystemFilter (可选) -> EnableReceiving -> 循环 Receive
type DeviceWatcher interface {
	// InstallSubsystemFilter 在事件源上按 subsystem/devtype 过滤，空字符串表示不限制
	InstallSubsystemFilter(subsystem, devtype string) error
	EnableReceiving() error
	// Receive 阻塞直到下一个事件；事件源结束时返回 io.EOF
	Receive() (*model.DeviceEvent, error)
	// Stop 可以在其他 goroutine 调用，让阻塞中的 Receive 返回 io.EOF
	Stop()
	Close() error
}

// New 打开 "udev" 或 "kernel" 的 netlink 事件源
func New(source string) (DeviceWatcher, error) {
	return newWatcher(source)
}
