//go:build linux

package sysutil

import "golang.org/x/sys/unix"

// udevd 处理事件期间会创建这个文件，队列空了就删除
const UdevQueuePath = "/run/udev/queue"

// UdevQueue 通过 /run/udev/queue 是否存在判断 udev 是否空闲
type UdevQueue struct {
	path string
}

func NewUdevQueue(path string) *UdevQueue {
	if path == "" {
		path = UdevQueuePath
	}
	return &UdevQueue{path: path}
}

// QueueIsEmpty 与 libudev 的 udev_queue_get_queue_is_empty 相同
func (q *UdevQueue) QueueIsEmpty() bool {
	return unix.Access(q.path, unix.F_OK) != nil
}
