//go:build !linux

package sysutil

const UdevQueuePath = "/run/udev/queue"

// UdevQueue 非 Linux 上没有 udev，永远空闲
type UdevQueue struct{}

func NewUdevQueue(path string) *UdevQueue { return &UdevQueue{} }

func (q *UdevQueue) QueueIsEmpty() bool { return true }
