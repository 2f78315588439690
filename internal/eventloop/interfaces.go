package eventloop

//go:generate mockgen -destination=mock_eventloop.go -package=eventloop github.com/Hara602/udevraw/internal/eventloop Source,Recorder,IdleSignal

import "github.com/Hara602/udevraw/internal/model"

// Source 阻塞接收下一个事件，结束时返回 io.EOF
type Source interface {
	Receive() (*model.DeviceEvent, error)
}

// Recorder 在过滤之前记录每一个收到的事件
type Recorder interface {
	Record(ev *model.DeviceEvent) error
}

// IdleSignal 报告 udev 事件队列是否为空
type IdleSignal interface {
	QueueIsEmpty() bool
}
