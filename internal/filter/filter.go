package filter

import (
	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/model"
)

// IdleSignal 报告 udev 的事件队列当前是否为空
type IdleSignal interface {
	QueueIsEmpty() bool
}

// Probe 每个事件最多查询一次 IdleSignal，过滤和 idle 字段共用结果
type Probe struct {
	signal IdleSignal
	polled bool
	empty  bool
}

func NewProbe(signal IdleSignal) *Probe {
	return &Probe{signal: signal}
}

// Empty 没有 IdleSignal 时视为空闲
func (p *Probe) Empty() bool {
	if !p.polled {
		p.polled = true
		p.empty = p.signal == nil || p.signal.QueueIsEmpty()
	}
	return p.empty
}

// Filter 决定一个事件是否输出。subsystem/devtype 已经在监听源上过滤过了
type Filter struct {
	action   string
	idleOnly bool
}

func New(f config.Filters) *Filter {
	return &Filter{action: f.Action, idleOnly: f.IdleOnly}
}

// Passes 先检查代价小的条件
func (f *Filter) Passes(ev model.RawEvent, idle *Probe) bool {
	if f.idleOnly && !idle.Empty() {
		return false
	}
	if f.action != "" {
		action, _ := ev.Field(model.FieldAction)
		if action != f.action {
			return false
		}
	}
	return true
}
