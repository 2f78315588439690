package eventloop

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/Hara602/udevraw/internal/filter"
	"github.com/Hara602/udevraw/internal/model"
	"github.com/Hara602/udevraw/internal/output"
	"github.com/Hara602/udevraw/internal/sysutil"
	"go.uber.org/zap"
)

// Stats 循环结束时的计数
type Stats struct {
	Received uint64
	Dropped  uint64
	Emitted  uint64
}

// Loop 单线程：接收、过滤、格式化、刷新，一个事件处理完才接收下一个
type Loop struct {
	source    Source
	recorder  Recorder
	idle      IdleSignal
	filter    *filter.Filter
	formatter *output.Formatter
	out       *bufio.Writer
	stats     Stats
}

type Option func(*Loop)

// WithRecorder 每个收到的事件 (过滤前) 都交给 Recorder
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithIdleSignal 没有设置时 udev 队列永远视为空
func WithIdleSignal(s IdleSignal) Option {
	return func(l *Loop) { l.idle = s }
}

func New(source Source, f *filter.Filter, fm *output.Formatter, out io.Writer, opts ...Option) *Loop {
	l := &Loop{
		source:    source,
		filter:    f,
		formatter: fm,
		out:       bufio.NewWriter(out),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run 直到事件源结束 (返回 nil) 或出现致命错误
func (l *Loop) Run() error {
	for {
		ev, err := l.source.Receive()
		if errors.Is(err, io.EOF) {
			sysutil.Log.Debug("end of event stream",
				zap.Uint64("received", l.stats.Received),
				zap.Uint64("dropped", l.stats.Dropped),
				zap.Uint64("emitted", l.stats.Emitted))
			return nil
		}
		if err != nil {
			if !errors.Is(err, model.ErrReceiveFailed) {
				err = fmt.Errorf("%w: %v", model.ErrReceiveFailed, err)
			}
			return err
		}
		l.stats.Received++

		if err := l.handle(ev); err != nil {
			return err
		}
	}
}

func (l *Loop) handle(ev *model.DeviceEvent) error {
	if l.recorder != nil {
		// 日志写失败不影响输出
		if err := l.recorder.Record(ev); err != nil {
			sysutil.Log.Warn("journal record failed", zap.Uint64("seq", ev.Seqnum()), zap.Error(err))
		}
	}

	idle := filter.NewProbe(l.idle)
	if !l.filter.Passes(ev, idle) {
		l.stats.Dropped++
		sysutil.Log.Debug("event dropped",
			zap.Uint64("seq", ev.Seqnum()),
			zap.String("action", ev.Action),
			zap.String("devpath", ev.DevPath))
		return nil
	}

	l.formatter.Format(l.out, ev, idle)
	l.out.WriteByte('\n')
	// 每行刷新一次，读取方总是看到完整的一行
	if err := l.out.Flush(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrOutputFailed, err)
	}
	l.stats.Emitted++
	return nil
}

func (l *Loop) Stats() Stats {
	return l.stats
}
