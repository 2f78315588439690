package eventloop

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/fieldspec"
	"github.com/Hara602/udevraw/internal/filter"
	"github.com/Hara602/udevraw/internal/model"
	"github.com/Hara602/udevraw/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sdb(seq, action string) *model.DeviceEvent {
	return &model.DeviceEvent{
		Action: action,
		Properties: []model.Property{
			{Name: "SUBSYSTEM", Value: "block"},
			{Name: "DEVTYPE", Value: "disk"},
			{Name: "DEVNAME", Value: "/dev/sdb"},
			{Name: "SEQNUM", Value: seq},
		},
	}
}

func newLoop(src Source, f config.Filters, spec string, out io.Writer, opts ...Option) *Loop {
	return New(src, filter.New(f), output.New(f, fieldspec.Parse(spec), ""), out, opts...)
}

func expectEvents(src *MockSource, events ...*model.DeviceEvent) {
	var calls []any
	for _, ev := range events {
		calls = append(calls, src.EXPECT().Receive().Return(ev, nil))
	}
	calls = append(calls, src.EXPECT().Receive().Return(nil, io.EOF))
	gomock.InOrder(calls...)
}

func TestRunDefaultLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	expectEvents(src, sdb("42", "add"), sdb("43", "remove"))

	var out bytes.Buffer
	loop := newLoop(src, config.Filters{}, "", &out)
	require.NoError(t, loop.Run())

	assert.Equal(t,
		"seq=42 action=add subsys=block devtype=disk devnode=/dev/sdb\n"+
			"seq=43 action=remove subsys=block devtype=disk devnode=/dev/sdb\n",
		out.String())
	assert.Equal(t, Stats{Received: 2, Emitted: 2}, loop.Stats())
}

func TestRunActionFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	expectEvents(src, sdb("42", "add"), sdb("43", "remove"), sdb("44", "add"))

	var out bytes.Buffer
	loop := newLoop(src, config.Filters{Action: "add"}, "", &out)
	require.NoError(t, loop.Run())

	assert.Equal(t,
		"seq=42 subsys=block devtype=disk devnode=/dev/sdb\n"+
			"seq=44 subsys=block devtype=disk devnode=/dev/sdb\n",
		out.String())
	assert.Equal(t, Stats{Received: 3, Dropped: 1, Emitted: 2}, loop.Stats())
}

func TestRunIdleOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	expectEvents(src, sdb("1", "add"), sdb("2", "add"))

	// 每个事件只查询一次：过滤和 idle 字段共用结果
	idle := NewMockIdleSignal(ctrl)
	gomock.InOrder(
		idle.EXPECT().QueueIsEmpty().Return(false),
		idle.EXPECT().QueueIsEmpty().Return(true),
	)

	var out bytes.Buffer
	loop := newLoop(src, config.Filters{IdleOnly: true}, "", &out, WithIdleSignal(idle))
	require.NoError(t, loop.Run())

	assert.Equal(t, "idle=1 seq=2 action=add subsys=block devtype=disk devnode=/dev/sdb\n", out.String())
	assert.Equal(t, Stats{Received: 2, Dropped: 1, Emitted: 1}, loop.Stats())
}

func TestRunIdleNotPolledWhenUnused(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	expectEvents(src, sdb("1", "add"))
	idle := NewMockIdleSignal(ctrl)

	var out bytes.Buffer
	require.NoError(t, newLoop(src, config.Filters{}, "", &out, WithIdleSignal(idle)).Run())
	assert.NotContains(t, out.String(), "idle=")
}

func TestRunRecordsEveryReceivedEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	add, remove := sdb("1", "add"), sdb("2", "remove")
	src := NewMockSource(ctrl)
	expectEvents(src, add, remove)

	rec := NewMockRecorder(ctrl)
	gomock.InOrder(
		rec.EXPECT().Record(add).Return(nil),
		rec.EXPECT().Record(remove).Return(errors.New("disk full")),
	)

	var out bytes.Buffer
	loop := newLoop(src, config.Filters{Action: "add"}, "", &out, WithRecorder(rec))
	require.NoError(t, loop.Run())
	assert.Equal(t, "seq=1 subsys=block devtype=disk devnode=/dev/sdb\n", out.String())
}

func TestRunReceiveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Receive().Return(sdb("1", "add"), nil),
		src.EXPECT().Receive().Return(nil, errors.New("ENOBUFS")),
	)

	var out bytes.Buffer
	err := newLoop(src, config.Filters{}, "", &out).Run()
	assert.ErrorIs(t, err, model.ErrReceiveFailed)
	assert.Contains(t, err.Error(), "ENOBUFS")
	assert.Equal(t, "seq=1 action=add subsys=block devtype=disk devnode=/dev/sdb\n", out.String())
}

func TestRunKeepsReceiveFailedKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	wrapped := errors.Join(model.ErrReceiveFailed, errors.New("poll"))
	src.EXPECT().Receive().Return(nil, wrapped)

	err := newLoop(src, config.Filters{}, "", io.Discard).Run()
	assert.Equal(t, wrapped, err)
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRunOutputFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	src.EXPECT().Receive().Return(sdb("1", "add"), nil)

	err := newLoop(src, config.Filters{}, "", brokenPipe{}).Run()
	assert.ErrorIs(t, err, model.ErrOutputFailed)
}

func TestRunDroppedEventsAreNotFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src := NewMockSource(ctrl)
	expectEvents(src, sdb("1", "remove"))

	// 被过滤的事件不写任何东西，所以坏掉的输出也不会报错
	loop := newLoop(src, config.Filters{Action: "add"}, "", brokenPipe{})
	require.NoError(t, loop.Run())
	assert.Equal(t, Stats{Received: 1, Dropped: 1}, loop.Stats())
}
