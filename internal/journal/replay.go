package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/Hara602/udevraw/internal/model"
)

// Replay 按记录顺序回放日志中的事件，读完后返回 io.EOF
type Replay struct {
	db        *sql.DB
	path      string
	subsystem string
	devtype   string
	enabled   bool
	lastID    int64
	stopped   atomic.Bool
}

// OpenReplay 日志文件必须已存在
func OpenReplay(path string) (*Replay, error) {
	// sqlite 会自动创建不存在的文件，回放时这是错误
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w with src=replay:%s: %v", model.ErrSourceUnavailable, path, err)
	}
	db, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("%w with src=replay:%s: %v", model.ErrSourceUnavailable, path, err)
	}
	return &Replay{db: db, path: path}, nil
}

// InstallSubsystemFilter 规则与 netlink 监听源一致：devtype 需要 subsystem
func (r *Replay) InstallSubsystemFilter(subsystem, devtype string) error {
	if subsystem == "" && devtype != "" {
		return fmt.Errorf("%w for %s/%s: devtype needs a subsystem", model.ErrFilterRejected, subsystem, devtype)
	}
	r.subsystem, r.devtype = subsystem, devtype
	return nil
}

func (r *Replay) EnableReceiving() error {
	if err := r.db.Ping(); err != nil {
		return fmt.Errorf("%w: journal %s: %v", model.ErrEnableFailed, r.path, err)
	}
	r.enabled = true
	return nil
}

func (r *Replay) Receive() (*model.DeviceEvent, error) {
	if !r.enabled {
		return nil, fmt.Errorf("%w: receiving not enabled", model.ErrReceiveFailed)
	}
	for {
		if r.stopped.Load() {
			return nil, io.EOF
		}
		ev, err := r.next()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("%w: journal %s: %v", model.ErrReceiveFailed, r.path, err)
		}
		if r.matches(ev) {
			return ev, nil
		}
	}
}

func (r *Replay) matches(ev *model.DeviceEvent) bool {
	if r.subsystem == "" {
		return true
	}
	if v, _ := ev.Env("SUBSYSTEM"); v != r.subsystem {
		return false
	}
	if r.devtype == "" {
		return true
	}
	v, _ := ev.Env("DEVTYPE")
	return v == r.devtype
}

func (r *Replay) next() (*model.DeviceEvent, error) {
	var (
		id      int64
		action  sql.NullString
		devPath sql.NullString
	)
	err := r.db.QueryRow(
		"SELECT id, action, devpath FROM events WHERE id > ? ORDER BY id LIMIT 1",
		r.lastID,
	).Scan(&id, &action, &devPath)
	if err != nil {
		return nil, err
	}
	r.lastID = id

	rows, err := r.db.Query("SELECT name, value FROM event_properties WHERE event_id = ? ORDER BY pos", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ev := &model.DeviceEvent{Action: action.String, DevPath: devPath.String}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, err
		}
		ev.Properties = append(ev.Properties, p)
	}
	return ev, rows.Err()
}

// Stop 下一次 Receive 返回 io.EOF
func (r *Replay) Stop() {
	r.stopped.Store(true)
}

func (r *Replay) Close() error {
	r.stopped.Store(true)
	return r.db.Close()
}
