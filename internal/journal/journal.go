// Package journal 把收到的设备事件记录到 SQLite，并能作为监听源回放
package journal

import (
	"database/sql"
	"fmt"

	"github.com/Hara602/udevraw/internal/model"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	source TEXT NOT NULL,
	seqnum INTEGER,
	action TEXT,
	devpath TEXT,
	received_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS event_properties (
	event_id INTEGER NOT NULL REFERENCES events(id),
	pos INTEGER NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (event_id, pos)
);
`

func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	return db, nil
}

func openForWrite(path string) (*sql.DB, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables in %s: %w", path, err)
	}
	return db, nil
}

// Recorder 追加事件。每次运行有自己的 run_id
type Recorder struct {
	db     *sql.DB
	runID  string
	source string
}

// OpenRecorder 打开 (必要时创建) 日志文件
func OpenRecorder(path, source string) (*Recorder, error) {
	db, err := openForWrite(path)
	if err != nil {
		return nil, err
	}
	return &Recorder{db: db, runID: uuid.NewString(), source: source}, nil
}

func (r *Recorder) RunID() string { return r.runID }

// Record 一个事件及其全部属性在一个事务里写入
func (r *Recorder) Record(ev *model.DeviceEvent) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO events(run_id, source, seqnum, action, devpath) VALUES (?, ?, ?, ?, ?)",
		r.runID, r.source, int64(ev.Seqnum()), ev.Action, ev.DevPath,
	)
	if err != nil {
		return fmt.Errorf("journal insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("journal insert event: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO event_properties(event_id, pos, name, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("journal insert properties: %w", err)
	}
	defer stmt.Close()
	for pos, p := range ev.Properties {
		if _, err := stmt.Exec(id, pos, p.Name, p.Value); err != nil {
			return fmt.Errorf("journal insert property %s: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

func (r *Recorder) Close() error {
	return r.db.Close()
}
