//go:build !linux

package watcher

import (
	"fmt"

	"github.com/Hara602/udevraw/internal/model"
)

func newWatcher(source string) (DeviceWatcher, error) {
	return nil, fmt.Errorf("%w with src=%s: netlink uevents need linux", model.ErrSourceUnavailable, source)
}
