//go:build linux

package watcher

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/Hara602/udevraw/internal/model"
	"github.com/pilebones/go-udev/netlink"
)

// NewSubsystemMatcher 与 udev_monitor_filter_add_match_subsystem_devtype 相同：
// subsystem 必须给出，devtype 可选
func NewSubsystemMatcher(subsystem, devtype string) (netlink.Matcher, error) {
	if subsystem == "" {
		if devtype == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w for %s/%s: devtype needs a subsystem", model.ErrFilterRejected, subsystem, devtype)
	}

	env := map[string]string{"SUBSYSTEM": exact(subsystem)}
	if devtype != "" {
		env["DEVTYPE"] = exact(devtype)
	}
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{Env: env})
	if err := rules.Compile(); err != nil {
		return nil, fmt.Errorf("%w for %s/%s: %v", model.ErrFilterRejected, subsystem, devtype, err)
	}
	return rules, nil
}

func exact(s string) string {
	return "^" + regexp.QuoteMeta(s) + "$"
}

// decode 解析一个 netlink 消息 (内核格式或 libudev 格式)，保留属性的原始顺序
func decode(raw []byte) (*model.DeviceEvent, *netlink.UEvent, error) {
	if len(raw) == 0 {
		return nil, nil, errors.New("empty message")
	}
	uevent, err := netlink.ParseUEvent(raw)
	if err != nil {
		return nil, nil, err
	}

	devPath := uevent.KObj
	if devPath == "" {
		devPath = uevent.Env["DEVPATH"]
	}
	return &model.DeviceEvent{
		Action:     string(uevent.Action),
		DevPath:    devPath,
		Properties: orderedProperties(raw, uevent.Env),
	}, uevent, nil
}

var libudevPrefix = []byte("libudev\x00")

// libudev 消息头 (udev_monitor_netlink_header) 共 40 字节，properties_off 在 16..20，本机字节序
const libudevHeaderSize = 40

// payload 返回消息中 KEY=VALUE 部分：libudev 格式跳过消息头，内核格式跳过 "action@devpath"
func payload(raw []byte) []byte {
	if bytes.HasPrefix(raw, libudevPrefix) {
		if len(raw) < libudevHeaderSize {
			return nil
		}
		off := binary.NativeEndian.Uint32(raw[16:20])
		if off < libudevHeaderSize || uint64(off) > uint64(len(raw)) {
			return nil
		}
		return raw[off:]
	}
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		return raw[i+1:]
	}
	return nil
}

// orderedProperties map 没有顺序，回到原始消息里找每个 KEY=VALUE 的位置
func orderedProperties(raw []byte, env map[string]string) []model.Property {
	props := make([]model.Property, 0, len(env))
	seen := make(map[string]bool, len(env))
	for _, field := range bytes.Split(payload(raw), []byte{0}) {
		i := bytes.IndexByte(field, '=')
		if i <= 0 {
			continue
		}
		name := string(field[:i])
		value, ok := env[name]
		if !ok || seen[name] || value != string(field[i+1:]) {
			continue
		}
		seen[name] = true
		props = append(props, model.Property{Name: name, Value: value})
	}

	// 原始消息中找不到的放在最后，按名字排序保证输出稳定
	var rest []string
	for name := range env {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		props = append(props, model.Property{Name: name, Value: env[name]})
	}
	return props
}
