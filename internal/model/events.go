package model

import (
	"path"
	"strconv"
	"strings"
)

// 输出行中使用的固定字段名
const (
	FieldIdle       = "idle"
	FieldSeq        = "seq"
	FieldAction     = "action"
	FieldSubsystem  = "subsys"
	FieldDevtype    = "devtype"
	FieldDevnode    = "devnode"
	FieldSyspath    = "syspath"
	FieldSysname    = "sysname"
	FieldSysnum     = "sysnum"
	FieldDriver     = "driver"
	FieldDevlinks   = "devlinks"
	FieldTags       = "tags"
	FieldProperties = "properties"
)

// Property uevent 中的一个 KEY=VALUE，保持内核/udev 发送时的顺序
type Property struct {
	Name  string
	Value string
}

// RawEvent 对一个设备事件的只读访问
type RawEvent interface {
	Seqnum() uint64
	Field(name string) (string, bool)
	List(name string) []Property
}

// DeviceEvent 设备热插拔/状态变化事件的快照
type DeviceEvent struct {
	Action     string     // "add", "remove", "change", ...
	DevPath    string     // e.g., /devices/pci0000:00/.../block/sdb
	Properties []Property // 原始顺序的环境变量
}

// Env 查找一个 uevent 属性
func (e *DeviceEvent) Env(key string) (string, bool) {
	for _, p := range e.Properties {
		if p.Name == key {
			return p.Value, true
		}
	}
	return "", false
}

// Seqnum 缺失或无法解析时为 0 (与 libudev 一致)
func (e *DeviceEvent) Seqnum() uint64 {
	v, ok := e.Env("SEQNUM")
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (e *DeviceEvent) devPath() string {
	if e.DevPath != "" {
		return e.DevPath
	}
	v, _ := e.Env("DEVPATH")
	return v
}

// Field 按输出字段名取标量值，第二个返回值表示值是否存在
func (e *DeviceEvent) Field(name string) (string, bool) {
	switch name {
	case FieldSeq:
		if _, ok := e.Env("SEQNUM"); !ok {
			return "", false
		}
		return strconv.FormatUint(e.Seqnum(), 10), true
	case FieldAction:
		if e.Action != "" {
			return e.Action, true
		}
		return e.Env("ACTION")
	case FieldSubsystem:
		return e.Env("SUBSYSTEM")
	case FieldDevtype:
		return e.Env("DEVTYPE")
	case FieldDriver:
		return e.Env("DRIVER")
	case FieldDevnode:
		// DEVNAME 有时只是 "sdb1"，补全为 /dev/sdb1
		devName, ok := e.Env("DEVNAME")
		if !ok || devName == "" {
			return "", false
		}
		if !strings.HasPrefix(devName, "/") {
			devName = "/dev/" + devName
		}
		return devName, true
	case FieldSyspath:
		p := e.devPath()
		if p == "" {
			return "", false
		}
		return "/sys" + p, true
	case FieldSysname:
		return e.sysname()
	case FieldSysnum:
		name, ok := e.sysname()
		if !ok {
			return "", false
		}
		// sysname 末尾的数字，例如 sdb1 -> 1
		i := len(name)
		for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
			i--
		}
		if i == len(name) {
			return "", false
		}
		return name[i:], true
	}
	return "", false
}

// sysname 是 devpath 的最后一段，内核用 '!' 代替名字中的 '/'
func (e *DeviceEvent) sysname() (string, bool) {
	p := e.devPath()
	if p == "" {
		return "", false
	}
	return strings.ReplaceAll(path.Base(p), "!", "/"), true
}

// List 取列表字段。devlinks/tags 只有名字，properties 是名字和值
func (e *DeviceEvent) List(name string) []Property {
	switch name {
	case FieldDevlinks:
		v, _ := e.Env("DEVLINKS")
		return namesOnly(strings.Fields(v))
	case FieldTags:
		v, _ := e.Env("TAGS")
		return namesOnly(strings.FieldsFunc(v, func(r rune) bool { return r == ':' }))
	case FieldProperties:
		return e.Properties
	}
	return nil
}

func namesOnly(names []string) []Property {
	if len(names) == 0 {
		return nil
	}
	list := make([]Property, 0, len(names))
	for _, n := range names {
		list = append(list, Property{Name: n})
	}
	return list
}
