package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sdb1() *DeviceEvent {
	return &DeviceEvent{
		Action:  "add",
		DevPath: "/devices/pci0000:00/0000:00:14.0/usb1/1-1/1-1:1.0/host6/target6:0:0/6:0:0:0/block/sdb/sdb1",
		Properties: []Property{
			{Name: "ACTION", Value: "add"},
			{Name: "DEVPATH", Value: "/devices/pci0000:00/0000:00:14.0/usb1/1-1/1-1:1.0/host6/target6:0:0/6:0:0:0/block/sdb/sdb1"},
			{Name: "SUBSYSTEM", Value: "block"},
			{Name: "DEVNAME", Value: "sdb1"},
			{Name: "DEVTYPE", Value: "partition"},
			{Name: "SEQNUM", Value: "00042"},
			{Name: "DEVLINKS", Value: "/dev/disk/by-id/usb-Kingston_DT-0:0-part1 /dev/disk/by-uuid/1234-ABCD"},
			{Name: "TAGS", Value: ":systemd:seat:"},
		},
	}
}

func TestDeviceEventFields(t *testing.T) {
	ev := sdb1()

	cases := map[string]string{
		FieldSeq:       "42",
		FieldAction:    "add",
		FieldSubsystem: "block",
		FieldDevtype:   "partition",
		FieldDevnode:   "/dev/sdb1",
		FieldSyspath:   "/sys" + ev.DevPath,
		FieldSysname:   "sdb1",
		FieldSysnum:    "1",
	}
	for name, want := range cases {
		got, ok := ev.Field(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ev.Field(FieldDriver)
	assert.False(t, ok)
	assert.Equal(t, uint64(42), ev.Seqnum())
}

func TestDeviceEventMissingValues(t *testing.T) {
	ev := &DeviceEvent{Action: "change"}

	assert.Equal(t, uint64(0), ev.Seqnum())
	for _, name := range []string{FieldSeq, FieldDevnode, FieldSyspath, FieldSysname, FieldSysnum, "unknown"} {
		_, ok := ev.Field(name)
		assert.False(t, ok, name)
	}
	assert.Empty(t, ev.List(FieldDevlinks))
	assert.Empty(t, ev.List(FieldTags))
}

func TestDeviceEventSysnameEscapes(t *testing.T) {
	ev := &DeviceEvent{DevPath: "/devices/virtual/block/dm!cache0"}

	name, ok := ev.Field(FieldSysname)
	assert.True(t, ok)
	assert.Equal(t, "dm/cache0", name)

	num, ok := ev.Field(FieldSysnum)
	assert.True(t, ok)
	assert.Equal(t, "0", num)

	ev = &DeviceEvent{DevPath: "/devices/virtual/net/lo"}
	_, ok = ev.Field(FieldSysnum)
	assert.False(t, ok)
}

func TestDeviceEventLists(t *testing.T) {
	ev := sdb1()

	assert.Equal(t, []Property{
		{Name: "/dev/disk/by-id/usb-Kingston_DT-0:0-part1"},
		{Name: "/dev/disk/by-uuid/1234-ABCD"},
	}, ev.List(FieldDevlinks))
	assert.Equal(t, []Property{{Name: "systemd"}, {Name: "seat"}}, ev.List(FieldTags))
	assert.Equal(t, ev.Properties, ev.List(FieldProperties))
	assert.Nil(t, ev.List("nope"))
}
