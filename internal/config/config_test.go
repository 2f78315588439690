package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := ParseArgs([]string{"udevraw"})

	require.NoError(t, err)
	assert.Equal(t, SourceUdev, cfg.Source)
	assert.Equal(t, 1, cfg.OutputFD)
	assert.Equal(t, Filters{}, cfg.Filters)
	assert.Empty(t, cfg.Extended)
	assert.Empty(t, cfg.Prefix)
	assert.Empty(t, cfg.Journal)
	assert.False(t, cfg.Quiet)
}

func TestParseArgs_ShortFlags(t *testing.T) {
	args := []string{"udevraw", "-f", "block", "-d", "disk", "-a", "add", "-i",
		"-x", "*!driver", "-p", "UDEV_", "-s", "kernel", "-u", "3", "-q", "-r", "/tmp/j.db"}

	cfg, err := ParseArgs(args)
	require.NoError(t, err)
	assert.Equal(t, Filters{Action: "add", Subsystem: "block", Devtype: "disk", IdleOnly: true}, cfg.Filters)
	assert.Equal(t, "*!driver", cfg.Extended)
	assert.Equal(t, "UDEV_", cfg.Prefix)
	assert.Equal(t, SourceKernel, cfg.Source)
	assert.Equal(t, 3, cfg.OutputFD)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "/tmp/j.db", cfg.Journal)
}

func TestParseArgs_LongFlags(t *testing.T) {
	cfg, err := ParseArgs([]string{"udevraw", "--subsystem=usb", "--extended", "tags", "--verbose"})

	require.NoError(t, err)
	assert.Equal(t, "usb", cfg.Filters.Subsystem)
	assert.Equal(t, "tags", cfg.Extended)
	assert.True(t, cfg.Verbose)
}

func TestParseArgs_Replay(t *testing.T) {
	cfg, err := ParseArgs([]string{"udevraw", "-s", "replay:/var/tmp/events.db"})
	require.NoError(t, err)

	p, ok := cfg.ReplayPath()
	assert.True(t, ok)
	assert.Equal(t, "/var/tmp/events.db", p)

	_, ok = (&Config{Source: SourceUdev}).ReplayPath()
	assert.False(t, ok)
}

func TestParseArgs_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown source":   {"udevraw", "-s", "bogus"},
		"empty replay":     {"udevraw", "-s", "replay:"},
		"replay == record": {"udevraw", "-s", "replay:a.db", "-r", "a.db"},
		"negative fd":      {"udevraw", "-u", "-1"},
		"positional":       {"udevraw", "extra"},
		"unknown flag":     {"udevraw", "--nope"},
		"missing value":    {"udevraw", "-f"},
	}
	for name, args := range cases {
		_, err := ParseArgs(args)
		assert.Error(t, err, name)
	}

	_, err := ParseArgs(nil)
	assert.Error(t, err)
}

func TestParseArgs_Help(t *testing.T) {
	_, err := ParseArgs([]string{"udevraw", "-h"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestUsage(t *testing.T) {
	u := Usage("udevraw")
	assert.Contains(t, u, "Usage: udevraw")
	assert.Contains(t, u, "--subsystem")
	assert.Contains(t, u, "-x, --extended")
}
