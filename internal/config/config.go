package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

const (
	SourceUdev   = "udev"
	SourceKernel = "kernel"
	// ReplayPrefix 以 replay:<path> 作为监听源时回放事件日志
	ReplayPrefix = "replay:"
)

// Filters 命令行过滤条件，空字符串表示不限制该维度
type Filters struct {
	Action    string
	Subsystem string
	Devtype   string
	IdleOnly  bool
}

// Config holds the parsed command-line configuration
type Config struct {
	Filters Filters
	// Extended 扩展字段描述，见 fieldspec
	Extended string
	// Prefix 加在每个输出变量名前
	Prefix string
	// Source "udev", "kernel" 或 "replay:<path>"
	Source string
	// OutputFD 输出写到这个 unix fd
	OutputFD int
	// Journal 非空时把收到的每个事件记录到这个 SQLite 文件
	Journal string
	Quiet   bool
	Verbose bool
}

// ReplayPath 监听源是事件日志回放时返回日志路径
func (c *Config) ReplayPath() (string, bool) {
	if !strings.HasPrefix(c.Source, ReplayPrefix) {
		return "", false
	}
	return strings.TrimPrefix(c.Source, ReplayPrefix), true
}

func newFlagSet(name string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&cfg.Filters.Action, "action", "a", "", "only print events with this Action (like 'add')")
	fs.StringVarP(&cfg.Filters.Devtype, "devtype", "d", "", "filter for Devtype (like 'disk')")
	fs.StringVarP(&cfg.Filters.Subsystem, "subsystem", "f", "", "Filter for subsystem (like 'block')")
	fs.BoolVarP(&cfg.Filters.IdleOnly, "idle", "i", false, "only print events while the udev queue is Idle")
	fs.StringVarP(&cfg.Extended, "extended", "x", "", "eXtended fields, like '*' or 'syspath,tags' or '*!driver'")
	fs.StringVarP(&cfg.Prefix, "prefix", "p", "", "Prefix for all variable names")
	fs.StringVarP(&cfg.Source, "source", "s", SourceUdev, "udev monitor Source ('udev', 'kernel' or 'replay:FILE')")
	fs.IntVarP(&cfg.OutputFD, "fd", "u", 1, "output goes to Unix fd")
	fs.StringVarP(&cfg.Journal, "record", "r", "", "Record every received event into this SQLite file")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", false, "be Quiet on errors")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose diagnostics on stderr")
	return fs
}

// ParseArgs parses command-line arguments (args[0] is the program name).
// -h/--help returns pflag.ErrHelp.
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	cfg := &Config{}
	fs := newFlagSet(args[0], cfg)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查参数组合
func (c *Config) Validate() error {
	if c.OutputFD < 0 {
		return fmt.Errorf("invalid output fd %d", c.OutputFD)
	}
	switch c.Source {
	case SourceUdev, SourceKernel:
	default:
		p, ok := c.ReplayPath()
		if !ok {
			return fmt.Errorf("unknown monitor source %q (want %q, %q or %sFILE)", c.Source, SourceUdev, SourceKernel, ReplayPrefix)
		}
		if p == "" {
			return errors.New("replay source needs a journal file")
		}
		if p == c.Journal {
			return fmt.Errorf("cannot record into the journal being replayed: %s", p)
		}
	}
	return nil
}

// Usage 帮助信息
func Usage(name string) string {
	var cfg Config
	fs := newFlagSet(name, &cfg)

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s [options]\n", name)
	b.WriteString(`
	Dumps UDEV events to stdout, one line per event.
	Unbuffered and directly usable by shells as it ought to be.
	Example:
	# while read -ru3 line; do
	#   eval "$line"
	#   ...
	# done 3< <(udevraw)

Options:
`)
	b.WriteString(fs.FlagUsages())
	return b.String()
}
