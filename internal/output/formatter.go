package output

import (
	"bufio"
	"strconv"

	"github.com/Hara602/udevraw/internal/config"
	"github.com/Hara602/udevraw/internal/fieldspec"
	"github.com/Hara602/udevraw/internal/filter"
	"github.com/Hara602/udevraw/internal/model"
	"github.com/Hara602/udevraw/internal/shellword"
)

// PropertyPrefix properties 展开后每个变量名的前缀
const PropertyPrefix = "prop_"

// Category 字段在没有扩展描述时的默认行为
type Category int

const (
	// AlwaysOn 默认输出
	AlwaysOn Category = iota
	// FilterDependent 命令行已按该维度过滤时默认不输出
	FilterDependent
	// OptionalScalar 需要在扩展描述中打开
	OptionalScalar
	// OptionalList 需要在扩展描述中打开的列表
	OptionalList
)

// Accessor 字段值的取法
type Accessor int

const (
	// Scalar 单个值，来自 RawEvent.Field
	Scalar Accessor = iota
	// Sequence 事件序号，十进制
	Sequence
	// Idle udev 队列是否为空，1 或 0
	Idle
	// Joined 只有名字的列表，所有名字合成一个 token
	Joined
	// Expanded 名字/值列表，每个元素一个 prop_NAME=value token
	Expanded
)

// FieldDescriptor 输出表中的一项
type FieldDescriptor struct {
	Name     string
	Category Category
	Accessor Accessor
}

// Fields 固定的输出顺序
var Fields = []FieldDescriptor{
	{Name: model.FieldIdle, Category: FilterDependent, Accessor: Idle},
	{Name: model.FieldSeq, Category: AlwaysOn, Accessor: Sequence},
	{Name: model.FieldAction, Category: FilterDependent, Accessor: Scalar},
	{Name: model.FieldSubsystem, Category: FilterDependent, Accessor: Scalar},
	{Name: model.FieldDevtype, Category: FilterDependent, Accessor: Scalar},
	{Name: model.FieldDevnode, Category: AlwaysOn, Accessor: Scalar},
	{Name: model.FieldSyspath, Category: OptionalScalar, Accessor: Scalar},
	{Name: model.FieldSysname, Category: OptionalScalar, Accessor: Scalar},
	{Name: model.FieldSysnum, Category: OptionalScalar, Accessor: Scalar},
	{Name: model.FieldDriver, Category: OptionalScalar, Accessor: Scalar},
	{Name: model.FieldDevlinks, Category: OptionalList, Accessor: Joined},
	{Name: model.FieldTags, Category: OptionalList, Accessor: Joined},
	{Name: model.FieldProperties, Category: OptionalList, Accessor: Expanded},
}

// filtered 该字段对应的维度是否已被命令行限制。
// idle 例外：只在 idle-only 模式下默认输出
func filtered(name string, f config.Filters) bool {
	switch name {
	case model.FieldAction:
		return f.Action != ""
	case model.FieldSubsystem:
		return f.Subsystem != ""
	case model.FieldDevtype:
		return f.Devtype != ""
	case model.FieldIdle:
		return !f.IdleOnly
	}
	return false
}

func modeFor(d FieldDescriptor, f config.Filters) fieldspec.Mode {
	switch d.Category {
	case AlwaysOn:
		return fieldspec.ForceOn
	case FilterDependent:
		return fieldspec.DependsOn(filtered(d.Name, f))
	}
	return fieldspec.ForceOff
}

// Formatter 把一个事件格式化成一行 name=value
type Formatter struct {
	prefix string
	fields []FieldDescriptor
}

// New 启动时根据过滤条件和扩展描述确定要输出的字段，之后只读
func New(f config.Filters, spec *fieldspec.Spec, prefix string) *Formatter {
	var fields []FieldDescriptor
	for _, d := range Fields {
		if spec.Enabled(d.Name, modeFor(d, f)) {
			fields = append(fields, d)
		}
	}
	return &Formatter{prefix: prefix, fields: fields}
}

// Enabled 实际会输出的字段名，按输出顺序
func (fm *Formatter) Enabled() []string {
	names := make([]string, 0, len(fm.fields))
	for _, d := range fm.fields {
		names = append(names, d.Name)
	}
	return names
}

// Format 逐个字段写到 w，不带换行。写错误由 bufio.Writer 保留到 Flush
func (fm *Formatter) Format(w *bufio.Writer, ev model.RawEvent, idle *filter.Probe) {
	l := line{w: w, prefix: fm.prefix, first: true}
	for _, d := range fm.fields {
		switch d.Accessor {
		case Scalar:
			v, _ := ev.Field(d.Name)
			l.token(d.Name, shellword.Quote(v))
		case Sequence:
			l.token(d.Name, strconv.FormatUint(ev.Seqnum(), 10))
		case Idle:
			v := "0"
			if idle.Empty() {
				v = "1"
			}
			l.token(d.Name, v)
		case Joined:
			list := ev.List(d.Name)
			names := make([]string, 0, len(list))
			for _, p := range list {
				names = append(names, p.Name)
			}
			l.token(d.Name, shellword.QuoteList(names))
		case Expanded:
			for _, p := range ev.List(d.Name) {
				l.token(PropertyPrefix+p.Name, shellword.Quote(p.Value))
			}
		}
	}
}

type line struct {
	w      *bufio.Writer
	prefix string
	first  bool
}

func (l *line) token(name, quoted string) {
	if !l.first {
		l.w.WriteByte(' ')
	}
	l.first = false
	l.w.WriteString(l.prefix)
	l.w.WriteString(name)
	l.w.WriteByte('=')
	l.w.WriteString(quoted)
}
