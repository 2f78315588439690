// Package fieldspec 解析扩展字段描述 (-x)，决定哪些可选字段需要输出。
//
// 语法：
//
//	*        打开全部可选字段
//	!*       关闭全部字段，包括默认输出的字段
//	name     打开一个字段
//	!name    关闭一个字段，优先于打开
//
// 名字之间可以用任何非字母数字字符分隔，例如 "*!driver" 或 "syspath,tags"。
// 名字是精确匹配的，"sys" 不会打开 "syspath"。
package fieldspec

import (
	"sort"
	"strings"
)

// Mode 字段在描述中没有被提到时的默认行为
type Mode int

const (
	// ForceOff 只有被显式打开才输出
	ForceOff Mode = iota
	// ForceOn 除非被显式关闭否则输出
	ForceOn
)

// DependsOn 命令行已经按该维度过滤时，再输出它是多余的
func DependsOn(filtered bool) Mode {
	if filtered {
		return ForceOff
	}
	return ForceOn
}

func (m Mode) String() string {
	if m == ForceOn {
		return "on"
	}
	return "off"
}

// Spec 解析后的扩展字段描述，创建后只读
type Spec struct {
	all      bool
	none     bool
	enabled  map[string]struct{}
	disabled map[string]struct{}
}

// Parse 不会失败：无法识别的内容只是不匹配任何字段
func Parse(raw string) *Spec {
	s := &Spec{
		enabled:  make(map[string]struct{}),
		disabled: make(map[string]struct{}),
	}

	negate := false
	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '!':
			negate = true
			i++
		case c == '*':
			if negate {
				s.none = true
			} else {
				s.all = true
			}
			negate = false
			i++
		case isNameByte(c):
			j := i
			for j < len(raw) && isNameByte(raw[j]) {
				j++
			}
			if negate {
				s.disabled[raw[i:j]] = struct{}{}
			} else {
				s.enabled[raw[i:j]] = struct{}{}
			}
			negate = false
			i = j
		default:
			negate = false
			i++
		}
	}
	return s
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Enabled 判断字段是否输出；显式关闭永远优先
func (s *Spec) Enabled(name string, mode Mode) bool {
	if s.none {
		return false
	}
	if _, off := s.disabled[name]; off {
		return false
	}
	if mode == ForceOn {
		return true
	}
	if s.all {
		return true
	}
	_, on := s.enabled[name]
	return on
}

// String 规范化后的描述，用于调试日志
func (s *Spec) String() string {
	var parts []string
	if s.all {
		parts = append(parts, "*")
	}
	if s.none {
		parts = append(parts, "!*")
	}
	parts = append(parts, sortedKeys(s.enabled, "")...)
	parts = append(parts, sortedKeys(s.disabled, "!")...)
	return strings.Join(parts, ",")
}

func sortedKeys(m map[string]struct{}, prefix string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, prefix+k)
	}
	sort.Strings(keys)
	return keys
}
