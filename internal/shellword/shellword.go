// Package shellword 把字段值转换成可以直接被 shell eval 的单个 token
package shellword

import (
	"strconv"
	"strings"

	"github.com/alessio/shellescape"
)

// Quote 空值返回空 token；不含特殊字符的值原样输出；
// 其余用单引号包起来，含控制字符时使用 $'...' 以保证一个事件只占一行
func Quote(value string) string {
	if value == "" {
		return ""
	}
	if hasControl(value) {
		return ansiQuote(value)
	}
	return shellescape.Quote(value)
}

// QuoteList 多个值用一个空格连接成一个 token，只有一个值时等同于 Quote
func QuoteList(values []string) string {
	return Quote(strings.Join(values, " "))
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

func ansiQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	b.WriteString("$'")
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				b.WriteString(`\x`)
				hex := strconv.FormatUint(uint64(c), 16)
				if len(hex) == 1 {
					b.WriteByte('0')
				}
				b.WriteString(hex)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
