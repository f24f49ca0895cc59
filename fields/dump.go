package fields

import (
	"encoding/hex"
	"strconv"
	"strings"
)

const indentStep = "  "

// Dump renders the set as an indented tree, one field per line.
func Dump(s *Set) string {
	var buf strings.Builder
	dump(&buf, "", s)
	return buf.String()
}

func dump(buf *strings.Builder, indent string, s *Set) {
	for name, v := range s.All() {
		buf.WriteString(indent)
		buf.WriteString(name)
		buf.WriteByte(':')
		dumpValue(buf, indent, v)
	}
}

func dumpValue(buf *strings.Builder, indent string, value any) {
	switch v := value.(type) {
	case *Set:
		buf.WriteByte('\n')
		dump(buf, indent+indentStep, v)
		return
	case []any:
		buf.WriteByte('\n')
		for i, item := range v {
			buf.WriteString(indent + indentStep)
			buf.WriteByte('[')
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("]:")
			dumpValue(buf, indent+indentStep, item)
		}
		return
	}
	buf.WriteByte(' ')
	switch v := value.(type) {
	case nil:
		buf.WriteString("<nil>")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(v, 10))
	case float32:
		buf.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	case float64:
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case string:
		buf.WriteString(strconv.Quote(v))
	case []byte:
		if len(v) == 0 {
			buf.WriteString("<empty>")
		} else {
			buf.WriteString(hex.EncodeToString(v))
		}
	}
	buf.WriteByte('\n')
}
