package log

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// formatter renders entries through a pattern string supporting %time,
// %level, %field, %msg and %n.
type formatter struct {
	pattern string
	time    string
}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	out := f.pattern
	out = strings.Replace(out, "%time", entry.Time.Format(f.time), 1)
	out = strings.Replace(out, "%level", entry.Level.String(), 1)
	out = strings.Replace(out, "%field", buildFields(entry), 1)
	out = strings.Replace(out, "%msg", entry.Message, 1)
	out = strings.Replace(out, "%n", "\n", 1)
	return []byte(out), nil
}

// buildFields renders entry fields as "k1=v1 k2=v2 " with a trailing space,
// or an empty string when there are none. Keys are sorted for stable output.
func buildFields(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v ", k, entry.Data[k])
	}
	return b.String()
}
