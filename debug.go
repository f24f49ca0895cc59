package sdict

import (
	"fmt"
	"strings"

	"github.com/andreyvit/sdict/fields"
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

// Dump renders every document of bucket as an indented field tree.
// Documents that fail to decode are shown with their error.
func (s *Store) Dump(bucket string) (string, error) {
	var buf strings.Builder
	err := s.view(func(tx storageTx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		bs := b.Stats()
		fmt.Fprintln(&buf, dumpSep1)
		fmt.Fprintf(&buf, "%s (%d docs, data_size = %d, data_alloc = %d)\n", bucket, bs.KeyN, bs.LeafInuse, bs.TotalAlloc())

		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			fmt.Fprintln(&buf, dumpSep2)
			fmt.Fprintf(&buf, "%s\n", k)
			fs, err := decodeEnvelope(v)
			if err != nil {
				fmt.Fprintf(&buf, "  ** %v\n", err)
				continue
			}
			dumpIndented(&buf, fs)
		}
		return nil
	})
	return buf.String(), err
}

func dumpIndented(buf *strings.Builder, fs *fields.Set) {
	for _, line := range strings.SplitAfter(fields.Dump(fs), "\n") {
		if line != "" {
			buf.WriteString("  ")
			buf.WriteString(line)
		}
	}
}
