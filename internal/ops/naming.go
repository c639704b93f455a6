package ops

import (
	"fmt"
	"strconv"
	"strings"
)

// SuffixedNames returns count names prefix+N, N starting at start and
// zero-padded to width digits.
func SuffixedNames(prefix string, start, count, width int) []string {
	if count <= 0 {
		return nil
	}
	names := make([]string, count)
	for i := range names {
		names[i] = prefix + zeroPad(start+i, width)
	}
	return names
}

// zeroPad left-pads n with zeros to width; numbers wider than width are
// kept whole.
func zeroPad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// SuffixedNames returns names using the library's suffix width.
func (l *Library) SuffixedNames(prefix string, start, count int) []string {
	return SuffixedNames(prefix, start, count, l.cfg.SuffixWidth)
}

// ReplicaNames derives the replica table names for src under parent:
//
//	<parent>/<prefix><src with every "/" removed>_slave<i>, i = 1..count
//
// prefix is the multimaster prefix when multimaster is set.
func (l *Library) ReplicaNames(src, parent string, count int, multimaster bool) []string {
	if count <= 0 {
		return nil
	}
	prefix := l.cfg.ReplicaPrefix
	if multimaster {
		prefix = l.cfg.MultimasterReplicaPrefix
	}
	parent = strings.TrimRight(parent, "/")
	suffix := strings.ReplaceAll(src, "/", "")

	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("%s/%s%s_slave%d", parent, prefix, suffix, i+1)
	}
	return names
}
