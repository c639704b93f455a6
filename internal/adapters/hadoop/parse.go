// Package hadoop enumerates tables under a volume with `hadoop fs -ls`.
package hadoop

import (
	"bufio"
	"bytes"
	"strings"
)

// lsPathField is the index of the path column in `hadoop fs -ls` output:
//
//	trwxr-xr-x   3 mapr mapr          2 2024-01-02 10:00 /dbvolume00001/srctable00001
const lsPathField = 7

// ParseListing extracts child paths from `hadoop fs -ls` output, in order.
//
// Blank lines and the "Found N items" header are skipped. A long-format line
// contributes its path column; a line holding a single token is taken as a
// bare path. Any other line is rejected and counted.
func ParseListing(out []byte) (paths []string, rejected int) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "Found ") {
			continue
		}

		fields := strings.Fields(line)
		var path string
		switch {
		case len(fields) > lsPathField:
			path = strings.Join(fields[lsPathField:], " ")
		case len(fields) == 1:
			path = fields[0]
		default:
			rejected++
			continue
		}
		paths = append(paths, path)
	}
	return paths, rejected
}
