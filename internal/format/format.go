package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const bytesPerMiB = 1 << 20

// BytesToMiB converts a byte count to mebibytes.
func BytesToMiB(bytes uint64) float64 {
	return float64(bytes) / bytesPerMiB
}

// FormatMiB formats a mebibyte value with exactly 2 decimal places, rounding
// halves up. Example: 2 → "2.00", 0.125 → "0.13".
func FormatMiB(mib float64) string {
	return strconv.FormatFloat(math.Floor(mib*100+0.5)/100, 'f', 2, 64)
}

// FormatBytes formats a byte count into a human-readable string with 1 decimal place.
// Thresholds: <1KB → B, <1MB → KB, <1GB → MB, <1TB → GB, else TB.
func FormatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
		tb = gb * 1024
	)
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	case bytes < gb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes < tb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	default:
		return fmt.Sprintf("%.1f TB", float64(bytes)/tb)
	}
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatList joins ids with ", " preserving their order. Used for replica
// locations and a file's chunk ids.
func FormatList(ids []string) string {
	return strings.Join(ids, ", ")
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
