package report

import (
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
