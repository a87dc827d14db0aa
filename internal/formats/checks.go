package formats

import (
	"math"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var formatFastPatterns = map[string]*regexp.Regexp{
	"date":                      regexp.MustCompile(`^\d\d\d\d-[0-1]\d-[0-3]\d$`),
	"time":                      regexp.MustCompile(`(?i)^(?:[0-2]\d:[0-5]\d:[0-5]\d|23:59:60)(?:\.\d+)?(?:z|[+-]\d\d(?::?\d\d)?)$`),
	"date-time":                 regexp.MustCompile(`(?i)^\d\d\d\d-[0-1]\d-[0-3]\d[t\s](?:[0-2]\d:[0-5]\d:[0-5]\d|23:59:60)(?:\.\d+)?(?:z|[+-]\d\d(?::?\d\d)?)$`),
	"uri":                       regexp.MustCompile(`(?i)^(?:[a-z][a-z0-9+\-.]*:)(?:/?/)?[^\s]*$`),
	"url":                       regexp.MustCompile(`(?i)^(?:https?|ftp)://[^\s/$.?#].[^\s]*$`),
	"uri-reference":             regexp.MustCompile(`(?i)^(?:(?:[a-z][a-z0-9+\-.]*:)?/?/)?(?:[^\\\s#][^\s#]*)?(?:#[^\\\s]*)?$`),
	"email":                     regexp.MustCompile("(?i)^[a-z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)*$"),
	"uuid":                      regexp.MustCompile(`(?i)^(?:urn:uuid:)?[0-9a-f]{8}-(?:[0-9a-f]{4}-){3}[0-9a-f]{12}$`),
	"ipv4":                      regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)\.){3}(?:25[0-5]|2[0-4]\d|1\d\d|[1-9]?\d)$`),
	"json-pointer":              regexp.MustCompile(`^(?:/(?:[^~/]|~0|~1)*)*$`),
	"json-pointer-uri-fragment": regexp.MustCompile(`(?i)^#(?:/(?:[a-z0-9_\-.!$&'()*+,;:=@]|%[0-9a-f]{2}|~0|~1)*)*$`),
	"relative-json-pointer":     regexp.MustCompile(`^(?:0|[1-9][0-9]*)(?:#|(?:/(?:[^~/]|~0|~1)*)*)$`),
	"uri-template":              regexp.MustCompile(`(?i)^(?:(?:[^\x00-\x20"'<>%\\^` + "`" + `{|}]|%[0-9a-f]{2})|\{[+#./;?&=,!@|]?(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?(?:,(?:[a-z0-9_]|%[0-9a-f]{2})+(?::[1-9][0-9]{0,3}|\*)?)*\})*$`),
	"byte":                      regexp.MustCompile(`^(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?$`),
	"duration":                  regexp.MustCompile(`^P(?:(?:\d+Y)?(?:\d+M)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+S)?)?|\d+W)$`),
}

var formatHostnameLabel = regexp.MustCompile(`(?i)^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// checkFormat reports whether s is valid for the named string format.
// Unknown formats always pass. full adds semantic checks on top of the
// fast syntactic ones.
func checkFormat(name string, full bool, s string) bool {
	switch name {
	case "hostname":
		return formatHostname(s)
	case "ipv6":
		return strings.Contains(s, ":") && net.ParseIP(s) != nil
	case "regex":
		_, err := regexp.Compile(s)
		return err == nil
	case "duration":
		return s != "P" && !strings.HasSuffix(s, "T") && formatFastPatterns[name].MatchString(s)
	}
	re, ok := formatFastPatterns[name]
	if !ok {
		return true
	}
	if !re.MatchString(s) {
		return false
	}
	if !full {
		return true
	}
	switch name {
	case "date":
		_, ok := formatParseDate(s)
		return ok
	case "time":
		_, ok := formatParseTime(s)
		return ok
	case "date-time":
		_, ok := formatParseDateTime(s)
		return ok
	case "uri", "url":
		u, err := url.Parse(s)
		return err == nil && u.Scheme != ""
	case "uri-reference":
		_, err := url.Parse(s)
		return err == nil
	case "email":
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s
	}
	return true
}

// checkNumberFormat reports whether v is valid for the named numeric format.
func checkNumberFormat(name string, v float64) bool {
	switch name {
	case "int32":
		return v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32
	case "int64":
		return v == math.Trunc(v) && math.Abs(v) <= 1<<53-1
	}
	return true
}

func formatHostname(s string) bool {
	s = strings.TrimSuffix(s, ".")
	if s == "" || len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !formatHostnameLabel.MatchString(label) {
			return false
		}
	}
	return true
}

func formatParseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	return t, err == nil
}

// formatParseTime returns the time of day in UTC as an offset from midnight.
func formatParseTime(s string) (time.Duration, bool) {
	if !formatFastPatterns["time"].MatchString(s) {
		return 0, false
	}
	upper := strings.ToUpper(s)
	clock, zone := upper, "Z"
	if i := strings.IndexAny(upper, "Z+-"); i >= 0 {
		clock, zone = upper[:i], upper[i:]
	}
	parts := strings.SplitN(clock, ":", 3)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	sec, _ := strconv.ParseFloat(parts[2], 64)
	if h > 23 || m > 59 || sec >= 61 {
		return 0, false
	}
	offset := 0
	if zone != "Z" {
		digits := strings.ReplaceAll(zone[1:], ":", "")
		oh, _ := strconv.Atoi(digits[:2])
		om := 0
		if len(digits) >= 4 {
			om, _ = strconv.Atoi(digits[2:4])
		}
		if oh > 23 || om > 59 {
			return 0, false
		}
		offset = oh*60 + om
		if zone[0] == '-' {
			offset = -offset
		}
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second))
	return d - time.Duration(offset)*time.Minute, true
}

func formatParseDateTime(s string) (time.Time, bool) {
	if len(s) < 11 {
		return time.Time{}, false
	}
	date, ok := formatParseDate(s[:10])
	if !ok {
		return time.Time{}, false
	}
	clock, ok := formatParseTime(s[11:])
	if !ok {
		return time.Time{}, false
	}
	return date.Add(clock), true
}

// compareFormat compares two values of a comparable format (date, time,
// date-time). ok is false when the format is not comparable or either
// value does not parse.
func compareFormat(name, a, b string) (cmp int, ok bool) {
	switch name {
	case "date":
		x, okA := formatParseDate(a)
		y, okB := formatParseDate(b)
		return x.Compare(y), okA && okB
	case "time":
		x, okA := formatParseTime(a)
		y, okB := formatParseTime(b)
		return formatSign(int64(x - y)), okA && okB
	case "date-time":
		x, okA := formatParseDateTime(a)
		y, okB := formatParseDateTime(b)
		return x.Compare(y), okA && okB
	}
	return 0, false
}

func formatSign(v int64) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
