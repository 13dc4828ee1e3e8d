package terms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

var (
	dateTimePattern = regexp.MustCompile(`^(-?\d{4,})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	datePattern     = regexp.MustCompile(`^(-?\d{4,})-(\d{2})-(\d{2})(Z|[+-]\d{2}:\d{2})?$`)
	timePattern     = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

// Temporal is the value of a dateTime, date or time literal. Values
// without a timezone keep their fields in UTC and have HasZone unset.
type Temporal struct {
	Time    time.Time
	HasZone bool
}

// Instant places the value on the timeline, reading zone-less values in
// the implicit timezone.
func (t Temporal) Instant(implicit *time.Location) time.Time {
	if t.HasZone {
		return t.Time
	}
	if implicit == nil {
		implicit = time.UTC
	}
	v := t.Time
	return time.Date(v.Year(), v.Month(), v.Day(), v.Hour(), v.Minute(), v.Second(), v.Nanosecond(), implicit)
}

// ZoneOffset returns the offset in seconds east of UTC
func (t Temporal) ZoneOffset() int {
	_, offset := t.Time.Zone()
	return offset
}

// WithTime returns the value with its fields replaced by v's, keeping the zone
func (t Temporal) WithTime(v time.Time) Temporal {
	if t.HasZone {
		return Temporal{Time: v.In(t.Time.Location()), HasZone: true}
	}
	return Temporal{Time: v.UTC()}
}

// referenceDate anchors time values when they are compared or shifted
var referenceDate = [3]int{1972, 12, 31}

// DateTimeLiteral is an xsd:dateTime or xsd:dateTimeStamp
type DateTimeLiteral struct {
	literalBase
	Value Temporal
}

// NewDateTime creates a computed xsd:dateTime
func NewDateTime(v Temporal) *DateTimeLiteral {
	return &DateTimeLiteral{literalBase: computed(types.XSDDateTime), Value: v}
}

// NewDateTimeFromTime creates a zoned xsd:dateTime
func NewDateTimeFromTime(t time.Time) *DateTimeLiteral {
	return NewDateTime(Temporal{Time: t, HasZone: true})
}

func (d *DateTimeLiteral) Str() string {
	return d.strOr(func() string { return FormatDateTime(d.Value) })
}

func (d *DateTimeLiteral) EBV() (bool, error) { return false, ebvError(d) }

func (d *DateTimeLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *DateTimeLiteral) String() string { return d.ToRDF().String() }

// DateLiteral is an xsd:date
type DateLiteral struct {
	literalBase
	Value Temporal
}

// NewDate creates a computed xsd:date; the time of day is dropped
func NewDate(v Temporal) *DateLiteral {
	t := v.Time
	v.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return &DateLiteral{literalBase: computed(types.XSDDate), Value: v}
}

func (d *DateLiteral) Str() string {
	return d.strOr(func() string { return FormatDate(d.Value) })
}

func (d *DateLiteral) EBV() (bool, error) { return false, ebvError(d) }

func (d *DateLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *DateLiteral) String() string { return d.ToRDF().String() }

// TimeLiteral is an xsd:time, stored on the reference date
type TimeLiteral struct {
	literalBase
	Value Temporal
}

// NewTime creates a computed xsd:time; the date is moved to the reference date
func NewTime(v Temporal) *TimeLiteral {
	t := v.Time
	v.Time = time.Date(referenceDate[0], time.Month(referenceDate[1]), referenceDate[2],
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return &TimeLiteral{literalBase: computed(types.XSDTime), Value: v}
}

func (d *TimeLiteral) Str() string {
	return d.strOr(func() string { return FormatTime(d.Value) })
}

func (d *TimeLiteral) EBV() (bool, error) { return false, ebvError(d) }

func (d *TimeLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *TimeLiteral) String() string { return d.ToRDF().String() }

// ParseDateTime parses an XSD dateTime lexical form
func ParseDateTime(lexical string) (Temporal, bool) {
	m := dateTimePattern.FindStringSubmatch(strings.TrimSpace(lexical))
	if m == nil {
		return Temporal{}, false
	}
	year, month, day, ok := parseYMD(m[1], m[2], m[3])
	if !ok {
		return Temporal{}, false
	}
	return buildTemporal(year, month, day, m[4], m[5], m[6], m[7], m[8])
}

// ParseDate parses an XSD date lexical form
func ParseDate(lexical string) (Temporal, bool) {
	m := datePattern.FindStringSubmatch(strings.TrimSpace(lexical))
	if m == nil {
		return Temporal{}, false
	}
	year, month, day, ok := parseYMD(m[1], m[2], m[3])
	if !ok {
		return Temporal{}, false
	}
	return buildTemporal(year, month, day, "00", "00", "00", "", m[4])
}

// ParseTime parses an XSD time lexical form
func ParseTime(lexical string) (Temporal, bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(lexical))
	if m == nil {
		return Temporal{}, false
	}
	v, ok := buildTemporal(referenceDate[0], referenceDate[1], referenceDate[2], m[1], m[2], m[3], m[4], m[5])
	if !ok {
		return Temporal{}, false
	}
	// 24:00:00 rolls over to the next day; move it back to the reference date
	t := v.Time
	v.Time = time.Date(referenceDate[0], time.Month(referenceDate[1]), referenceDate[2],
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return v, true
}

func parseYMD(y, mo, d string) (int, int, int, bool) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, 0, false
	}
	month, _ := strconv.Atoi(mo)
	day, _ := strconv.Atoi(d)
	if month < 1 || month > 12 || day < 1 || day > DaysIn(year, month) {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func buildTemporal(year, month, day int, h, mi, s, frac, zone string) (Temporal, bool) {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(mi)
	second, _ := strconv.Atoi(s)
	nanos := 0
	if frac != "" {
		digits := (frac[1:] + "000000000")[:9]
		nanos, _ = strconv.Atoi(digits)
	}
	if hour == 24 {
		if minute != 0 || second != 0 || nanos != 0 {
			return Temporal{}, false
		}
	} else if hour > 23 {
		return Temporal{}, false
	}
	if minute > 59 || second > 59 {
		return Temporal{}, false
	}

	loc := time.UTC
	hasZone := false
	if zone != "" {
		offset, ok := parseZone(zone)
		if !ok {
			return Temporal{}, false
		}
		loc = zoneLocation(offset)
		hasZone = true
	}
	return Temporal{
		Time:    time.Date(year, time.Month(month), day, hour, minute, second, nanos, loc),
		HasZone: hasZone,
	}, true
}

func parseZone(zone string) (int, bool) {
	if zone == "Z" {
		return 0, true
	}
	hours, _ := strconv.Atoi(zone[1:3])
	minutes, _ := strconv.Atoi(zone[4:6])
	if hours > 14 || minutes > 59 || (hours == 14 && minutes != 0) {
		return 0, false
	}
	offset := hours*3600 + minutes*60
	if zone[0] == '-' {
		offset = -offset
	}
	return offset, true
}

func zoneLocation(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone(FormatZone(offset), offset)
}

// ParseTimeZone parses "Z" or "[+-]hh:mm" into a location
func ParseTimeZone(zone string) (*time.Location, error) {
	if zone == "" {
		return time.UTC, nil
	}
	if zone != "Z" && (len(zone) != 6 || (zone[0] != '+' && zone[0] != '-') || zone[3] != ':') {
		return nil, fmt.Errorf("invalid timezone %q", zone)
	}
	offset, ok := parseZone(zone)
	if !ok {
		return nil, fmt.Errorf("invalid timezone %q", zone)
	}
	return zoneLocation(offset), nil
}

// DaysIn returns the number of days of a month in the proleptic Gregorian calendar
func DaysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// FormatZone renders an offset as "Z" or "+hh:mm"
func FormatZone(offset int) string {
	if offset == 0 {
		return "Z"
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

func formatYear(year int) string {
	if year < 0 {
		return fmt.Sprintf("-%04d", -year)
	}
	return fmt.Sprintf("%04d", year)
}

func formatClock(t time.Time) string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	if ns := t.Nanosecond(); ns != 0 {
		s += strings.TrimRight(fmt.Sprintf(".%09d", ns), "0")
	}
	return s
}

func formatZoneOf(v Temporal) string {
	if !v.HasZone {
		return ""
	}
	return FormatZone(v.ZoneOffset())
}

// FormatDateTime renders the canonical dateTime lexical form
func FormatDateTime(v Temporal) string {
	t := v.Time
	return fmt.Sprintf("%s-%02d-%02dT%s%s", formatYear(t.Year()), t.Month(), t.Day(), formatClock(t), formatZoneOf(v))
}

// FormatDate renders the canonical date lexical form
func FormatDate(v Temporal) string {
	t := v.Time
	return fmt.Sprintf("%s-%02d-%02d%s", formatYear(t.Year()), t.Month(), t.Day(), formatZoneOf(v))
}

// FormatTime renders the canonical time lexical form
func FormatTime(v Temporal) string {
	return formatClock(v.Time) + formatZoneOf(v)
}

// AddMonths shifts t by months, clamping the day to the end of the target month
func AddMonths(t time.Time, months int64) time.Time {
	total := int64(t.Year())*12 + int64(t.Month()) - 1 + months
	year := int(floorDiv(total, 12))
	month := int(total-int64(year)*12) + 1
	day := t.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
