package terms

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/rdf"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

var durationPattern = regexp.MustCompile(`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// Duration is the value of any duration literal: a signed number of
// months and a signed number of seconds. Both parts share one sign.
type Duration struct {
	Months  int64
	Seconds *apd.Decimal
}

// Negate flips the sign of both parts
func (d Duration) Negate() Duration {
	var s apd.Decimal
	s.Neg(d.seconds())
	return Duration{Months: -d.Months, Seconds: &s}
}

func (d Duration) seconds() *apd.Decimal {
	if d.Seconds == nil {
		return apd.New(0, 0)
	}
	return d.Seconds
}

// IsZero reports whether both parts are zero
func (d Duration) IsZero() bool {
	return d.Months == 0 && d.seconds().IsZero()
}

// DayTime returns the seconds part as a time.Duration, split into whole
// days and a remainder so large values stay in range.
func (d Duration) DayTime() (days int64, rest time.Duration) {
	secs := d.seconds()
	var q, r apd.Decimal
	_, _ = ExactContext.QuoInteger(&q, secs, apd.New(86400, 0))
	_, _ = ExactContext.Rem(&r, secs, apd.New(86400, 0))
	days, _ = q.Int64()
	var ns apd.Decimal
	_, _ = ExactContext.Mul(&ns, &r, apd.New(1, 9))
	_, _ = ExactContext.Quantize(&ns, &ns, 0)
	n, _ := ns.Int64()
	return days, time.Duration(n)
}

// DurationLiteral is an xsd:duration, xsd:dayTimeDuration or
// xsd:yearMonthDuration, told apart by its datatype
type DurationLiteral struct {
	literalBase
	Value Duration
}

// NewDuration creates a computed xsd:duration
func NewDuration(v Duration) *DurationLiteral {
	return &DurationLiteral{literalBase: computed(types.XSDDuration), Value: v}
}

// NewDurationOf creates a computed duration literal of datatype
func NewDurationOf(v Duration, datatype string) *DurationLiteral {
	return &DurationLiteral{literalBase: computed(datatype), Value: v}
}

// NewDayTimeDuration creates a computed xsd:dayTimeDuration
func NewDayTimeDuration(seconds *apd.Decimal) *DurationLiteral {
	return &DurationLiteral{literalBase: computed(types.XSDDayTimeDuration), Value: Duration{Seconds: seconds}}
}

// NewYearMonthDuration creates a computed xsd:yearMonthDuration
func NewYearMonthDuration(months int64) *DurationLiteral {
	return &DurationLiteral{literalBase: computed(types.XSDYearMonthDuration), Value: Duration{Months: months}}
}

// NewDayTimeDurationFromTime converts a time.Duration
func NewDayTimeDurationFromTime(d time.Duration) *DurationLiteral {
	return NewDayTimeDuration(apd.New(d.Nanoseconds(), -9))
}

func (d *DurationLiteral) Str() string {
	return d.strOr(func() string { return FormatDuration(d.Value, d.datatype) })
}

func (d *DurationLiteral) EBV() (bool, error) { return false, ebvError(d) }

func (d *DurationLiteral) ToRDF() rdf.Term { return typedRDF(d.Str(), d.datatype) }

func (d *DurationLiteral) String() string { return d.ToRDF().String() }

// ParseDuration parses an xsd:duration lexical form
func ParseDuration(lexical string) (Duration, bool) {
	s := strings.TrimSpace(lexical)
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "-P" || strings.HasSuffix(s, "T") {
		return Duration{}, false
	}
	atoi := func(v string) int64 {
		if v == "" {
			return 0
		}
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	months := atoi(m[2])*12 + atoi(m[3])
	whole := atoi(m[4])*86400 + atoi(m[5])*3600 + atoi(m[6])*60
	secs := apd.New(whole, 0)
	if m[7] != "" {
		frac, _, err := apd.NewFromString(m[7])
		if err != nil {
			return Duration{}, false
		}
		_, _ = ExactContext.Add(secs, secs, frac)
	}
	d := Duration{Months: months, Seconds: secs}
	if m[1] == "-" {
		d = d.Negate()
	}
	return d, true
}

// ParseDayTimeDuration parses an xsd:dayTimeDuration lexical form
func ParseDayTimeDuration(lexical string) (Duration, bool) {
	s := strings.TrimSpace(lexical)
	i := strings.IndexByte(s, 'P')
	if i < 0 {
		return Duration{}, false
	}
	datePart := s[i+1:]
	if t := strings.IndexByte(datePart, 'T'); t >= 0 {
		datePart = datePart[:t]
	}
	if strings.ContainsAny(datePart, "YM") {
		return Duration{}, false
	}
	return ParseDuration(s)
}

// ParseYearMonthDuration parses an xsd:yearMonthDuration lexical form
func ParseYearMonthDuration(lexical string) (Duration, bool) {
	s := strings.TrimSpace(lexical)
	if strings.ContainsAny(s, "DTHS") {
		return Duration{}, false
	}
	return ParseDuration(s)
}

// FormatDuration renders the canonical lexical form for datatype
func FormatDuration(d Duration, datatype string) string {
	secs := d.seconds()
	negative := d.Months < 0 || secs.Negative
	months := d.Months
	if months < 0 {
		months = -months
	}
	var abs apd.Decimal
	abs.Abs(secs)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if y := months / 12; y != 0 {
		b.WriteString(strconv.FormatInt(y, 10) + "Y")
	}
	if mo := months % 12; mo != 0 {
		b.WriteString(strconv.FormatInt(mo, 10) + "M")
	}

	var whole, frac apd.Decimal
	_, _ = ExactContext.QuoInteger(&whole, &abs, apd.New(1, 0))
	_, _ = ExactContext.Sub(&frac, &abs, &whole)
	w, _ := whole.Int64()
	days, hours, minutes, seconds := w/86400, (w%86400)/3600, (w%3600)/60, w%60
	if days != 0 {
		b.WriteString(strconv.FormatInt(days, 10) + "D")
	}
	if hours != 0 || minutes != 0 || seconds != 0 || !frac.IsZero() {
		b.WriteByte('T')
		if hours != 0 {
			b.WriteString(strconv.FormatInt(hours, 10) + "H")
		}
		if minutes != 0 {
			b.WriteString(strconv.FormatInt(minutes, 10) + "M")
		}
		if seconds != 0 || !frac.IsZero() {
			var s apd.Decimal
			_, _ = ExactContext.Add(&s, apd.New(seconds, 0), &frac)
			b.WriteString(FormatDecimal(&s) + "S")
		}
	}

	if b.Len() == 1 || (negative && b.Len() == 2) {
		if datatype == types.XSDYearMonthDuration {
			return "P0M"
		}
		return "PT0S"
	}
	return b.String()
}
