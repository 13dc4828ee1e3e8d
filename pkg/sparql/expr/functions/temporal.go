package functions

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/exprerr"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/overload"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/terms"
	"github.com/aleksaelezovic/sparqlexpr/pkg/sparql/expr/types"
)

func temporalOf(t terms.Term) terms.Temporal {
	switch v := t.(type) {
	case *terms.DateTimeLiteral:
		return v.Value
	case *terms.DateLiteral:
		return v.Value
	default:
		return t.(*terms.TimeLiteral).Value
	}
}

func durationOf(t terms.Term) terms.Duration {
	return t.(*terms.DurationLiteral).Value
}

// shift adds a duration to a point in time, months first
func shift(t time.Time, d terms.Duration) time.Time {
	if d.Months != 0 {
		t = terms.AddMonths(t, d.Months)
	}
	days, rest := d.DayTime()
	return t.AddDate(0, 0, int(days)).Add(rest)
}

// temporalDifference subtracts two points in time as a dayTimeDuration
func temporalDifference(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	x := temporalOf(a).Instant(env.ImplicitTimeZone)
	y := temporalOf(b).Instant(env.ImplicitTimeZone)
	// whole seconds and nanoseconds apart to stay exact for large spans
	secs := x.Unix() - y.Unix()
	nanos := int64(x.Nanosecond() - y.Nanosecond())
	var total apd.Decimal
	_, _ = terms.ExactContext.Add(&total, apd.New(secs, 0), apd.New(nanos, -9))
	return terms.NewDayTimeDuration(&total), nil
}

func addToDateTime(negate bool) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		v, d := temporalOf(a), durationOf(b)
		if negate {
			d = d.Negate()
		}
		return terms.NewDateTime(v.WithTime(shift(v.Time, d))), nil
	}
}

func addToDate(negate bool) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		v, d := temporalOf(a), durationOf(b)
		if negate {
			d = d.Negate()
		}
		return terms.NewDate(v.WithTime(shift(v.Time, d))), nil
	}
}

func addToTime(negate bool) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		v, d := temporalOf(a), durationOf(b)
		if negate {
			d = d.Negate()
		}
		// times wrap around midnight; only the day-time part applies
		d.Months = 0
		return terms.NewTime(v.WithTime(shift(v.Time, d))), nil
	}
}

func durationArithmetic(negate bool) func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
	return func(env *overload.Env, a, b terms.Term) (terms.Term, error) {
		x, y := durationOf(a), durationOf(b)
		if negate {
			y = y.Negate()
		}
		var secs apd.Decimal
		if _, err := terms.ExactContext.Add(&secs, secondsOf(x), secondsOf(y)); err != nil {
			return nil, &exprerr.ExpressionError{Message: "duration arithmetic failed", Err: err}
		}
		if a.(terms.Literal).Datatype() == types.XSDYearMonthDuration {
			return terms.NewYearMonthDuration(x.Months + y.Months), nil
		}
		return terms.NewDayTimeDuration(&secs), nil
	}
}

func secondsOf(d terms.Duration) *apd.Decimal {
	if d.Seconds == nil {
		return apd.New(0, 0)
	}
	return d.Seconds
}

func registerTemporalArithmetic(plus, minus *Builder) {
	plus.OnBinary(types.XSDDateTime, types.XSDDuration, addToDateTime(false))
	plus.OnBinary(types.XSDDate, types.XSDDuration, addToDate(false))
	plus.OnBinary(types.XSDTime, types.XSDDayTimeDuration, addToTime(false))
	plus.OnBinary(types.XSDYearMonthDuration, types.XSDYearMonthDuration, durationArithmetic(false))
	plus.OnBinary(types.XSDDayTimeDuration, types.XSDDayTimeDuration, durationArithmetic(false))

	minus.OnBinary(types.XSDDateTime, types.XSDDateTime, temporalDifference)
	minus.OnBinary(types.XSDDate, types.XSDDate, temporalDifference)
	minus.OnBinary(types.XSDTime, types.XSDTime, temporalDifference)
	minus.OnBinary(types.XSDDateTime, types.XSDDuration, addToDateTime(true))
	minus.OnBinary(types.XSDDate, types.XSDDuration, addToDate(true))
	minus.OnBinary(types.XSDTime, types.XSDDayTimeDuration, addToTime(true))
	minus.OnBinary(types.XSDYearMonthDuration, types.XSDYearMonthDuration, durationArithmetic(true))
	minus.OnBinary(types.XSDDayTimeDuration, types.XSDDayTimeDuration, durationArithmetic(true))
}

func year(_ *overload.Env, a terms.Term) (terms.Term, error) {
	return terms.NewInteger(int64(temporalOf(a).Time.Year())), nil
}

func month(_ *overload.Env, a terms.Term) (terms.Term, error) {
	return terms.NewInteger(int64(temporalOf(a).Time.Month())), nil
}

func day(_ *overload.Env, a terms.Term) (terms.Term, error) {
	return terms.NewInteger(int64(temporalOf(a).Time.Day())), nil
}

func hours(_ *overload.Env, a terms.Term) (terms.Term, error) {
	return terms.NewInteger(int64(temporalOf(a).Time.Hour())), nil
}

func minutes(_ *overload.Env, a terms.Term) (terms.Term, error) {
	return terms.NewInteger(int64(temporalOf(a).Time.Minute())), nil
}

func seconds(_ *overload.Env, a terms.Term) (terms.Term, error) {
	t := temporalOf(a).Time
	v := apd.New(int64(t.Second())*1_000_000_000+int64(t.Nanosecond()), -9)
	return terms.NewDecimal(v, types.XSDDecimal), nil
}

func timezone(_ *overload.Env, a terms.Term) (terms.Term, error) {
	v := temporalOf(a)
	if !v.HasZone {
		return nil, exprerr.NewExpressionError("no timezone in %s", a)
	}
	return terms.NewDayTimeDuration(apd.New(int64(v.ZoneOffset()), 0)), nil
}

func tz(_ *overload.Env, a terms.Term) (terms.Term, error) {
	v := temporalOf(a)
	if !v.HasZone {
		return terms.NewString(""), nil
	}
	return terms.NewString(terms.FormatZone(v.ZoneOffset())), nil
}
