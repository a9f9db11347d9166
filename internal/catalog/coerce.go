package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Outcome records how a best-effort field coercion ended.
type Outcome int

const (
	// OutcomeAbsent means the source carried no value.
	OutcomeAbsent Outcome = iota
	// OutcomeParsed means the source value was interpreted successfully.
	OutcomeParsed
	// OutcomeDefaulted means a value was present but unusable, so the
	// fallback was taken.
	OutcomeDefaulted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAbsent:
		return "absent"
	case OutcomeParsed:
		return "parsed"
	case OutcomeDefaulted:
		return "defaulted"
	default:
		return "unknown"
	}
}

// Coerced is the result of a coercion that never fails.
type Coerced[T any] struct {
	Value   T
	Outcome Outcome
}

func (c Coerced[T]) Ok() bool { return c.Outcome == OutcomeParsed }

func coerceFloat(v any, present bool) Coerced[float64] {
	if !present {
		return Coerced[float64]{Outcome: OutcomeAbsent}
	}

	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return Coerced[float64]{Outcome: OutcomeDefaulted}
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return Coerced[float64]{Outcome: OutcomeDefaulted}
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Coerced[float64]{Outcome: OutcomeDefaulted}
	}
	return Coerced[float64]{Value: f, Outcome: OutcomeParsed}
}

// coerceYear accepts whole numbers only.
func coerceYear(v any, present bool) Coerced[int] {
	f := coerceFloat(v, present)
	if !f.Ok() {
		return Coerced[int]{Outcome: f.Outcome}
	}
	if f.Value != math.Trunc(f.Value) || math.Abs(f.Value) > math.MaxInt32 {
		return Coerced[int]{Outcome: OutcomeDefaulted}
	}
	return Coerced[int]{Value: int(f.Value), Outcome: OutcomeParsed}
}

// coerceLeadingInt reads the integer prefix of a string, so "9/10" gives 9.
// Numbers are truncated, so 9.5 gives 9.
func coerceLeadingInt(v any, present bool) Coerced[int] {
	if !present {
		return Coerced[int]{Outcome: OutcomeAbsent}
	}
	s, ok := v.(string)
	if !ok {
		// numbers are read by value, so 1e1 is 10
		f := coerceFloat(v, true)
		if !f.Ok() || math.Abs(f.Value) > math.MaxInt32 {
			return Coerced[int]{Outcome: OutcomeDefaulted}
		}
		return Coerced[int]{Value: int(math.Trunc(f.Value)), Outcome: OutcomeParsed}
	}
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return Coerced[int]{Outcome: OutcomeDefaulted}
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return Coerced[int]{Outcome: OutcomeDefaulted}
	}
	return Coerced[int]{Value: n, Outcome: OutcomeParsed}
}

// toText renders scalar JSON values as text. Arrays and objects are not text.
func toText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
