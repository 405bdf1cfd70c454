package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MissingAnswerPlaceholder replaces empty strengths or weaknesses narratives.
const MissingAnswerPlaceholder = "Não informado"

const (
	MinCardScore = 0
	MaxCardScore = 5
)

var ErrInvalidScore = errors.New("invalid score")

// Groups keeps rows clustered by key in first-seen key order.
type Groups[T any] struct {
	keys  []string
	items map[string][]T
}

func GroupByKey[T any](rows []T, key func(T) string) *Groups[T] {
	g := &Groups[T]{items: make(map[string][]T)}
	for _, row := range rows {
		k := key(row)
		if _, ok := g.items[k]; !ok {
			g.keys = append(g.keys, k)
		}
		g.items[k] = append(g.items[k], row)
	}
	return g
}

func (g *Groups[T]) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

func (g *Groups[T]) Get(key string) []T {
	return g.items[key]
}

func (g *Groups[T]) Len() int {
	return len(g.keys)
}

// PeerAnswer is one raw 360 answer about the evaluated person, in clear text.
type PeerAnswer struct {
	Score          string
	Strengths      string
	Weaknesses     string
	WouldWorkAgain string
}

// PeerAggregate is the reduction of every answer for one (evaluator, evaluated) pair.
type PeerAggregate struct {
	Score          decimal.Decimal
	Strengths      string
	Weaknesses     string
	WouldWorkAgain *string
	// Answers counts the raw rows; ScoredAnswers the ones whose score parsed.
	Answers       int
	ScoredAnswers int
}

// AggregatePeer averages the parseable scores and joins the narratives with newlines.
// Empty strengths or weaknesses become MissingAnswerPlaceholder, an empty
// would-work-again stays nil.
func AggregatePeer(answers []PeerAnswer) PeerAggregate {
	scores := make([]decimal.Decimal, 0, len(answers))
	var strengths, weaknesses, again []string
	for _, a := range answers {
		if v, ok := ParseScore(a.Score); ok {
			scores = append(scores, v)
		}
		strengths = appendNonBlank(strengths, a.Strengths)
		weaknesses = appendNonBlank(weaknesses, a.Weaknesses)
		again = appendNonBlank(again, a.WouldWorkAgain)
	}

	agg := PeerAggregate{
		Score:         Mean(scores),
		Strengths:     joinOr(strengths, MissingAnswerPlaceholder),
		Weaknesses:    joinOr(weaknesses, MissingAnswerPlaceholder),
		Answers:       len(answers),
		ScoredAnswers: len(scores),
	}
	if len(again) > 0 {
		v := strings.Join(again, "\n")
		agg.WouldWorkAgain = &v
	}
	return agg
}

// ParseScore reads a numeric score, accepting a comma as decimal separator.
func ParseScore(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// ParseCardScore reads a whole criterion score between MinCardScore and MaxCardScore.
func ParseCardScore(raw string) (int, error) {
	v, ok := ParseScore(raw)
	if !ok || !v.IsInteger() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, raw)
	}
	n := v.IntPart()
	if n < MinCardScore || n > MaxCardScore {
		return 0, fmt.Errorf("%w: %q out of range %d-%d", ErrInvalidScore, raw, MinCardScore, MaxCardScore)
	}
	return int(n), nil
}

// Mean is the arithmetic mean rounded to two decimals; zero for no values.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).
		Div(decimal.NewFromInt(int64(len(values)))).
		Round(2)
}

func appendNonBlank(dst []string, v string) []string {
	if v = strings.TrimSpace(v); v != "" {
		return append(dst, v)
	}
	return dst
}

func joinOr(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, "\n")
}
