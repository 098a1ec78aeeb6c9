package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// JoinKind selects which rows a merge keeps
type JoinKind string

const (
	// JoinLeft keeps every left row; unmatched right columns are missing
	JoinLeft JoinKind = "left"
	// JoinOuter keeps every row of both tables
	JoinOuter JoinKind = "outer"
	// JoinInner keeps only rows whose key appears on both sides
	JoinInner JoinKind = "inner"
	// JoinRight keeps every right row; unmatched left columns are missing
	JoinRight JoinKind = "right"
)

// ParseJoinKind converts the join kind named in the configuration
func ParseJoinKind(s string) (JoinKind, error) {
	switch k := JoinKind(strings.ToLower(strings.TrimSpace(s))); k {
	case JoinLeft, JoinOuter, JoinInner, JoinRight:
		return k, nil
	default:
		return "", fmt.Errorf("unknown join kind %q", s)
	}
}

// Merger joins two tables on a single key column. Keys are compared by
// value with no trimming or case folding. Int and float keys compare as
// numbers, and missing keys match each other.
type Merger struct {
	Kind        JoinKind
	Key         string
	LeftSuffix  string
	RightSuffix string
}

// MergeResult is a joined table plus the join diagnostics
type MergeResult struct {
	Frame dataframe.DataFrame
	// UnmatchedLeft counts distinct left keys absent from the right table
	UnmatchedLeft int
	// UnmatchedRight counts distinct right keys absent from the left table
	UnmatchedRight int
}

// NewMerger creates a merger with the given suffixes for colliding columns
func NewMerger(kind JoinKind, key, leftSuffix, rightSuffix string) *Merger {
	return &Merger{Kind: kind, Key: key, LeftSuffix: leftSuffix, RightSuffix: rightSuffix}
}

// Merge joins left and right on m.Key. Non-key columns present in both
// tables are renamed with the configured suffixes first. The result holds
// the left columns in their original order followed by the right non-key
// columns. Outer joins are sorted by key with missing keys last; the other
// kinds keep gota's row order. Unmatched keys are not an error; they are
// counted in the result.
func (m *Merger) Merge(left, right dataframe.DataFrame) (*MergeResult, error) {
	if m.Key == "" {
		return nil, fmt.Errorf("merge: key column is required")
	}
	if m.LeftSuffix == m.RightSuffix {
		return nil, fmt.Errorf("merge: left and right suffixes must differ, both are %q", m.LeftSuffix)
	}
	if !HasColumn(left, m.Key) {
		return nil, fmt.Errorf("merge: left table: %w", columnNotFound(m.Key))
	}
	if !HasColumn(right, m.Key) {
		return nil, fmt.Errorf("merge: right table: %w", columnNotFound(m.Key))
	}

	left, right, err := m.alignKeyTypes(left, right)
	if err != nil {
		return nil, err
	}
	left, right = m.disambiguate(left, right)

	keyType := left.Col(m.Key).Type()
	codec := newKeyCodec(left.Col(m.Key), right.Col(m.Key))
	encLeft := left.Mutate(codec.encode(left.Col(m.Key)))
	encRight := right.Mutate(codec.encode(right.Col(m.Key)))

	var joined dataframe.DataFrame
	switch m.Kind {
	case JoinLeft:
		joined = encLeft.LeftJoin(encRight, m.Key)
	case JoinOuter:
		joined = encLeft.OuterJoin(encRight, m.Key)
	case JoinInner:
		joined = encLeft.InnerJoin(encRight, m.Key)
	case JoinRight:
		joined = encLeft.RightJoin(encRight, m.Key)
	default:
		return nil, fmt.Errorf("merge: unknown join kind %q", m.Kind)
	}
	if joined.Err != nil {
		return nil, fmt.Errorf("merge: %s join on %q: %w", m.Kind, m.Key, joined.Err)
	}
	joined = joined.Mutate(codec.decode(joined.Col(m.Key), keyType))
	if m.Kind == JoinOuter {
		joined = sortByKey(joined, m.Key)
	}
	if joined.Err != nil {
		return nil, fmt.Errorf("merge: restore keys: %w", joined.Err)
	}

	order := append([]string{}, left.Names()...)
	for _, name := range right.Names() {
		if name != m.Key {
			order = append(order, name)
		}
	}
	joined = joined.Select(order)
	if joined.Err != nil {
		return nil, fmt.Errorf("merge: reorder columns: %w", joined.Err)
	}

	result := &MergeResult{Frame: joined}
	leftKeys := distinctKeys(left.Col(m.Key))
	rightKeys := distinctKeys(right.Col(m.Key))
	for k := range leftKeys {
		if _, ok := rightKeys[k]; !ok {
			result.UnmatchedLeft++
		}
	}
	for k := range rightKeys {
		if _, ok := leftKeys[k]; !ok {
			result.UnmatchedRight++
		}
	}

	slog.Debug("Merged tables",
		slog.String("kind", string(m.Kind)),
		slog.String("key", m.Key),
		slog.Int("left_rows", left.Nrow()),
		slog.Int("right_rows", right.Nrow()),
		slog.Int("rows", joined.Nrow()),
		slog.Int("unmatched_left", result.UnmatchedLeft),
		slog.Int("unmatched_right", result.UnmatchedRight))

	return result, nil
}

// alignKeyTypes gives both key columns one type. Int and float keys both
// become float. A key column with no values at all takes the type of the
// other side. Text against numbers is an error.
func (m *Merger) alignKeyTypes(left, right dataframe.DataFrame) (dataframe.DataFrame, dataframe.DataFrame, error) {
	lk, rk := left.Col(m.Key), right.Col(m.Key)
	if lk.Type() == rk.Type() {
		return left, right, nil
	}

	switch {
	case isEmptyColumn(rk):
		right = right.Mutate(missingSeries(m.Key, rk.Len(), lk.Type()))
	case isEmptyColumn(lk):
		left = left.Mutate(missingSeries(m.Key, lk.Len(), rk.Type()))
	case isNumberType(lk.Type()) && isNumberType(rk.Type()):
		left = left.Mutate(floatSeries(m.Key, floatValues(lk)))
		right = right.Mutate(floatSeries(m.Key, floatValues(rk)))
	default:
		return left, right, fmt.Errorf("merge: %w: %q is %s on the left and %s on the right",
			ErrKeyTypeMismatch, m.Key, lk.Type(), rk.Type())
	}
	return left, right, nil
}

// disambiguate suffixes the non-key columns both tables share
func (m *Merger) disambiguate(left, right dataframe.DataFrame) (dataframe.DataFrame, dataframe.DataFrame) {
	for _, name := range left.Names() {
		if name == m.Key || !HasColumn(right, name) {
			continue
		}
		left = left.Rename(name+m.LeftSuffix, name)
		right = right.Rename(name+m.RightSuffix, name)
	}
	return left, right
}

func isEmptyColumn(s series.Series) bool {
	for i := 0; i < s.Len(); i++ {
		if !IsMissing(s.Elem(i)) {
			return false
		}
	}
	return true
}

func missingSeries(name string, n int, t series.Type) series.Series {
	return series.New(make([]interface{}, n), t, name)
}

// keyCodec turns key cells into join strings and back. gota never matches
// missing cells and compares floats through a rounded form, so the join
// runs on keyOf strings with missing keys mapped to a token of their own.
type keyCodec struct {
	missing string
	values  map[string]interface{}
}

func newKeyCodec(cols ...series.Series) *keyCodec {
	c := &keyCodec{missing: "\x00", values: make(map[string]interface{})}
	for _, s := range cols {
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if IsMissing(e) {
				continue
			}
			k := keyOf(e)
			if _, ok := c.values[k]; !ok {
				c.values[k] = e.Val()
			}
		}
	}
	for {
		if _, taken := c.values[c.missing]; !taken {
			break
		}
		c.missing += "\x00"
	}
	return c
}

func (c *keyCodec) encode(s series.Series) series.Series {
	out := make([]string, s.Len())
	for i := range out {
		e := s.Elem(i)
		if IsMissing(e) {
			out[i] = c.missing
			continue
		}
		out[i] = keyOf(e)
	}
	return series.New(out, series.String, s.Name)
}

func (c *keyCodec) decode(s series.Series, t series.Type) series.Series {
	out := make([]interface{}, s.Len())
	for i := range out {
		e := s.Elem(i)
		if e.IsNA() || e.String() == c.missing {
			continue
		}
		out[i] = c.values[e.String()]
	}
	return series.New(out, t, s.Name)
}

// sortByKey orders rows by the key column, missing keys last
func sortByKey(df dataframe.DataFrame, key string) dataframe.DataFrame {
	if df.Nrow() < 2 {
		return df
	}
	col := df.Col(key)
	idx := make([]int, col.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := col.Elem(idx[a]), col.Elem(idx[b])
		switch {
		case IsMissing(ea):
			return false
		case IsMissing(eb):
			return true
		}
		return lessKey(ea, eb)
	})
	return df.Subset(idx)
}
