package analysis

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// GroupSummary holds descriptive statistics of one group's values.
type GroupSummary struct {
	Group    string  `json:"group"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Variance float64 `json:"variance"`
	StdDev   float64 `json:"std_dev"`
	SEM      float64 `json:"sem"`
}

// Count is a value count, as used for bar and pie charts.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Describe computes mean, median, sample variance (n-1), standard deviation and
// standard error of the mean. values is not modified.
func Describe(group string, values []float64) (GroupSummary, error) {
	n := len(values)
	if n == 0 {
		return GroupSummary{}, &EmptyGroupError{Group: group}
	}
	if n < 2 {
		return GroupSummary{}, &InsufficientDataError{What: "variance of group " + group, Need: 2, Got: n}
	}
	sorted := sortedCopy(values)
	variance := stat.Variance(values, nil)
	std := math.Sqrt(variance)
	return GroupSummary{
		Group:    group,
		Count:    n,
		Mean:     stat.Mean(values, nil),
		Median:   quantile(sorted, 0.5),
		Variance: variance,
		StdDev:   std,
		SEM:      stat.StdErr(std, float64(n)),
	}, nil
}

// Summarize groups rows by key and describes each group's values.
// Groups are returned in ascending key order.
func Summarize[T any](rows []T, group func(T) string, value func(T) float64) ([]GroupSummary, error) {
	return SummarizeContext(context.Background(), rows, group, value, 1)
}

// SummarizeContext is Summarize with up to workers groups computed concurrently.
// Every group writes its own slot, so the result does not depend on scheduling.
func SummarizeContext[T any](ctx context.Context, rows []T, group func(T) string, value func(T) float64, workers int) ([]GroupSummary, error) {
	keys, values := groupValues(rows, group, value)
	out := make([]GroupSummary, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := Describe(k, values[k])
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LastTimepointPerEntity returns the greatest timepoint of each entity,
// ordered by entity id.
func LastTimepointPerEntity[T any](rows []T, entity func(T) string, timeOf func(T) int) []EntityTime {
	last := map[string]int{}
	for _, r := range rows {
		id, t := entity(r), timeOf(r)
		if cur, ok := last[id]; !ok || t > cur {
			last[id] = t
		}
	}
	out := make([]EntityTime, 0, len(last))
	for id, t := range last {
		out = append(out, EntityTime{MouseID: id, Timepoint: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MouseID < out[j].MouseID })
	return out
}

// CountBy counts rows per key, most frequent first (ties by key).
func CountBy[T any](rows []T, key func(T) string) []Count {
	m := map[string]int{}
	for _, r := range rows {
		m[key(r)]++
	}
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Value: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// MeanBy averages value per key, ordered by key.
func MeanBy[T any](rows []T, key func(T) string, value func(T) float64) ([]string, []float64) {
	keys, values := groupValues(rows, key, value)
	means := make([]float64, len(keys))
	for i, k := range keys {
		means[i] = stat.Mean(values[k], nil)
	}
	return keys, means
}

func groupValues[T any](rows []T, group func(T) string, value func(T) float64) ([]string, map[string][]float64) {
	values := map[string][]float64{}
	for _, r := range rows {
		k := group(r)
		values[k] = append(values[k], value(r))
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, values
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}
