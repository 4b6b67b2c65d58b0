package analysis_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type sample struct {
	group string
	value float64
}

func groupOf(s sample) string  { return s.group }
func valueOf(s sample) float64 { return s.value }

func TestDescribe(t *testing.T) {
	got, err := analysis.Describe("A", []float64{55, 45, 50})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := analysis.GroupSummary{
		Group:    "A",
		Count:    3,
		Mean:     50,
		Median:   50,
		Variance: 25,
		StdDev:   5,
		SEM:      5 / math.Sqrt(3),
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeEvenMedianInterpolates(t *testing.T) {
	got, err := analysis.Describe("A", []float64{4, 1, 3, 2})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if got.Median != 2.5 {
		t.Fatalf("expected median 2.5, got %v", got.Median)
	}
}

func TestDescribeErrors(t *testing.T) {
	_, err := analysis.Describe("empty", nil)
	var eg *analysis.EmptyGroupError
	if !errors.As(err, &eg) || eg.Group != "empty" {
		t.Fatalf("expected EmptyGroupError, got %v", err)
	}
	_, err = analysis.Describe("one", []float64{42})
	var ie *analysis.InsufficientDataError
	if !errors.As(err, &ie) || ie.Got != 1 || ie.Need != 2 {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestSummarizeOrderAndIdempotence(t *testing.T) {
	rows := []sample{
		{"Ramicane", 40}, {"Capomulin", 45}, {"Ramicane", 42},
		{"Capomulin", 50}, {"Capomulin", 55}, {"Ramicane", 44},
	}
	first, err := analysis.Summarize(rows, groupOf, valueOf)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(first) != 2 || first[0].Group != "Capomulin" || first[1].Group != "Ramicane" {
		t.Fatalf("expected groups in ascending order, got %+v", first)
	}
	if first[0].Mean != 50 || first[1].Mean != 42 {
		t.Fatalf("unexpected means: %v %v", first[0].Mean, first[1].Mean)
	}
	second, err := analysis.Summarize(rows, groupOf, valueOf)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("summarize not idempotent (-first +second):\n%s", diff)
	}
}

func TestSummarizeIndependentOfRowOrderAndWorkers(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var rows []sample
	for _, g := range []string{"A", "B", "C", "D", "E"} {
		for i := 0; i < 25; i++ {
			rows = append(rows, sample{group: g, value: 30 + r.Float64()*30})
		}
	}
	want, err := analysis.Summarize(rows, groupOf, valueOf)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	shuffled := append([]sample(nil), rows...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	got, err := analysis.SummarizeContext(context.Background(), shuffled, groupOf, valueOf, 8)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("summary depends on order (-want +got):\n%s", diff)
	}
}

func TestSummarizeSurfacesGroupError(t *testing.T) {
	rows := []sample{{"A", 1}, {"A", 2}, {"B", 3}}
	_, err := analysis.SummarizeContext(context.Background(), rows, groupOf, valueOf, 2)
	var ie *analysis.InsufficientDataError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InsufficientDataError for single-row group, got %v", err)
	}
}

func TestSummarizeHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rows := []sample{{"A", 1}, {"A", 2}}
	if _, err := analysis.SummarizeContext(ctx, rows, groupOf, valueOf, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCountBy(t *testing.T) {
	rows := []sample{{"b", 0}, {"a", 0}, {"c", 0}, {"c", 0}, {"b", 0}, {"c", 0}}
	got := analysis.CountBy(rows, groupOf)
	want := []analysis.Count{{Value: "c", Count: 3}, {Value: "b", Count: 2}, {Value: "a", Count: 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
}

func TestMeanBy(t *testing.T) {
	rows := []sample{{"y", 2}, {"x", 1}, {"y", 4}, {"x", 3}}
	keys, means := analysis.MeanBy(rows, groupOf, valueOf)
	if diff := cmp.Diff([]string{"x", "y"}, keys); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 3}, means); diff != "" {
		t.Fatalf("means mismatch (-want +got):\n%s", diff)
	}
}

func TestLastTimepointPerEntity(t *testing.T) {
	rows := analysis.Merge(studyFixture().Observations, nil)
	got := analysis.LastTimepointPerEntity(rows, analysis.MouseID, func(r study.CombinedRow) int { return r.Timepoint })
	want := []analysis.EntityTime{
		{MouseID: "c1", Timepoint: 10},
		{MouseID: "c2", Timepoint: 5},
		{MouseID: "c3", Timepoint: 10},
		{MouseID: "g989", Timepoint: 5},
		{MouseID: "r1", Timepoint: 5},
		{MouseID: "r2", Timepoint: 5},
		{MouseID: "u1", Timepoint: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("last timepoints mismatch (-want +got):\n%s", diff)
	}
}
