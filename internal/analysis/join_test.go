package analysis_test

import (
	"testing"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/KaramelBytes/pymaceuticals-cli/internal/study"
	"github.com/google/go-cmp/cmp"
)

func TestMergeKeepsEveryObservation(t *testing.T) {
	ds := studyFixture()
	rows := analysis.Merge(ds.Observations, ds.Mice)
	if len(rows) != len(ds.Observations) {
		t.Fatalf("expected %d rows, got %d", len(ds.Observations), len(rows))
	}
	for i, r := range rows {
		if r.Observation != ds.Observations[i] {
			t.Fatalf("row %d reordered: %+v", i, r.Observation)
		}
	}
	if rows[0].Metadata == nil || rows[0].Metadata.Regimen != "Capomulin" || rows[0].Metadata.WeightGrams != 20 {
		t.Fatalf("metadata not attached: %+v", rows[0].Metadata)
	}
	last := rows[len(rows)-1]
	if last.MouseID != "u1" || last.Metadata != nil || last.Regimen() != "" {
		t.Fatalf("expected u1 without metadata, got %+v", last)
	}
	if _, ok := last.Weight(); ok {
		t.Fatalf("weight should be unknown without metadata")
	}
}

func TestMergeFirstMetadataRecordWins(t *testing.T) {
	obs := []study.Observation{{MouseID: "a", Timepoint: 0, TumorVolume: 45}}
	mice := []study.MouseRecord{
		{MouseID: "a", Regimen: "Capomulin"},
		{MouseID: "a", Regimen: "Placebo"},
	}
	rows := analysis.Merge(obs, mice)
	if rows[0].Regimen() != "Capomulin" {
		t.Fatalf("expected first record to win, got %q", rows[0].Regimen())
	}
}

func TestFindDuplicateKeys(t *testing.T) {
	rows := analysis.Merge(studyFixture().Observations, nil)
	got := analysis.FindDuplicateKeys(rows, analysis.ObservationKey, analysis.MouseID)
	if diff := cmp.Diff([]string{"g989"}, got); diff != "" {
		t.Fatalf("duplicates mismatch (-want +got):\n%s", diff)
	}
	if got := analysis.FindDuplicateKeys(rows[:12], analysis.ObservationKey, analysis.MouseID); len(got) != 0 {
		t.Fatalf("expected no duplicates, got %v", got)
	}
}

func TestExcludeDropsAllRowsOfEntity(t *testing.T) {
	rows := analysis.Merge(studyFixture().Observations, nil)
	clean := analysis.Exclude(rows, analysis.MouseID, []string{"g989"})
	if len(clean) != len(rows)-3 {
		t.Fatalf("expected 3 rows dropped, got %d of %d kept", len(clean), len(rows))
	}
	for _, r := range clean {
		if r.MouseID == "g989" {
			t.Fatalf("g989 row survived: %+v", r)
		}
	}
	// the timepoint 5 row of g989 is not itself a duplicate but goes too
	if dropped := analysis.Select(rows, analysis.MouseID, []string{"g989"}); len(dropped) != 3 {
		t.Fatalf("expected 3 g989 rows, got %d", len(dropped))
	}
	if n := analysis.CountDistinct(clean, analysis.MouseID); n != 6 {
		t.Fatalf("expected 6 distinct mice, got %d", n)
	}
}

func TestMergeFinalRightJoin(t *testing.T) {
	rows := analysis.Merge(studyFixture().Observations, studyFixture().Mice)
	keys := []analysis.EntityTime{
		{MouseID: "c3", Timepoint: 10},
		{MouseID: "c1", Timepoint: 10},
		{MouseID: "zz", Timepoint: 5},
	}
	final := analysis.MergeFinal(rows, keys)
	if len(final) != 3 {
		t.Fatalf("expected one row per key, got %d", len(final))
	}
	if final[0].TumorVolume != 48 || final[1].TumorVolume != 38 {
		t.Fatalf("unexpected final volumes: %v, %v", final[0].TumorVolume, final[1].TumorVolume)
	}
	if !final[0].Matched || final[2].Matched {
		t.Fatalf("unexpected matched flags: %v %v", final[0].Matched, final[2].Matched)
	}
	if final[2].MouseID != "zz" || final[2].Timepoint != 5 || final[2].Metadata != nil {
		t.Fatalf("unexpected placeholder row: %+v", final[2])
	}
}
