package render

import (
	"testing"

	"github.com/KaramelBytes/pymaceuticals-cli/internal/analysis"
	"github.com/google/go-cmp/cmp"
)

var capomulinFinal = []float64{38.1, 41.5, 23.3, 32.4, 38.8, 40.2, 36.0}

func TestBoxForUsesMultiplier(t *testing.T) {
	reg := analysis.RegimenOutliers{Regimen: "Capomulin", Volumes: capomulinFinal}

	b, err := boxFor(reg, 1.5)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if diff := cmp.Diff([]float64{23.3}, b.fliers); diff != "" {
		t.Fatalf("fliers at k=1.5 mismatch (-want +got):\n%s", diff)
	}
	if b.wLo != 32.4 || b.wHi != 41.5 {
		t.Fatalf("unexpected whiskers [%v, %v]", b.wLo, b.wHi)
	}

	// Q1 34.2, Q3 39.5: with k=3 the lower fence is 18.3
	b, err = boxFor(reg, 3)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if len(b.fliers) != 0 || b.wLo != 23.3 {
		t.Fatalf("expected no fliers at k=3, got %v (low whisker %v)", b.fliers, b.wLo)
	}
}

func TestBoxForMatchesReportFences(t *testing.T) {
	// population fences from the report win over the regimen's own quartiles
	reg := analysis.RegimenOutliers{Regimen: "Capomulin", Volumes: capomulinFinal, Lower: 35, Upper: 41}
	b, err := boxFor(reg, 3)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	if diff := cmp.Diff([]float64{41.5, 23.3, 32.4}, b.fliers); diff != "" {
		t.Fatalf("fliers mismatch (-want +got):\n%s", diff)
	}
	if b.q.Q1 == 35 || b.q.Q3 == 41 {
		t.Fatalf("box must keep the regimen's own quartiles, got %+v", b.q)
	}
}

func TestBoxFliersAgreeWithAnalysis(t *testing.T) {
	q, err := analysis.Quartiles(capomulinFinal)
	if err != nil {
		t.Fatalf("quartiles: %v", err)
	}
	for _, k := range []float64{1.5, 3} {
		lo, hi := analysis.BoundsK(q.Q1, q.Q3, k)
		reg := analysis.RegimenOutliers{Volumes: capomulinFinal, Quartiles: q, Lower: lo, Upper: hi}
		b, err := boxFor(reg, k)
		if err != nil {
			t.Fatalf("box: %v", err)
		}
		if diff := cmp.Diff(analysis.Detect(capomulinFinal, lo, hi), b.fliers); diff != "" {
			t.Fatalf("k=%v: chart fliers differ from report outliers (-report +chart):\n%s", k, diff)
		}
	}
}
