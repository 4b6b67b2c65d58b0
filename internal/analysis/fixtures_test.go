package analysis_test

import "github.com/KaramelBytes/pymaceuticals-cli/internal/study"

// studyFixture is a small study with one duplicate mouse (g989) and one
// observation (u1) that has no metadata row.
func studyFixture() *study.Dataset {
	return &study.Dataset{
		Mice: []study.MouseRecord{
			{MouseID: "c1", Regimen: "Capomulin", Sex: study.Male, AgeMonths: 10, WeightGrams: 20},
			{MouseID: "c2", Regimen: "Capomulin", Sex: study.Female, AgeMonths: 12, WeightGrams: 22},
			{MouseID: "c3", Regimen: "Capomulin", Sex: study.Male, AgeMonths: 9, WeightGrams: 24},
			{MouseID: "r1", Regimen: "Ramicane", Sex: study.Female, AgeMonths: 8, WeightGrams: 18},
			{MouseID: "r2", Regimen: "Ramicane", Sex: study.Male, AgeMonths: 7, WeightGrams: 19},
			{MouseID: "g989", Regimen: "Propriva", Sex: study.Female, AgeMonths: 21, WeightGrams: 26},
		},
		Observations: []study.Observation{
			{MouseID: "c1", Timepoint: 0, TumorVolume: 45},
			{MouseID: "c1", Timepoint: 5, TumorVolume: 40},
			{MouseID: "c1", Timepoint: 10, TumorVolume: 38},
			{MouseID: "c2", Timepoint: 0, TumorVolume: 45},
			{MouseID: "c2", Timepoint: 5, TumorVolume: 44},
			{MouseID: "c3", Timepoint: 10, TumorVolume: 48},
			{MouseID: "c3", Timepoint: 0, TumorVolume: 45},
			{MouseID: "c3", Timepoint: 5, TumorVolume: 47},
			{MouseID: "r1", Timepoint: 0, TumorVolume: 45},
			{MouseID: "r1", Timepoint: 5, TumorVolume: 35},
			{MouseID: "r2", Timepoint: 0, TumorVolume: 45},
			{MouseID: "r2", Timepoint: 5, TumorVolume: 36},
			{MouseID: "g989", Timepoint: 0, TumorVolume: 45},
			{MouseID: "g989", Timepoint: 0, TumorVolume: 46},
			{MouseID: "g989", Timepoint: 5, TumorVolume: 47},
			{MouseID: "u1", Timepoint: 0, TumorVolume: 45},
		},
		MiceSource:    "mouse_metadata.csv",
		ResultsSource: "study_results.csv",
	}
}
