package recommend

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	if w.CBF != 0.5 || w.CF != 0.3 || w.Popularity != 0.2 {
		t.Errorf("defaults = %+v, want 0.5/0.3/0.2", w)
	}
	if w.Threshold != 0.6 {
		t.Errorf("default threshold = %f, want 0.6", w.Threshold)
	}
}

func TestMergeCalibrationPartial(t *testing.T) {
	merged := MergeCalibration(DefaultWeights(), &Weights{CF: 0.4, Threshold: 0.5})
	if merged.CBF != 0.5 {
		t.Errorf("cbf = %f, want untouched default 0.5", merged.CBF)
	}
	if merged.CF != 0.4 {
		t.Errorf("cf = %f, want override 0.4", merged.CF)
	}
	if merged.Popularity != 0.2 {
		t.Errorf("popularity = %f, want untouched default 0.2", merged.Popularity)
	}
	if merged.Threshold != 0.5 {
		t.Errorf("threshold = %f, want override 0.5", merged.Threshold)
	}
}

func TestMergeCalibrationNilOverride(t *testing.T) {
	base := &Weights{CBF: 0.7, CF: 0.2, Popularity: 0.1, Threshold: 0.3}
	merged := MergeCalibration(base, nil)
	if *merged != *base {
		t.Errorf("merged = %+v, want copy of base %+v", merged, base)
	}
	merged.CBF = 0.9
	if base.CBF != 0.7 {
		t.Error("merge must not alias the base weights")
	}
}

func TestLoadCalibrationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	payload := `{"version":"1","weights":{"cbf":0.6,"popularity":0.1}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := LoadCalibration(path)
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	if w.CBF != 0.6 {
		t.Errorf("cbf = %f, want 0.6", w.CBF)
	}
	if w.Popularity != 0.1 {
		t.Errorf("popularity = %f, want 0.1", w.Popularity)
	}
	if w.CF != 0.3 || w.Threshold != 0.6 {
		t.Errorf("unlisted weights = %+v, want defaults", w)
	}
}

func TestLoadCalibrationEmptyPath(t *testing.T) {
	w, err := LoadCalibration("")
	if err != nil {
		t.Fatalf("LoadCalibration: %v", err)
	}
	if *w != *DefaultWeights() {
		t.Errorf("weights = %+v, want defaults", w)
	}
}

func TestLoadCalibrationMissingFile(t *testing.T) {
	w, err := LoadCalibration(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if *w != *DefaultWeights() {
		t.Errorf("weights after failed load = %+v, want defaults", w)
	}
}

func TestLoadCalibrationMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calibration.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	w, err := LoadCalibration(path)
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if *w != *DefaultWeights() {
		t.Errorf("weights after failed parse = %+v, want defaults", w)
	}
}
