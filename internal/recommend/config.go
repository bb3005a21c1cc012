package recommend

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Weights holds the fusion weight configuration and the retention threshold.
type Weights struct {
	CBF        float64 `json:"cbf"`        // Weight for content-based similarity (default: 0.5)
	CF         float64 `json:"cf"`         // Weight for collaborative signal (default: 0.3)
	Popularity float64 `json:"popularity"` // Weight for global popularity (default: 0.2)
	Threshold  float64 `json:"threshold"`  // Minimum fused score to retain an item (default: 0.6)
}

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight configuration
}

// DefaultWeights returns the default fusion configuration.
//
// Fusion formula: fused = (cbf * 0.5) + (cf * 0.3) + (popularity * 0.2),
// retained only when fused > 0.6. The threshold deliberately trades recall
// for precision; a page can be short or empty when few items clear it.
func DefaultWeights() *Weights {
	return &Weights{
		CBF:        0.5,
		CF:         0.3,
		Popularity: 0.2,
		Threshold:  0.6,
	}
}

// LoadCalibration loads fusion weights from a JSON calibration file.
// An empty path means defaults. On read or parse errors the defaults are
// returned together with the error so callers can degrade gracefully.
// Partial configurations are merged with defaults.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read recommendation calibration, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse recommendation calibration, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	defaults := DefaultWeights()
	merged := MergeCalibration(defaults, &config.Weights)
	logCalibrationOverrides(defaults, merged)

	return merged, nil
}

// MergeCalibration merges override weights into base weights. Only non-zero
// override values are applied, which allows partial calibration files.
func MergeCalibration(base *Weights, override *Weights) *Weights {
	if base == nil {
		return DefaultWeights()
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.CBF != 0 {
		result.CBF = override.CBF
	}
	if override.CF != 0 {
		result.CF = override.CF
	}
	if override.Popularity != 0 {
		result.Popularity = override.Popularity
	}
	if override.Threshold != 0 {
		result.Threshold = override.Threshold
	}

	return &result
}

// logCalibrationOverrides logs which weights were overridden from defaults.
func logCalibrationOverrides(defaults *Weights, loaded *Weights) {
	var overrides []string

	if loaded.CBF != defaults.CBF {
		overrides = append(overrides, fmt.Sprintf("cbf: %.2f -> %.2f", defaults.CBF, loaded.CBF))
	}
	if loaded.CF != defaults.CF {
		overrides = append(overrides, fmt.Sprintf("cf: %.2f -> %.2f", defaults.CF, loaded.CF))
	}
	if loaded.Popularity != defaults.Popularity {
		overrides = append(overrides, fmt.Sprintf("popularity: %.2f -> %.2f", defaults.Popularity, loaded.Popularity))
	}
	if loaded.Threshold != defaults.Threshold {
		overrides = append(overrides, fmt.Sprintf("threshold: %.2f -> %.2f", defaults.Threshold, loaded.Threshold))
	}

	if len(overrides) > 0 {
		slog.Info("loaded recommendation calibration with overrides",
			"overrides", overrides)
	} else {
		slog.Info("loaded recommendation calibration (using all defaults)")
	}
}
