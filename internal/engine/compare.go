package engine

import (
	"fmt"

	"github.com/avaneev/areafitter/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.FitSettings
}

// ComparisonResult holds the fit outcome and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.FitResult
	OK         bool
	ImagesUsed int
	TotalSize  int
	Quality    float64
}

// CompareScenarios runs the fitter for each scenario against its own copy of
// the areas and returns the results in scenario order. This enables
// side-by-side comparison of different budgets and sizing constraints.
func CompareScenarios(scenarios []ComparisonScenario, areas []model.FitArea) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		trial := append([]model.FitArea(nil), areas...)
		fitter := New(scenario.Settings)
		result, ok := fitter.Fit(trial, nil)

		cr := ComparisonResult{
			Scenario: scenario,
			Result:   result,
			OK:       ok,
		}
		if ok {
			cr.ImagesUsed = len(result.Images)
			cr.TotalSize = result.TotalSize()
			cr.Quality = result.Quality
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on the
// given settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.FitSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	// Scenario: quadruple the search budget
	bigBudget := base
	bigBudget.FitCallsLimit = base.FitCallsLimit * 4
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Budget x4 (%d calls)", bigBudget.FitCallsLimit),
		Settings: bigBudget,
	})

	// Scenario: one extra starting image
	extraImage := base
	extraImage.MinImageCount = base.MinImageCount + 1
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("%d Starting Images", extraImage.MinImageCount),
		Settings: extraImage,
	})

	// Scenario: lift the size cap if one is set
	if base.MaxImageSize > 0 {
		noCap := base
		noCap.MaxImageSize = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Unlimited Image Size",
			Settings: noCap,
		})
	}

	return scenarios
}
