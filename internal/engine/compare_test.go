package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaneev/areafitter/internal/model"
)

func TestCompareScenarios_RunsAllScenarios(t *testing.T) {
	areas := []model.FitArea{
		model.NewFitArea("a", 50, 30),
		model.NewFitArea("b", 40, 40),
		model.NewFitArea("c", 20, 60),
	}
	scenarios := []ComparisonScenario{
		{Name: "tight", Settings: model.FitSettings{
			MaxImageWidth: 128, MaxImageHeight: 128, MinImageCount: 1, FitCallsLimit: 2000,
		}},
		{Name: "roomy", Settings: model.FitSettings{
			MaxImageWidth: 512, MaxImageHeight: 512, MinImageCount: 1, FitCallsLimit: 2000,
		}},
	}

	results := CompareScenarios(scenarios, areas)

	require.Len(t, results, 2)
	for _, r := range results {
		require.True(t, r.OK, "scenario %q should fit", r.Scenario.Name)
		assert.Greater(t, r.TotalSize, 0)
		assert.Greater(t, r.Quality, 0.0)
		assert.GreaterOrEqual(t, r.ImagesUsed, 1)
	}

	// The input order must survive scenario trials untouched.
	assert.Equal(t, "a", areas[0].Label)
}

func TestCompareScenarios_FailedScenarioReportsNotOK(t *testing.T) {
	areas := []model.FitArea{
		model.NewFitArea("a", 50, 30),
		model.NewFitArea("b", 40, 40),
		model.NewFitArea("c", 20, 60),
	}
	scenarios := []ComparisonScenario{
		{Name: "starved", Settings: model.FitSettings{
			MaxImageWidth: 128, MaxImageHeight: 128, MinImageCount: 1, FitCallsLimit: 1,
		}},
	}

	results := CompareScenarios(scenarios, areas)

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Zero(t, results[0].TotalSize)
}

func TestBuildDefaultScenarios(t *testing.T) {
	base := model.DefaultSettings()
	scenarios := BuildDefaultScenarios(base)

	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, base.FitCallsLimit*4, scenarios[1].Settings.FitCallsLimit)
	assert.Equal(t, base.MinImageCount+1, scenarios[2].Settings.MinImageCount)

	// A size cap adds the uncapped variant.
	capped := base
	capped.MaxImageSize = 4096
	scenarios = BuildDefaultScenarios(capped)
	require.Len(t, scenarios, 4)
	assert.Zero(t, scenarios[3].Settings.MaxImageSize)
}
