package core

import (
	"testing"

	"github.com/gridsight/gridsight/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateColumnsAllPresent(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		schema.ColYear:         {2023, 2023},
		schema.ColHour:         {0, 1},
		schema.ColGenerationMW: {1.5, 2.5},
	})

	result := ValidateColumns(ds, []string{schema.ColYear, schema.ColHour, schema.ColGenerationMW})
	assert.True(t, result.OK)
	assert.Empty(t, result.Missing)
	assert.ElementsMatch(t, ds.Columns, result.Available)
}

func TestValidateColumnsReportsMissingInOrder(t *testing.T) {
	ds := makeDataset(map[string][]float64{
		schema.ColYear: {2023},
	})

	required := []string{schema.ColYear, schema.ColGenerationMW, schema.ColShortwaveRadiation}
	result := ValidateColumns(ds, required)
	assert.False(t, result.OK)
	assert.Equal(t, []string{schema.ColGenerationMW, schema.ColShortwaveRadiation}, result.Missing)
}

func TestValidateColumnsEmptyRequirement(t *testing.T) {
	ds := makeDataset(map[string][]float64{schema.ColYear: {2023}})
	result := ValidateColumns(ds, nil)
	assert.True(t, result.OK)
}
