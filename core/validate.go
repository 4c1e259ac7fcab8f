package core

import "github.com/gridsight/gridsight/schema"

// ValidateColumns checks a dataset against an ordered required-column set.
// It never fails: absent columns come back in the Missing list, in the
// requirement order, so the caller can degrade to an explanatory message
// instead of crashing when a site lacks optional source columns.
func ValidateColumns(ds *schema.Dataset, required []string) schema.ValidationResult {
	result := schema.ValidationResult{
		Available: append([]string(nil), ds.Columns...),
	}
	for _, col := range required {
		if !ds.HasColumn(col) {
			result.Missing = append(result.Missing, col)
		}
	}
	result.OK = len(result.Missing) == 0
	return result
}
