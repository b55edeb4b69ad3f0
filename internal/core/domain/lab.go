package domain

import (
	"strconv"
	"strings"
)

// TestParameter is one row of a lab result being recorded.
type TestParameter struct {
	Name           string `json:"name"            validate:"required"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
}

// ResultValue is the stored form of a parameter. Value is a float64 when the
// entered text is numeric, otherwise the text itself.
type ResultValue struct {
	Value          any    `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"reference_range"`
}

// TestTemplate pre-fills the parameters of a common test type.
type TestTemplate struct {
	Name       string          `json:"name"`
	Parameters []TestParameter `json:"parameters"`
}

// TestTemplates are the predefined result layouts, keyed by test type.
var TestTemplates = []TestTemplate{
	{Name: "Complete Blood Count", Parameters: []TestParameter{
		{Name: "Hemoglobin", Unit: "g/dL", ReferenceRange: "13.5-17.5"},
		{Name: "White Blood Cells", Unit: "x10^3/uL", ReferenceRange: "4.0-11.0"},
		{Name: "Platelets", Unit: "x10^3/uL", ReferenceRange: "150-400"},
		{Name: "Red Blood Cells", Unit: "x10^6/uL", ReferenceRange: "4.5-5.9"},
		{Name: "Hematocrit", Unit: "%", ReferenceRange: "41-50"},
	}},
	{Name: "Lipid Panel", Parameters: []TestParameter{
		{Name: "Total Cholesterol", Unit: "mg/dL", ReferenceRange: "<200"},
		{Name: "LDL Cholesterol", Unit: "mg/dL", ReferenceRange: "<100"},
		{Name: "HDL Cholesterol", Unit: "mg/dL", ReferenceRange: ">40"},
		{Name: "Triglycerides", Unit: "mg/dL", ReferenceRange: "<150"},
	}},
	{Name: "Basic Metabolic Panel", Parameters: []TestParameter{
		{Name: "Glucose", Unit: "mg/dL", ReferenceRange: "70-99"},
		{Name: "Calcium", Unit: "mg/dL", ReferenceRange: "8.5-10.5"},
		{Name: "Sodium", Unit: "mmol/L", ReferenceRange: "135-145"},
		{Name: "Potassium", Unit: "mmol/L", ReferenceRange: "3.5-5.0"},
		{Name: "CO2", Unit: "mmol/L", ReferenceRange: "23-29"},
		{Name: "Chloride", Unit: "mmol/L", ReferenceRange: "96-106"},
		{Name: "BUN", Unit: "mg/dL", ReferenceRange: "7-20"},
		{Name: "Creatinine", Unit: "mg/dL", ReferenceRange: "0.6-1.2"},
	}},
	{Name: "Liver Function Tests", Parameters: []TestParameter{
		{Name: "ALT", Unit: "U/L", ReferenceRange: "7-56"},
		{Name: "AST", Unit: "U/L", ReferenceRange: "5-40"},
		{Name: "ALP", Unit: "U/L", ReferenceRange: "44-147"},
		{Name: "Total Bilirubin", Unit: "mg/dL", ReferenceRange: "0.1-1.2"},
		{Name: "Albumin", Unit: "g/dL", ReferenceRange: "3.4-5.4"},
	}},
}

// FindTestTemplate returns the template for testType, if one exists.
func FindTestTemplate(testType string) (TestTemplate, bool) {
	for _, t := range TestTemplates {
		if t.Name == testType {
			return t, true
		}
	}
	return TestTemplate{}, false
}

// BuildResultData converts entered parameters into the result_data map.
// At least one parameter is required and every value must be filled in.
func BuildResultData(params []TestParameter) (map[string]ResultValue, error) {
	if len(params) == 0 {
		return nil, ErrMissingParameters
	}
	out := make(map[string]ResultValue, len(params))
	for _, p := range params {
		raw := strings.TrimSpace(p.Value)
		if raw == "" {
			return nil, ErrMissingValues
		}
		var v any = raw
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			v = f
		}
		out[p.Name] = ResultValue{Value: v, Unit: p.Unit, ReferenceRange: p.ReferenceRange}
	}
	return out, nil
}
