package refrange

import "medscan/pkg/models"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// defaultRanges is the embedded reference table for common lab panels.
// Bounds follow widely published adult reference intervals; demographic
// variants cover the metrics where adult male/female intervals differ.
var defaultRanges = []models.ReferenceRange{
	{
		Metric: "HGB", Unit: "g/dL", Low: 13.5, High: 17.5,
		Variants: []models.RangeVariant{
			{Sex: "F", Low: floatPtr(12.0), High: floatPtr(15.5)},
		},
	},
	{
		Metric: "WBC", Unit: "K/uL", Low: 4.5, High: 11.0,
	},
	{
		Metric: "PLT", Unit: "K/uL", Low: 150, High: 450,
	},
	{
		Metric: "GLU", Unit: "mg/dL", Low: 70, High: 99,
	},
	{
		Metric: "HBA1C", Unit: "%", Low: 4.0, High: 5.6,
	},
	{
		Metric: "CHOL", Unit: "mg/dL", Low: 125, High: 200,
	},
	{
		Metric: "LDL", Unit: "mg/dL", Low: 50, High: 129,
	},
	{
		Metric: "HDL", Unit: "mg/dL", Low: 40, High: 90,
		Variants: []models.RangeVariant{
			{Sex: "F", Low: floatPtr(50)},
		},
	},
	{
		Metric: "TG", Unit: "mg/dL", Low: 40, High: 150,
	},
	{
		Metric: "CREA", Unit: "mg/dL", Low: 0.7, High: 1.3,
		Variants: []models.RangeVariant{
			{Sex: "F", Low: floatPtr(0.6), High: floatPtr(1.1)},
		},
	},
	{
		Metric: "TSH", Unit: "mIU/L", Low: 0.4, High: 4.0,
	},
	{
		Metric: "ESR", Unit: "mm/hr", Low: 0, High: 20,
		Variants: []models.RangeVariant{
			{Sex: "M", AgeMax: intPtr(50), High: floatPtr(15)},
		},
	},
	{
		Metric: "NA", Unit: "mmol/L", Low: 135, High: 145,
	},
	{
		Metric: "K", Unit: "mmol/L", Low: 3.5, High: 5.1,
	},
}
