package weather

// RainfallLevel is a coarse rainfall-likelihood category.
type RainfallLevel string

const (
	RainfallLow      RainfallLevel = "Low"
	RainfallModerate RainfallLevel = "Moderate"
	RainfallHigh     RainfallLevel = "High"
)

// Message renders the user-facing prediction string.
func (l RainfallLevel) Message() string {
	return string(l) + " chance of rainfall"
}

// ManualReading is a set of manually entered atmospheric values. Absent
// fields score as zero.
type ManualReading struct {
	Humidity    float64
	Pressure    float64
	Temperature float64
	Cloud       float64
	Wind        float64
}

// PredictRainfall scores a manual reading into a rainfall level. The weights
// and thresholds are fixed; temperature does not contribute to the score.
func PredictRainfall(r ManualReading) RainfallLevel {
	score := r.Humidity*0.4 + r.Cloud*0.3 - r.Pressure*0.1 + r.Wind*0.2

	switch {
	case score > 120:
		return RainfallHigh
	case score > 80:
		return RainfallModerate
	default:
		return RainfallLow
	}
}
