package queue

// CrowdLevel is a three-band severity classification of a waiting count.
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
)

// Color returns the dashboard color code for the level.
func (l CrowdLevel) Color() string {
	switch l {
	case CrowdLow:
		return "success"
	case CrowdModerate:
		return "warning"
	default:
		return "danger"
	}
}

// Thresholds holds the inclusive upper bounds of the low and moderate
// bands. Anything above ModerateMax classifies as high.
type Thresholds struct {
	LowMax      int
	ModerateMax int
}

// Classify maps a waiting count to a crowd level.
func Classify(count int, t Thresholds) CrowdLevel {
	switch {
	case count <= t.LowMax:
		return CrowdLow
	case count <= t.ModerateMax:
		return CrowdModerate
	default:
		return CrowdHigh
	}
}
