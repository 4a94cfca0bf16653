package clinical

import (
	"time"

	"github.com/google/uuid"
)

// UnknownDiagnosis is recorded whenever no prediction could be obtained.
const UnknownDiagnosis = "Unknown Diagnosis"

type Sex int

const (
	SexMale   Sex = 0
	SexFemale Sex = 1
)

func (s Sex) String() string {
	if s == SexFemale {
		return "female"
	}
	return "male"
}

// Answers holds one validated response per clinical question.
type Answers struct {
	Age            float64
	Sex            Sex
	Fever          bool
	Cough          bool
	Headache       bool
	Fatigue        bool
	Breathlessness bool
}

const FeatureCount = 7

// FeatureNames is the slot order the diagnostic model was trained on.
var FeatureNames = [FeatureCount]string{
	"age",
	"gender",
	"fever",
	"cough",
	"headache",
	"fatigue",
	"breathlessness",
}

type FeatureVector [FeatureCount]float64

type Encounter struct {
	ID         uuid.UUID
	Name       string
	Answers    Answers
	Features   FeatureVector
	Diagnosis  string
	Medication string
	RecordedAt time.Time
}

// Flag converts a symptom answer to its numeric code.
func Flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
