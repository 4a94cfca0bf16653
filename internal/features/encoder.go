package features

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/strrl/triage/internal/clinical"
)

// Encode lays out the answers in model slot order:
// age, gender, fever, cough, headache, fatigue, breathlessness.
func Encode(a clinical.Answers) clinical.FeatureVector {
	return clinical.FeatureVector{
		a.Age,
		float64(a.Sex),
		float64(clinical.Flag(a.Fever)),
		float64(clinical.Flag(a.Cough)),
		float64(clinical.Flag(a.Headache)),
		float64(clinical.Flag(a.Fatigue)),
		float64(clinical.Flag(a.Breathlessness)),
	}
}

// Format renders the vector as the single bracketed line the model reads.
func Format(v clinical.FeatureVector) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = FormatNumber(x)
	}
	return "[" + strings.Join(parts, ", ") + "]\n"
}

// FormatNumber renders x in shortest round-trip form, so 34 prints as "34".
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Path() string {
	return w.path
}

// Write replaces the feature file with the encoded vector.
func (w *Writer) Write(v clinical.FeatureVector) error {
	if err := os.WriteFile(w.path, []byte(Format(v)), 0644); err != nil {
		return fmt.Errorf("failed to write feature file %s: %w", w.path, err)
	}
	return nil
}
