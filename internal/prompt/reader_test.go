package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/triage/internal/clinical"
)

func newTestReader(input string) (*Reader, *bytes.Buffer) {
	var out bytes.Buffer
	return NewReader(strings.NewReader(input), &out), &out
}

func TestSymptom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
		retries  int
	}{
		{"yes", "yes\n", true, 0},
		{"no", "no\n", false, 0},
		{"mixed case", "YeS\n", true, 0},
		{"padded", "  No  \n", false, 0},
		{"retry then yes", "maybe\ny\n1\nyes\n", true, 3},
		{"retry then no", "true\nNO\n", false, 1},
		{"empty line rejected", "\nno\n", false, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, out := newTestReader(tc.input)

			got, err := r.Symptom("fever")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.retries, strings.Count(out.String(), "Invalid input! Please enter 'yes' or 'no'."))
			assert.Equal(t, tc.retries+1, strings.Count(out.String(), "Does the patient have fever? (yes/no): "))
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		retries  int
	}{
		{"integer", "34\n", 34, 0},
		{"fraction", "34.5\n", 34.5, 0},
		{"word then number", "thirty\n41\n", 41, 1},
		{"partial number rejected", "12abc\n7\n", 7, 1},
		{"nan rejected", "NaN\nInf\n3\n", 3, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, out := newTestReader(tc.input)

			got, err := r.Number("age")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.retries, strings.Count(out.String(), "Please enter a valid numeric value."))
		})
	}
}

func TestNumber_FailedAttemptDoesNotLeak(t *testing.T) {
	r, _ := newTestReader("12abc\n7\nyes\n")

	n, err := r.Number("age")
	require.NoError(t, err)
	assert.Equal(t, float64(7), n)

	sym, err := r.Symptom("cough")
	require.NoError(t, err)
	assert.True(t, sym)
}

func TestSex(t *testing.T) {
	r, out := newTestReader("woman\nFEMALE\nmale\n")

	s, err := r.Sex()
	require.NoError(t, err)
	assert.Equal(t, clinical.SexFemale, s)
	assert.Contains(t, out.String(), "Invalid input! Please enter 'male' or 'female'.")

	s, err = r.Sex()
	require.NoError(t, err)
	assert.Equal(t, clinical.SexMale, s)
}

func TestText_AcceptsAnyLine(t *testing.T) {
	r, out := newTestReader("Jane Doe\n")

	name, err := r.Text("patient's name")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)
	assert.Equal(t, "Enter the patient's name: ", out.String())
}

func TestLastLineWithoutNewline(t *testing.T) {
	r, _ := newTestReader("no")

	got, err := r.Symptom("fatigue")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestInputClosed(t *testing.T) {
	r, _ := newTestReader("maybe\n")

	_, err := r.Symptom("fever")
	require.ErrorIs(t, err, ErrInputClosed)
}

func TestAnswers(t *testing.T) {
	r, _ := newTestReader("34\nfemale\nyes\nno\nyes\nno\nno\n")

	a, err := r.Answers()
	require.NoError(t, err)
	assert.Equal(t, clinical.Answers{
		Age:      34,
		Sex:      clinical.SexFemale,
		Fever:    true,
		Headache: true,
	}, a)
}

func TestAnswers_StopsWhenInputEnds(t *testing.T) {
	r, _ := newTestReader("34\nfemale\nyes\n")

	_, err := r.Answers()
	require.ErrorIs(t, err, ErrInputClosed)
}
