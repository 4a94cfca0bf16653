package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/strrl/triage/internal/clinical"
)

// ErrInputClosed is returned when the operator's input ends before a valid
// answer was read.
var ErrInputClosed = errors.New("operator input closed")

// Reader asks the operator one question at a time and re-prompts until the
// answer validates.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Text reads one free-form line.
func (r *Reader) Text(label string) (string, error) {
	return ask(r, fmt.Sprintf("Enter the %s: ", label), "", func(s string) (string, bool) {
		return s, true
	})
}

// Number reads a finite real number.
func (r *Reader) Number(label string) (float64, error) {
	return ask(r,
		fmt.Sprintf("Enter the value for %s: ", label),
		"Invalid input! Please enter a valid numeric value.",
		parseNumber,
	)
}

// Symptom reads a yes/no answer for the named symptom.
func (r *Reader) Symptom(label string) (bool, error) {
	return ask(r,
		fmt.Sprintf("Does the patient have %s? (yes/no): ", label),
		"Invalid input! Please enter 'yes' or 'no'.",
		parseYesNo,
	)
}

// Sex reads the binary sex code.
func (r *Reader) Sex() (clinical.Sex, error) {
	return ask(r,
		"Enter the gender (male/female): ",
		"Invalid input! Please enter 'male' or 'female'.",
		parseSex,
	)
}

// Answers collects the full clinical question set in model order.
func (r *Reader) Answers() (clinical.Answers, error) {
	var (
		a   clinical.Answers
		err error
	)

	if a.Age, err = r.Number("age"); err != nil {
		return a, err
	}
	if a.Sex, err = r.Sex(); err != nil {
		return a, err
	}

	symptoms := []struct {
		label string
		dst   *bool
	}{
		{"fever", &a.Fever},
		{"cough", &a.Cough},
		{"headache", &a.Headache},
		{"fatigue", &a.Fatigue},
		{"breathlessness", &a.Breathlessness},
	}
	for _, s := range symptoms {
		if *s.dst, err = r.Symptom(s.label); err != nil {
			return a, err
		}
	}

	return a, nil
}

func ask[T any](r *Reader, question, invalid string, parse func(string) (T, bool)) (T, error) {
	var zero T
	for {
		fmt.Fprint(r.out, question)

		line, err := r.readLine()
		if err != nil {
			return zero, err
		}

		if v, ok := parse(line); ok {
			return v, nil
		}
		fmt.Fprintln(r.out, invalid)
	}
}

func (r *Reader) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("failed to read operator input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseYesNo(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	return false, false
}

func parseSex(s string) (clinical.Sex, bool) {
	switch strings.ToLower(s) {
	case "male":
		return clinical.SexMale, true
	case "female":
		return clinical.SexFemale, true
	}
	return 0, false
}
