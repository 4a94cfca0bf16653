package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// OutputHeader is the header of a normalized training dataset.
var OutputHeader = []string{"age", "gender", "fever", "cough", "headache", "fatigue", "breathlessness", "Diagnosis"}

const columnCount = 8

type Stats struct {
	Rows int
	// Unmapped counts categorical cells that were neither recognized label
	// and were coded as 0.
	Unmapped int
	// Blank counts empty input lines, which produce no output row.
	Blank int
}

type Normalizer struct {
	log *logrus.Entry
}

func NewNormalizer(log *logrus.Entry) *Normalizer {
	return &Normalizer{log: log}
}

// NormalizeFile reads a raw labeled CSV from inPath and writes its numeric
// form to outPath, replacing any existing file.
func (n *Normalizer) NormalizeFile(inPath, outPath string) (Stats, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open raw dataset: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create processed dataset: %w", err)
	}
	defer out.Close()

	stats, err := n.Normalize(in, out)
	if err != nil {
		return stats, err
	}

	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("failed to close processed dataset: %w", err)
	}
	return stats, nil
}

// Normalize skips the input header and recodes each row: Male/Female to 0/1
// and Yes/No to 1/0. Every non-blank input line produces exactly one output
// row; blank lines carry no record and are counted in Stats.Blank.
func (n *Normalizer) Normalize(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	writer := csv.NewWriter(w)
	if err := writer.Write(OutputHeader); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			continue
		}
		if strings.TrimSpace(line) == "" {
			stats.Blank++
			continue
		}

		row, err := parseLine(line)
		if err != nil {
			return stats, fmt.Errorf("failed to parse raw dataset line %d: %w", lineNo, err)
		}

		for len(row) < columnCount {
			row = append(row, "")
		}

		out := make([]string, columnCount)
		out[0] = strings.TrimSpace(row[0])
		out[1] = n.code(&stats, row[1], "Female", "Male")
		for i := 2; i < 7; i++ {
			out[i] = n.code(&stats, row[i], "Yes", "No")
		}
		out[7] = strings.TrimSpace(row[7])

		if err := writer.Write(out); err != nil {
			return stats, fmt.Errorf("failed to write row: %w", err)
		}
		stats.Rows++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read raw dataset: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, fmt.Errorf("failed to flush processed dataset: %w", err)
	}

	if stats.Unmapped > 0 {
		n.log.WithField("cells", stats.Unmapped).Warn("unrecognized categorical values coded as 0")
	}
	if stats.Blank > 0 {
		n.log.WithField("lines", stats.Blank).Warn("blank lines in raw dataset skipped")
	}

	return stats, nil
}

func parseLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	return reader.Read()
}

func (n *Normalizer) code(stats *Stats, value, one, zero string) string {
	v := strings.TrimSpace(value)
	switch {
	case strings.EqualFold(v, one):
		return "1"
	case strings.EqualFold(v, zero):
		return "0"
	}
	stats.Unmapped++
	return "0"
}
