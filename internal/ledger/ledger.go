package ledger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/strrl/triage/internal/clinical"
	"github.com/strrl/triage/internal/features"
)

const Header = "Name,Age,Breathlessness,Fatigue,Fever,Headache,Gender,Cough,Diagnosis"

// Columns lists the header fields in on-disk order.
var Columns = strings.Split(Header, ",")

// Ledger is an append-only CSV record of encounters. Existing lines are never
// rewritten; the header is written only when the file is absent or empty.
type Ledger struct {
	path string
}

func New(path string) *Ledger {
	return &Ledger{path: path}
}

func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) Append(e clinical.Encounter) error {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger %s: %w", l.path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat ledger %s: %w", l.path, err)
	}

	var sb strings.Builder
	if info.Size() == 0 {
		sb.WriteString(Header)
		sb.WriteString("\n")
	} else {
		// A store whose last line is unterminated gets a newline first so the
		// new row never joins it.
		last := make([]byte, 1)
		if _, err := file.ReadAt(last, info.Size()-1); err != nil {
			return fmt.Errorf("failed to read ledger %s: %w", l.path, err)
		}
		if last[0] != '\n' {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(FormatRow(e))
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to append to ledger %s: %w", l.path, err)
	}

	return file.Close()
}

// FormatRow renders one encounter without quoting, in Header order.
func FormatRow(e clinical.Encounter) string {
	a := e.Answers
	fields := []string{
		e.Name,
		features.FormatNumber(a.Age),
		strconv.Itoa(clinical.Flag(a.Breathlessness)),
		strconv.Itoa(clinical.Flag(a.Fatigue)),
		strconv.Itoa(clinical.Flag(a.Fever)),
		strconv.Itoa(clinical.Flag(a.Headache)),
		strconv.Itoa(int(a.Sex)),
		strconv.Itoa(clinical.Flag(a.Cough)),
		e.Diagnosis,
	}
	return strings.Join(fields, ",")
}
