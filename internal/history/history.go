package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/strrl/triage/internal/db"
)

// Record is one ledger row as read back from disk.
type Record struct {
	Name           string
	Age            float64
	Breathlessness bool
	Fatigue        bool
	Fever          bool
	Headache       bool
	Gender         int
	Cough          bool
	Diagnosis      string
}

type DiagnosisCount struct {
	Diagnosis string
	Count     int
}

// ErrNoLedger is returned when the ledger file is absent or empty.
var ErrNoLedger = errors.New("no encounters recorded")

// Reader queries a ledger file in place through DuckDB. Rows that do not
// parse as nine columns, such as names containing commas, are skipped.
type Reader struct {
	db   *sql.DB
	path string
}

func NewReader(path string) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoLedger
		}
		return nil, fmt.Errorf("failed to stat ledger: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrNoLedger
	}

	database, err := db.GetDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	return &Reader{
		db:   database,
		path: path,
	}, nil
}

func (r *Reader) source() string {
	return fmt.Sprintf(`read_csv(%s,
			header = true,
			delim = ',',
			all_varchar = true,
			ignore_errors = true
		)`, db.QuoteLiteral(r.path))
}

// Recent returns the last limit records in file order. A limit of zero or
// less returns every record.
func (r *Reader) Recent(limit int) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(Name, ''),
			COALESCE(Age, ''),
			COALESCE(Breathlessness, ''),
			COALESCE(Fatigue, ''),
			COALESCE(Fever, ''),
			COALESCE(Headache, ''),
			COALESCE(Gender, ''),
			COALESCE(Cough, ''),
			COALESCE(Diagnosis, '')
		FROM %s
	`, r.source())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var age, breathless, fatigue, fever, headache, gender, cough string

		if err := rows.Scan(&rec.Name, &age, &breathless, &fatigue, &fever, &headache, &gender, &cough, &rec.Diagnosis); err != nil {
			continue
		}

		rec.Age, _ = strconv.ParseFloat(age, 64)
		rec.Gender, _ = strconv.Atoi(gender)
		rec.Breathlessness = breathless == "1"
		rec.Fatigue = fatigue == "1"
		rec.Fever = fever == "1"
		rec.Headache = headache == "1"
		rec.Cough = cough == "1"

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	return records, nil
}

// DiagnosisCounts tallies encounters per diagnosis, most frequent first.
func (r *Reader) DiagnosisCounts() ([]DiagnosisCount, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(Diagnosis, '') AS diagnosis,
			COUNT(*) AS n
		FROM %s
		GROUP BY 1
		ORDER BY n DESC, diagnosis ASC
	`, r.source())

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to count diagnoses: %w", err)
	}
	defer rows.Close()

	var counts []DiagnosisCount
	for rows.Next() {
		var c DiagnosisCount
		if err := rows.Scan(&c.Diagnosis, &c.Count); err != nil {
			continue
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}
