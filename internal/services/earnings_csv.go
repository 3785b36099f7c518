package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
)

// Column aliases for the platform report exports, Portuguese first.
var (
	boltDriverColumns = []string{"Motorista", "Driver"}
	boltGrossColumns  = []string{"Ganhos brutos (total)|€", "Gross earnings|€"}
	boltNetColumns    = []string{"Ganhos líquidos|€", "Net earnings|€"}

	uberFirstNameColumns = []string{"Nome próprio do motorista", "Driver First Name"}
	uberLastNameColumns  = []string{"Apelido do motorista", "Driver Last Name"}
	uberGrossColumns     = []string{"Pago a si : Os seus rendimentos : Tarifa", "Your earnings : Fare"}
	uberNetColumns       = []string{"Pago a si", "Net Payout"}
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ErrUnsupportedPlatform is returned for a platform without a CSV layout
var ErrUnsupportedPlatform = fmt.Errorf("%w: unsupported platform", models.ErrValidation)

// ParsePlatform validates a platform tag
func ParsePlatform(s string) (models.Platform, error) {
	switch p := models.Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case models.PlatformUber, models.PlatformBolt:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedPlatform, s)
}

// ParseAmount reads the leading number of a report cell. The first comma is
// taken as the decimal separator; anything unparseable is 0.
func ParseAmount(s string) float64 {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

type csvRecord struct {
	columns map[string]int
	fields  []string
}

// first returns the first non-empty value among the aliases
func (r csvRecord) first(aliases []string) string {
	for _, name := range aliases {
		i, ok := r.columns[name]
		if !ok || i >= len(r.fields) {
			continue
		}
		if v := strings.TrimSpace(r.fields[i]); v != "" {
			return v
		}
	}
	return ""
}

// ParseEarningsCSV reads an Uber or Bolt earnings export into EarningRows.
// Blank rows are dropped here; rows without a driver or amounts are left for
// ReconcileImport to skip.
func ParseEarningsCSV(r io.Reader, platform models.Platform) ([]EarningRow, error) {
	if platform != models.PlatformUber && platform != models.PlatformBolt {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedPlatform, platform)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []EarningRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	rows := []EarningRow{}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}
		if emptyRecord(fields) {
			continue
		}

		rec := csvRecord{columns: columns, fields: fields}
		var row EarningRow
		if platform == models.PlatformBolt {
			row.DriverName = rec.first(boltDriverColumns)
			row.Gross = ParseAmount(rec.first(boltGrossColumns))
			row.ReportedNet = ParseAmount(rec.first(boltNetColumns))
		} else {
			first := rec.first(uberFirstNameColumns)
			last := rec.first(uberLastNameColumns)
			row.DriverName = strings.TrimSpace(first + " " + last)
			row.Gross = ParseAmount(rec.first(uberGrossColumns))
			row.ReportedNet = ParseAmount(rec.first(uberNetColumns))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func emptyRecord(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
