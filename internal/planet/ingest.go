package planet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	dispositionConfirmed = "CONFIRMED"

	// Earth-relative stellar flux band and radius ceiling for the
	// habitability filter. All bounds are strict.
	minInsolation = 0.36
	maxInsolation = 1.11
	maxRadius     = 1.6
)

var requiredColumns = []string{
	"kepler_name",
	"kepoi_name",
	"koi_disposition",
	"koi_insol",
	"koi_prad",
}

// Candidate is one row of the Kepler KOI table, reduced to the fields the
// habitability filter reads.
type Candidate struct {
	Disposition string
	Insolation  float64
	Radius      float64
	KeplerName  string
	KOIName     string
}

// Habitable reports whether the candidate passes the three-predicate filter:
// confirmed disposition, stellar flux inside the Goldilocks band, and a
// radius below 1.6 Earth radii.
func (c Candidate) Habitable() bool {
	return c.Disposition == dispositionConfirmed &&
		c.Insolation > minInsolation &&
		c.Insolation < maxInsolation &&
		c.Radius < maxRadius
}

// Name resolves the candidate's display name, preferring the Kepler name and
// falling back to the KOI catalog identifier. Empty means neither is set.
func (c Candidate) Name() string {
	if c.KeplerName != "" {
		return c.KeplerName
	}
	return c.KOIName
}

// datasetScanner streams candidates out of a KOI CSV export. Lines starting
// with '#' are archive metadata and are skipped. The scanner holds one row at
// a time so dataset size does not matter.
type datasetScanner struct {
	reader  *csv.Reader
	columns map[string]int
}

func newDatasetScanner(r io.Reader) (*datasetScanner, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", name)
		}
	}

	return &datasetScanner{reader: reader, columns: columns}, nil
}

// Next returns the next candidate row, or io.EOF when the stream is done.
// Numeric fields are only parsed for confirmed rows; the filter rejects
// everything else on disposition alone.
func (s *datasetScanner) Next() (Candidate, error) {
	record, err := s.reader.Read()
	if err != nil {
		return Candidate{}, err
	}

	candidate := Candidate{
		Disposition: record[s.columns["koi_disposition"]],
		KeplerName:  record[s.columns["kepler_name"]],
		KOIName:     record[s.columns["kepoi_name"]],
	}

	if candidate.Disposition != dispositionConfirmed {
		return candidate, nil
	}

	insolation, err := strconv.ParseFloat(record[s.columns["koi_insol"]], 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("invalid koi_insol value %q: %w", record[s.columns["koi_insol"]], err)
	}

	radius, err := strconv.ParseFloat(record[s.columns["koi_prad"]], 64)
	if err != nil {
		return Candidate{}, fmt.Errorf("invalid koi_prad value %q: %w", record[s.columns["koi_prad"]], err)
	}

	candidate.Insolation = insolation
	candidate.Radius = radius
	return candidate, nil
}
