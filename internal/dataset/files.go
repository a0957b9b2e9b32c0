package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

const (
	// CharitiesFile is the record file holding charity rows.
	CharitiesFile = "charities.json"
	// GrantsFile is the record file holding grant rows.
	GrantsFile = "grants.json"
)

// ErrMissingRecords indicates a record file is absent from the data directory.
var ErrMissingRecords = errors.New("record file not found")

// FileSource reads charity and grant records from a directory of JSON files.
type FileSource struct {
	dir string
}

// NewFileSource returns a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the directory the source reads from.
func (s *FileSource) Dir() string {
	return s.dir
}

// Probe verifies both record files are present.
func (s *FileSource) Probe(context.Context) error {
	for _, name := range []string{CharitiesFile, GrantsFile} {
		path := filepath.Join(s.dir, name)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", ErrMissingRecords, path)
		}
	}
	return nil
}

// LoadRecords decodes both record files concurrently.
func (s *FileSource) LoadRecords(ctx context.Context) (domain.Records, error) {
	if err := s.Probe(ctx); err != nil {
		return domain.Records{}, err
	}

	var (
		charities []charityRow
		grants    []grantRow
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(s.dir, CharitiesFile), &charities)
	})
	g.Go(func() error {
		return readJSON(ctx, filepath.Join(s.dir, GrantsFile), &grants)
	})
	if err := g.Wait(); err != nil {
		return domain.Records{}, err
	}

	records := domain.Records{
		Charities: make([]domain.CharityRecord, 0, len(charities)),
		Grants:    make([]domain.GrantRecord, 0, len(grants)),
	}
	for _, row := range charities {
		records.Charities = append(records.Charities, row.toRecord())
	}
	for _, row := range grants {
		records.Grants = append(records.Grants, row.toRecord())
	}
	return records, nil
}

// WriteRecords serialises records into charities.json and grants.json under dir.
func WriteRecords(dir string, records domain.Records) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	charities := make([]charityRow, 0, len(records.Charities))
	for _, rec := range records.Charities {
		charities = append(charities, charityRowFrom(rec))
	}
	if err := writeJSON(filepath.Join(dir, CharitiesFile), charities); err != nil {
		return err
	}

	grants := make([]grantRow, 0, len(records.Grants))
	for _, rec := range records.Grants {
		grants = append(grants, grantRowFrom(rec))
	}
	return writeJSON(filepath.Join(dir, GrantsFile), grants)
}

type charityRow struct {
	EIN        string   `json:"filer_ein"`
	Name       string   `json:"filer_name"`
	ReceiptAmt looseInt `json:"receipt_amt"`
	GovtAmt    looseInt `json:"govt_amt"`
	ContribAmt looseInt `json:"contrib_amt"`
}

func (r charityRow) toRecord() domain.CharityRecord {
	return domain.CharityRecord{
		EIN:        r.EIN,
		Name:       r.Name,
		ReceiptAmt: r.ReceiptAmt.value,
		GovtAmt:    r.GovtAmt.value,
		ContribAmt: r.ContribAmt.value,
	}
}

func charityRowFrom(rec domain.CharityRecord) charityRow {
	return charityRow{
		EIN:        rec.EIN,
		Name:       rec.Name,
		ReceiptAmt: looseInt{value: rec.ReceiptAmt, valid: true},
		GovtAmt:    looseInt{value: rec.GovtAmt, valid: true},
		ContribAmt: looseInt{value: rec.ContribAmt, valid: true},
	}
}

type grantRow struct {
	FilerEIN string   `json:"filer_ein"`
	GrantEIN string   `json:"grant_ein"`
	GrantAmt looseInt `json:"grant_amt"`
	TaxYear  looseInt `json:"tax_year"`
}

func (r grantRow) toRecord() domain.GrantRecord {
	year := 0
	if r.TaxYear.valid {
		year = int(r.TaxYear.value)
	}
	return domain.GrantRecord{
		FilerEIN: r.FilerEIN,
		GrantEIN: r.GrantEIN,
		Amount:   r.GrantAmt.value,
		TaxYear:  year,
	}
}

func grantRowFrom(rec domain.GrantRecord) grantRow {
	return grantRow{
		FilerEIN: rec.FilerEIN,
		GrantEIN: rec.GrantEIN,
		GrantAmt: looseInt{value: rec.Amount, valid: true},
		TaxYear:  looseInt{value: int64(rec.TaxYear), valid: rec.TaxYear != 0},
	}
}

// looseInt accepts JSON numbers and numeric strings. Like the upstream CSV exports it
// reads the leading integer part ("12.5" -> 12, "1200 USD" -> 1200); anything else
// decodes as an invalid zero.
type looseInt struct {
	value int64
	valid bool
}

func (n *looseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = looseInt{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	v, ok := parseLeadingInt(string(bytes.TrimSpace(data)))
	*n = looseInt{value: v, valid: ok}
	return nil
}

func (n looseInt) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(n.value, 10)), nil
}

func parseLeadingInt(s string) (int64, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readJSON(ctx context.Context, path string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
