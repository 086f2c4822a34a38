package utils

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
)

// Header aliases, compared case-insensitively after trimming
var (
	emailColumns     = []string{"email", "e-mail", "email address", "emailaddress", "correo"}
	firstNameColumns = []string{"first name", "firstname", "first_name", "nombre"}
	lastNameColumns  = []string{"last name", "lastname", "last_name", "apellido"}
	countryColumns   = []string{"country", "pais", "país"}
	cityColumns      = []string{"city", "ciudad"}
	scoreColumns     = []string{"score", "lead score", "puntuacion"}
	statusColumns    = []string{"status", "estado"}
	tagsColumns      = []string{"tags", "tag", "etiquetas"}
)

// ContactImporter imports contacts from CSV files
type ContactImporter struct {
	contacts repositories.ContactRepository
}

// NewContactImporter creates a new ContactImporter
func NewContactImporter(contacts repositories.ContactRepository) *ContactImporter {
	return &ContactImporter{contacts: contacts}
}

// ContactRow is one parsed CSV row
type ContactRow struct {
	Line  int
	Email string
	Patch models.ContactPatch
	Tags  []string
}

// columns maps the known fields to header indices; -1 when absent
type columns struct {
	email, firstName, lastName, country, city, score, status, tags int

	custom map[int]string // index -> custom field key
}

func mapColumns(header []string) (columns, error) {
	cols := columns{
		email:     findColumnIndex(header, emailColumns),
		firstName: findColumnIndex(header, firstNameColumns),
		lastName:  findColumnIndex(header, lastNameColumns),
		country:   findColumnIndex(header, countryColumns),
		city:      findColumnIndex(header, cityColumns),
		score:     findColumnIndex(header, scoreColumns),
		status:    findColumnIndex(header, statusColumns),
		tags:      findColumnIndex(header, tagsColumns),
		custom:    map[int]string{},
	}
	if cols.email == -1 {
		return cols, errors.New("email column not found in CSV")
	}

	known := map[int]bool{}
	for _, idx := range []int{cols.email, cols.firstName, cols.lastName, cols.country, cols.city, cols.score, cols.status, cols.tags} {
		known[idx] = true
	}
	for i, h := range header {
		key := FieldKey(h)
		if !known[i] && key != "" {
			cols.custom[i] = key
		}
	}
	return cols, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (c columns) parse(line int, row []string) (ContactRow, error) {
	out := ContactRow{Line: line, Email: NormalizeEmail(cell(row, c.email))}
	if out.Email == "" {
		return out, errors.New("no email found")
	}
	if !ValidEmail(out.Email) {
		return out, fmt.Errorf("invalid email: %s", out.Email)
	}

	setString := func(dst **string, idx int) {
		if v := cell(row, idx); v != "" {
			*dst = &v
		}
	}
	setString(&out.Patch.FirstName, c.firstName)
	setString(&out.Patch.LastName, c.lastName)
	setString(&out.Patch.Country, c.country)
	setString(&out.Patch.City, c.city)

	if v := cell(row, c.score); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil || score < 0 || score > 100 {
			return out, fmt.Errorf("invalid score: %s", v)
		}
		out.Patch.Score = &score
	}

	if v := cell(row, c.status); v != "" {
		status := models.ContactStatus(strings.ToLower(v))
		if !status.Valid() {
			return out, fmt.Errorf("invalid status: %s", v)
		}
		out.Patch.Status = &status
	}

	out.Tags = SplitTags(cell(row, c.tags))

	for idx, key := range c.custom {
		if v := cell(row, idx); v != "" {
			if out.Patch.CustomFields == nil {
				out.Patch.CustomFields = models.CustomFields{}
			}
			out.Patch.CustomFields[key] = models.InferFieldValue(v)
		}
	}
	return out, nil
}

// ParseContacts reads every row of a contacts CSV. Row-level problems are
// reported in the returned failures; only an unreadable header is fatal.
func ParseContacts(r io.Reader) ([]ContactRow, []models.ImportError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []ContactRow
	var failed []models.ImportError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			failed = append(failed, models.ImportError{Row: line, Error: fmt.Sprintf("error reading row: %v", err)})
			continue
		}
		if isBlank(record) {
			continue
		}

		row, err := cols.parse(line, record)
		if err != nil {
			failed = append(failed, models.ImportError{Row: line, Email: row.Email, Error: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, failed, nil
}

// Import upserts every valid row. Existing contacts are merged, tags are added.
func (i *ContactImporter) Import(ctx context.Context, r io.Reader) (*models.ImportReport, error) {
	rows, failed, err := ParseContacts(r)
	if err != nil {
		return nil, err
	}

	report := &models.ImportReport{TotalRows: len(rows) + len(failed), Failed: failed}
	for _, row := range rows {
		contact, created, err := i.contacts.Upsert(ctx, row.Email, row.Patch)
		if err == nil && len(row.Tags) > 0 {
			err = i.contacts.AddTags(ctx, contact.ID, row.Tags)
		}
		if err != nil {
			report.Failed = append(report.Failed, models.ImportError{Row: row.Line, Email: row.Email, Error: err.Error()})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}
	if report.Failed == nil {
		report.Failed = []models.ImportError{}
	}
	return report, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// findColumnIndex finds the index of a column in the header
func findColumnIndex(header []string, possibleNames []string) int {
	for i, column := range header {
		column = strings.ToLower(strings.TrimSpace(column))
		for _, name := range possibleNames {
			if column == name {
				return i
			}
		}
	}
	return -1
}
