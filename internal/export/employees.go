package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"employee-service/internal/models"
)

const (
	SheetName   = "Employees"
	dateLayout  = "2006-01-02"
	XLSXMime    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVMime     = "text/csv"
	headerColor = "4472C4"
)

// Column is one exported field of an employee
type Column struct {
	Header string
	Width  float64
	Value  func(e *models.Employee) interface{}
}

// EmployeeColumns is the export layout shared by the xlsx and csv writers
var EmployeeColumns = []Column{
	{"ID", 38, func(e *models.Employee) interface{} { return e.ID.String() }},
	{"First Name", 18, func(e *models.Employee) interface{} { return e.BasicInfo.FirstName }},
	{"Last Name", 18, func(e *models.Employee) interface{} { return e.BasicInfo.LastName }},
	{"Father Name", 18, func(e *models.Employee) interface{} { return e.BasicInfo.FatherName }},
	{"National ID", 14, func(e *models.Employee) interface{} { return e.BasicInfo.NationalID }},
	{"Personnel Code", 16, func(e *models.Employee) interface{} { return e.BasicInfo.PersonnelCode }},
	{"Gender", 10, func(e *models.Employee) interface{} { return string(e.BasicInfo.Gender) }},
	{"Marital Status", 14, func(e *models.Employee) interface{} { return string(e.BasicInfo.MaritalStatus) }},
	{"Birth Date", 12, func(e *models.Employee) interface{} { return formatDate(e.BasicInfo.BirthDate) }},
	{"Phone", 16, func(e *models.Employee) interface{} { return e.BasicInfo.PhoneNumber }},
	{"Education", 16, func(e *models.Employee) interface{} { return e.BasicInfo.EducationLevel }},
	{"Status", 12, func(e *models.Employee) interface{} { return string(e.BasicInfo.Status) }},
	{"Office", 20, func(e *models.Employee) interface{} { return e.WorkPlace.Office }},
	{"Department", 20, func(e *models.Employee) interface{} { return e.WorkPlace.Department }},
	{"Job Title", 20, func(e *models.Employee) interface{} { return e.WorkPlace.JobTitle }},
	{"Employment Type", 16, func(e *models.Employee) interface{} { return e.WorkPlace.EmploymentType }},
	{"Hire Date", 12, func(e *models.Employee) interface{} { return formatDate(e.WorkPlace.HireDate) }},
	{"Truck Driver", 12, func(e *models.Employee) interface{} { return e.WorkPlace.TruckDriver }},
	{"Performance Records", 12, func(e *models.Employee) interface{} { return len(e.Performance) }},
	{"Latest Score", 12, func(e *models.Employee) interface{} { return latestScore(e) }},
}

// Writer receives employees in batches and renders them to out on Finish
type Writer interface {
	Append(batch []models.Employee) error
	Finish(out io.Writer) error
	Close() error
}

// ===========================================
// XLSX
// ===========================================

// Workbook streams employee rows into a single-sheet workbook
type Workbook struct {
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewWorkbook creates the workbook and writes the styled header row
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	stream, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	// widths must be set before the first row
	for i, col := range EmployeeColumns {
		if err := stream.SetColWidth(i+1, i+1, col.Width); err != nil {
			f.Close()
			return nil, err
		}
	}

	header := make([]interface{}, len(EmployeeColumns))
	for i, col := range EmployeeColumns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col.Header}
	}
	if err := stream.SetRow("A1", header, excelize.RowOpts{}); err != nil {
		f.Close()
		return nil, err
	}

	return &Workbook{file: f, stream: stream, row: 1}, nil
}

func (w *Workbook) Append(batch []models.Employee) error {
	for i := range batch {
		w.row++
		cell, err := excelize.CoordinatesToCellName(1, w.row)
		if err != nil {
			return err
		}
		if err := w.stream.SetRow(cell, rowValues(&batch[i])); err != nil {
			return fmt.Errorf("write row %d: %w", w.row, err)
		}
	}
	return nil
}

// Rows is the number of employee rows written so far
func (w *Workbook) Rows() int {
	return w.row - 1
}

// Finish flushes the stream and writes the workbook to out
func (w *Workbook) Finish(out io.Writer) error {
	if err := w.stream.Flush(); err != nil {
		return err
	}
	_, err := w.file.WriteTo(out)
	return err
}

// Close releases the workbook's temporary files
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ===========================================
// CSV
// ===========================================

// CSVWriter writes employee rows as comma separated values
type CSVWriter struct {
	out *csv.Writer
}

// NewCSVWriter writes the header line to out immediately
func NewCSVWriter(out io.Writer) (*CSVWriter, error) {
	w := &CSVWriter{out: csv.NewWriter(out)}

	header := make([]string, len(EmployeeColumns))
	for i, col := range EmployeeColumns {
		header[i] = col.Header
	}
	if err := w.out.Write(header); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *CSVWriter) Append(batch []models.Employee) error {
	record := make([]string, len(EmployeeColumns))
	for i := range batch {
		for j, v := range rowValues(&batch[i]) {
			record[j] = csvValue(v)
		}
		if err := w.out.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Finish flushes buffered rows. out is ignored since rows are written as they arrive.
func (w *CSVWriter) Finish(io.Writer) error {
	w.out.Flush()
	return w.out.Error()
}

func (w *CSVWriter) Close() error {
	return nil
}

func rowValues(e *models.Employee) []interface{} {
	values := make([]interface{}, len(EmployeeColumns))
	for i, col := range EmployeeColumns {
		v := col.Value(e)
		if s, ok := v.(string); ok {
			v = escapeFormula(s)
		}
		values[i] = v
	}
	return values
}

// escapeFormula prefixes text that a spreadsheet would evaluate as a formula
func escapeFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func csvValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func formatDate(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

// latestScore is the score of the most recent performance period
func latestScore(e *models.Employee) interface{} {
	if len(e.Performance) == 0 {
		return nil
	}
	latest := e.Performance[0]
	for _, p := range e.Performance[1:] {
		if p.Year > latest.Year || (p.Year == latest.Year && p.Month > latest.Month) {
			latest = p
		}
	}
	return latest.Score
}

// FileName builds the download name for a province export
func FileName(provinceName, ext string, now time.Time) string {
	if provinceName == "" {
		provinceName = "province"
	}
	return fmt.Sprintf("employees_%s_%s.%s", sanitize(provinceName), now.Format("20060102"), ext)
}

// ContentDisposition is the attachment header for filename: an ASCII fallback
// plus the RFC 5987 UTF-8 form
func ContentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(filename))
}

// sanitize keeps letters and digits of any script
func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
