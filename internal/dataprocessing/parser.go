package dataprocessing

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agrippa-data/course-r-actuaries/internal/config"
	"github.com/agrippa-data/course-r-actuaries/internal/dataset"
	loaderrors "github.com/agrippa-data/course-r-actuaries/internal/errors"
	"github.com/agrippa-data/course-r-actuaries/internal/schema"
	"github.com/agrippa-data/course-r-actuaries/internal/validation"
)

const utf8BOM = "\ufeff"

// ParserOptions configures how input files are read
type ParserOptions struct {
	// NullTokens are cell texts read as null in addition to blank cells
	NullTokens []string

	// UnknownColumns is config.UnknownColumnsError or config.UnknownColumnsIgnore
	UnknownColumns string

	// Comma is the CSV field delimiter
	Comma rune

	// Sheet selects the workbook sheet; empty means the first sheet
	Sheet string
}

// DefaultParserOptions returns the options matching config.Default
func DefaultParserOptions() ParserOptions {
	return ParserOptionsFromConfig(config.Default().Loader)
}

// ParserOptionsFromConfig maps loader configuration onto parser options
func ParserOptionsFromConfig(cfg config.LoaderConfig) ParserOptions {
	return ParserOptions{
		NullTokens:     cfg.NullTokens,
		UnknownColumns: cfg.UnknownColumns,
		Comma:          cfg.Comma(),
		Sheet:          cfg.Sheet,
	}
}

// Parser reads CSV files and XLSX workbooks into datasets according to an
// explicit schema.
type Parser struct {
	opts      ParserOptions
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewParser creates a new parser
func NewParser(opts ParserOptions, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Comma == 0 {
		opts.Comma = ','
	}
	if opts.UnknownColumns == "" {
		opts.UnknownColumns = config.UnknownColumnsError
	}
	return &Parser{
		opts:      opts,
		logger:    logger.With(slog.String("component", "parser")),
		validator: validation.NewFileValidator(logger),
	}
}

// sourceCell is one cell as read from the file. text is what a user sees;
// raw is the stored value, which differs from text only in workbooks.
type sourceCell struct {
	text string
	raw  string
	kind excelize.CellType
}

type sourceRow struct {
	number int
	cells  []sourceCell
}

type sourceTable struct {
	format   validation.Format
	header   []string
	rows     []sourceRow
	date1904 bool
}

// ParseFile reads the file at path and parses every row against s. The
// first failing cell aborts the parse; no partial dataset is returned.
func (p *Parser) ParseFile(ctx context.Context, path string, s *schema.Schema) (*dataset.Dataset, error) {
	if s == nil || s.Len() == 0 {
		return nil, loaderrors.NewConfigError("a schema is required to parse "+path+"; use InferFile to draft one", nil)
	}

	table, err := p.readTable(ctx, path)
	if err != nil {
		return nil, err
	}

	positions, err := p.bindHeader(path, table.header, s)
	if err != nil {
		return nil, err
	}

	columns := s.Columns()
	records := make([]dataset.Record, 0, len(table.rows))
	for _, row := range table.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := make(dataset.Record, len(columns))
		for i, col := range columns {
			var cell sourceCell
			if pos := positions[i]; pos < len(row.cells) {
				cell = row.cells[pos]
			}

			v, err := p.convert(col, cell, table)
			if err != nil {
				var appErr *loaderrors.AppError
				if stderrors.As(err, &appErr) {
					appErr.At(path, row.number)
				}
				return nil, err
			}
			record[col.Name] = v
		}
		records = append(records, record)
	}

	p.logger.InfoContext(ctx, "Parsed file",
		slog.String("file", path),
		slog.String("format", string(table.format)),
		slog.Int("records", len(records)))

	return dataset.New(s, records)
}

// bindHeader maps every schema column onto its position in the header
func (p *Parser) bindHeader(path string, header []string, s *schema.Schema) ([]int, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := byName[name]; dup {
			return nil, loaderrors.NewSchemaMismatchError(fmt.Sprintf("duplicate header column %q", name)).At(path, 1)
		}
		byName[name] = i
	}

	positions := make([]int, s.Len())
	for i, col := range s.Columns() {
		pos, ok := byName[col.Name]
		if !ok {
			err := loaderrors.NewSchemaMismatchError(fmt.Sprintf("header is missing column %q", col.Name)).At(path, 1)
			err.Column = col.Name
			return nil, err
		}
		positions[i] = pos
	}

	for _, name := range header {
		if s.Index(name) >= 0 {
			continue
		}
		if p.opts.UnknownColumns == config.UnknownColumnsIgnore {
			p.logger.Debug("Ignoring column not in schema",
				slog.String("file", path),
				slog.String("column", name))
			continue
		}
		err := loaderrors.NewSchemaMismatchError(fmt.Sprintf("header column %q is not in the schema", name)).At(path, 1)
		err.Column = name
		return nil, err
	}

	return positions, nil
}

// convert parses one cell for its column
func (p *Parser) convert(col schema.Column, cell sourceCell, table *sourceTable) (schema.Value, error) {
	if table.format != validation.FormatXLSX {
		return schema.ParseCell(col, cell.text, p.opts.NullTokens...)
	}

	switch cell.kind {
	case excelize.CellTypeError, excelize.CellTypeBool:
		err := loaderrors.NewUnsupportedFormatError("",
			fmt.Sprintf("spreadsheet %s cell cannot be read as %s", cellKindName(cell.kind), col.Type))
		err.Column = col.Name
		err.Value = cell.text
		return schema.Value{}, err
	}

	switch col.Type {
	case schema.TypeString:
		return p.convertText(col, cell)
	case schema.TypeDate:
		if isNumericCell(cell.kind) {
			if serial, err := strconv.ParseFloat(strings.TrimSpace(cell.raw), 64); err == nil {
				t, err := excelize.ExcelDateToTime(serial, table.date1904)
				if err != nil {
					return schema.Value{}, loaderrors.NewDateParseError(col.Name, cell.raw, "excel serial date", err)
				}
				return schema.DateValue(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
			}
		}
		return schema.ParseCell(col, cell.raw, p.opts.NullTokens...)
	default:
		return schema.ParseCell(col, cell.raw, p.opts.NullTokens...)
	}
}

// convertText reads a string column cell. Numeric cells are accepted only
// when they hold a whole number displayed exactly as stored, so that
// formatted or rounded displays never reach the dataset.
func (p *Parser) convertText(col schema.Column, cell sourceCell) (schema.Value, error) {
	raw := strings.TrimSpace(cell.raw)
	switch {
	case raw == "":
		return schema.ParseCell(col, cell.text, p.opts.NullTokens...)
	case cell.kind == excelize.CellTypeDate:
	case isNumericCell(cell.kind):
		if _, err := strconv.ParseInt(raw, 10, 64); err == nil && strings.TrimSpace(cell.text) == raw {
			return schema.ParseCell(col, raw, p.opts.NullTokens...)
		}
	default:
		return schema.ParseCell(col, cell.text, p.opts.NullTokens...)
	}

	err := loaderrors.NewUnsupportedFormatError("",
		fmt.Sprintf("spreadsheet number %s (displayed %q) cannot be read as string; store the cell as text",
			raw, cell.text))
	err.Column = col.Name
	err.Value = cell.text
	return schema.Value{}, err
}

func isNumericCell(kind excelize.CellType) bool {
	return kind == excelize.CellTypeUnset || kind == excelize.CellTypeNumber
}

func cellKindName(kind excelize.CellType) string {
	switch kind {
	case excelize.CellTypeError:
		return "error"
	case excelize.CellTypeBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// readTable reads header and rows of a supported file
func (p *Parser) readTable(ctx context.Context, path string) (*sourceTable, error) {
	format, err := p.validator.ValidateSourceFile(path)
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "Reading file",
		slog.String("file", path),
		slog.String("format", string(format)))

	switch format {
	case validation.FormatXLSX:
		return p.readWorkbook(ctx, path)
	default:
		return p.readCSV(ctx, path)
	}
}

func (p *Parser) readCSV(ctx context.Context, path string) (*sourceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = p.opts.Comma

	header, err := reader.Read()
	if err == io.EOF {
		return nil, loaderrors.NewMalformedFileError(path, fmt.Errorf("file has no header row"))
	}
	if err != nil {
		return nil, malformedCSV(path, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	table := &sourceTable{format: validation.FormatCSV, header: headerNames(header)}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformedCSV(path, err)
		}

		line, _ := reader.FieldPos(0)
		cells := make([]sourceCell, len(fields))
		for i, field := range fields {
			cells[i] = sourceCell{text: field, raw: field}
		}
		table.rows = append(table.rows, sourceRow{number: line, cells: cells})
	}

	return table, nil
}

func malformedCSV(path string, err error) error {
	appErr := loaderrors.NewMalformedFileError(path, err)
	var parseErr *csv.ParseError
	if stderrors.As(err, &parseErr) {
		appErr.Row = parseErr.Line
	}
	return appErr
}

func (p *Parser) readWorkbook(ctx context.Context, path string) (*sourceTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, loaderrors.NewMalformedFileError(path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	sheet, err := p.selectSheet(f)
	if err != nil {
		return nil, loaderrors.NewMalformedFileError(path, err)
	}

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, loaderrors.NewMalformedFileError(path, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, loaderrors.NewMalformedFileError(path, err)
	}

	table := &sourceTable{format: validation.FormatXLSX}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		table.date1904 = *props.Date1904
	}

	headerIdx := -1
	for i, row := range formatted {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, loaderrors.NewMalformedFileError(path, fmt.Errorf("sheet %q has no header row", sheet))
	}
	table.header = headerNames(formatted[headerIdx])

	p.logger.DebugContext(ctx, "Found header row",
		slog.String("sheet_name", sheet),
		slog.Int("row_number", headerIdx+1),
		slog.Any("header", table.header))

	for i := headerIdx + 1; i < len(formatted); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blankRow(formatted[i]) {
			continue
		}
		if len(formatted[i]) > len(table.header) && !blankRow(formatted[i][len(table.header):]) {
			err := loaderrors.NewMalformedFileError(path, fmt.Errorf("row has %d cells, header has %d", len(formatted[i]), len(table.header)))
			err.Row = i + 1
			return nil, err
		}

		cells := make([]sourceCell, len(formatted[i]))
		for j, text := range formatted[i] {
			cell := sourceCell{text: text, raw: text}
			if i < len(raw) && j < len(raw[i]) {
				cell.raw = raw[i][j]
			}
			if strings.TrimSpace(cell.raw) != "" {
				axis, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err != nil {
					return nil, loaderrors.NewMalformedFileError(path, err)
				}
				if cell.kind, err = f.GetCellType(sheet, axis); err != nil {
					return nil, loaderrors.NewMalformedFileError(path, err)
				}
			}
			cells[j] = cell
		}
		table.rows = append(table.rows, sourceRow{number: i + 1, cells: cells})
	}

	return table, nil
}

// selectSheet returns the configured sheet or the first one in the workbook
func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if p.opts.Sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(p.opts.Sheet)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found, workbook has %v", p.opts.Sheet, sheets)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerNames trims the header cells and names blank ones by position
func headerNames(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
		if out[i] == "" {
			out[i] = schema.PlaceholderName(i)
		}
	}
	return out
}
