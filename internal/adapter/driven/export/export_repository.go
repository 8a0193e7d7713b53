package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/diillson/sales-dashboard-go/internal/domain/service"
	"github.com/xuri/excelize/v2"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	pdf *PDFRenderer
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{pdf: NewPDFRenderer(DefaultGeometry())}
}

// --- Exportação dos registros filtrados ---

func (r *ExportRepositoryImpl) EncodeCSV(records []entity.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(entity.RecordColumns); err != nil {
		return nil, fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(cleanCells(rec.Values())); err != nil {
			return nil, fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV: %w", err)
	}
	return buf.Bytes(), nil
}

type jsonExport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	KPIs        entity.KPIs     `json:"kpis"`
	Records     []entity.Record `json:"records"`
}

func (r *ExportRepositoryImpl) EncodeJSON(records []entity.Record, kpis entity.KPIs) ([]byte, error) {
	if records == nil {
		records = []entity.Record{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonExport{GeneratedAt: time.Now().UTC(), KPIs: kpis, Records: records}); err != nil {
		return nil, fmt.Errorf("error encoding JSON data: %w", err)
	}
	return buf.Bytes(), nil
}

// Sheet names of the workbook export.
const (
	SheetData    = "Sales Data"
	SheetSummary = "Summary"
)

// EncodeWorkbook writes the records sheet and a KPI summary sheet.
func (r *ExportRepositoryImpl) EncodeWorkbook(records []entity.Record, kpis entity.KPIs) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return nil, fmt.Errorf("error naming data sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("error creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(entity.RecordColumns))
	for i, c := range entity.RecordColumns {
		header[i] = c
	}
	if err := writeRow(f, SheetData, 1, header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := writeRow(f, SheetData, i+2, workbookRow(rec)); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(entity.RecordColumns))
	if err := f.SetCellStyle(SheetData, "A1", lastCol+"1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetData, "A", lastCol, 16); err != nil {
		return nil, err
	}

	if err := writeRow(f, SheetSummary, 1, []interface{}{"Metric", "Value"}); err != nil {
		return nil, err
	}
	for i, e := range service.KPIEntries(kpis) {
		if err := writeRow(f, SheetSummary, i+2, []interface{}{e.Key, e.Value}); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetSummary, "A", "B", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("error writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

// workbookRow keeps numbers numeric so spreadsheet formulas work on them.
func workbookRow(rec entity.Record) []interface{} {
	row := []interface{}{
		rec.Date.Format(entity.DateLayout),
		cleanRichTags(rec.Region),
		cleanRichTags(rec.Product),
		cleanRichTags(rec.Category),
		rec.Revenue,
		rec.Units,
		cleanRichTags(rec.CustomerID),
		nil,
		nil,
	}
	if rec.ProfitMargin != nil {
		row[7] = *rec.ProfitMargin
	}
	if rec.Profit != nil {
		row[8] = *rec.Profit
	}
	return row
}

// EncodePDF renders a report document; see PDFRenderer.Render for the layout.
func (r *ExportRepositoryImpl) EncodePDF(doc entity.ReportDocument) ([]byte, error) {
	res, err := r.pdf.Render(doc)
	if err != nil {
		return nil, err
	}
	return res.Bytes, nil
}

// --- Funções Auxiliares ---

// Regex para limpar formatação pterm (rich tags) e sequências ANSI de cor/estilo.
var richTagRegex = regexp.MustCompile(`\[/?([a-zA-Z]+|#[0-9a-fA-F]{6})\]`)
var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// cleanRichTags remove tags de formatação do pterm e sequências ANSI.
func cleanRichTags(text string) string {
	text = richTagRegex.ReplaceAllString(text, "")
	text = ansiRegex.ReplaceAllString(text, "")
	return text
}

func cleanCells(cells []string) []string {
	for i, c := range cells {
		cells[i] = cleanRichTags(c)
	}
	return cells
}
