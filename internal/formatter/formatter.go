// package formatter provides functions to export import reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
)

// Entry statuses.
const (
	StatusImported = "imported"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Entry is one item of an import report.
type Entry struct {
	RemoteID string `json:"remote_id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	FilePath string `json:"file_path"`
	Event    string `json:"event,omitempty"`
	Status   string `json:"status"`
	Detail   string `json:"detail,omitempty"`
}

// Report summarizes one import run.
type Report struct {
	Title    string  `json:"title"`
	Account  string  `json:"account"`
	Imported int     `json:"imported"`
	Failed   int     `json:"failed"`
	Entries  []Entry `json:"entries"`
}

// EntryFromRecord builds a report entry for an imported record.
func EntryFromRecord(record *models.MediaRecord, event string) Entry {
	return Entry{
		RemoteID: record.RemoteID(),
		Filename: record.Filename(),
		MimeType: record.MimeType(),
		FilePath: record.FilePath(),
		Event:    event,
		Status:   StatusImported,
	}
}

// FailedEntry builds a report entry for an item that could not be imported.
func FailedEntry(remoteID string, cause error) Entry {
	return Entry{
		RemoteID: remoteID,
		Status:   StatusFailed,
		Detail:   cause.Error(),
	}
}

// Tally recomputes the imported/failed counters from the entries.
func (r *Report) Tally() {
	r.Imported = 0
	r.Failed = 0
	for _, entry := range r.Entries {
		switch entry.Status {
		case StatusImported:
			r.Imported++
		case StatusFailed:
			r.Failed++
		}
	}
}

// ExportToCSV converts a Report to CSV format with columns: RemoteID, Filename, MimeType, Path, Event, Status, Detail
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RemoteID", "Filename", "MimeType", "Path", "Event", "Status", "Detail"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range report.Entries {
		record := []string{
			entry.RemoteID,
			entry.Filename,
			entry.MimeType,
			entry.FilePath,
			entry.Event,
			entry.Status,
			entry.Detail,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Report to Markdown format
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", report.Title))
	buf.WriteString(fmt.Sprintf("**Account**: %s\n", report.Account))
	buf.WriteString(fmt.Sprintf("**Imported**: %d\n", report.Imported))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n\n", report.Failed))

	buf.WriteString("## Photos\n\n")
	for i, entry := range report.Entries {
		name := entry.Filename
		if name == "" {
			name = entry.RemoteID
		}

		eventPart := ""
		if entry.Event != "" {
			eventPart = fmt.Sprintf(" (%s)", entry.Event)
		}

		switch entry.Status {
		case StatusFailed:
			buf.WriteString(fmt.Sprintf("%d. ✗ %s: %s\n", i+1, name, entry.Detail))
		default:
			buf.WriteString(fmt.Sprintf("%d. %s%s [%s]\n", i+1, name, eventPart, entry.Status))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Report to plain text format
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Import: %s\n", report.Title))
	buf.WriteString(fmt.Sprintf("Account: %s\n", report.Account))
	buf.WriteString(fmt.Sprintf("Imported: %d, Failed: %d\n\n", report.Imported, report.Failed))

	for i, entry := range report.Entries {
		name := entry.Filename
		if name == "" {
			name = entry.RemoteID
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, entry.Status, name))
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ReportFile  string
	SummaryFile string
}

// WriteCSVExport exports a report to CSV format with an accompanying summary JSON file.
//
// Creates {base}_report.csv and {base}_summary.json
func WriteCSVExport(report *Report, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "import"
	}

	csvData, err := ExportToCSV(report)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	reportFile := baseFilepath + "_report.csv"
	if err := os.WriteFile(reportFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summary := *report
	summary.Entries = nil
	summaryJSON, err := shared.MarshalJSON(summary, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		ReportFile:  reportFile,
		SummaryFile: summaryFile,
	}, nil
}

// WriteMarkdownExport exports a report as {dir}/README.md.
func WriteMarkdownExport(report *Report, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "import"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a report to plain text format.
func WriteTextExport(report *Report, filepath string) (string, error) {
	if filepath == "" {
		filepath = "import_report.txt"
	}

	textData, err := ExportToText(report)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
