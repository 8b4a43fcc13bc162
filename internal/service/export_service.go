package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/carelog-api/internal/models"
	appErrors "github.com/noah-isme/carelog-api/pkg/errors"
	"github.com/noah-isme/carelog-api/pkg/export"
)

// ExportFormat selects the rendered output of a client export.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered document together with its content type
// and suggested filename.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders a client's check-in history as CSV or a one-page
// PDF summary. Exports are practitioner-only.
type ExportService struct {
	entries entryRepository
	clients clientAuthorizer
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService creates a new export service instance.
func NewExportService(entries entryRepository, clients clientAuthorizer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		entries: entries,
		clients: clients,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Export renders the client's check-in history in the requested format.
func (s *ExportService) Export(ctx context.Context, practitionerID int64, clientID int64, format ExportFormat) (*ExportResult, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	client, err := s.clients.Authorize(ctx, models.PractitionerActor{UserID: practitionerID}, clientID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByClient(ctx, clientID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}

	table := entryTable(entries)
	stamp := time.Now().UTC().Format("2006-01-02")

	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("client-%d-checkins-%s.csv", clientID, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		report := export.SummaryReport{
			Title: fmt.Sprintf("Client Summary: %s %s", client.FirstName, client.LastName),
			Fields: []export.SummaryField{
				{Label: "Client ID", Value: strconv.FormatInt(client.ID, 10)},
				{Label: "Diagnosis", Value: strOrDash(client.Diagnosis)},
				{Label: "Archived", Value: strconv.FormatBool(client.Archived)},
				{Label: "Check-ins", Value: strconv.Itoa(len(entries))},
				{Label: "Generated", Value: stamp},
			},
			Table: table,
		}
		data, err := s.pdf.Render(report)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("client-%d-summary-%s.pdf", clientID, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
}

func entryTable(entries []models.DataEntry) export.Table {
	table := export.Table{
		Headers: []string{"Date", "Mood", "Anxiety", "Sleep", "Challenges", "Notes"},
		Rows:    make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		table.Rows = append(table.Rows, []string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(e.Mood),
			strconv.Itoa(e.AnxietyLevel),
			strconv.Itoa(e.SleepQuality),
			strings.Join(e.Challenges, "; "),
			notes,
		})
	}
	return table
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
