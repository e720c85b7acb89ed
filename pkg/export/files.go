package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oivas000/duty-roster/pkg/core/model"
)

// Supported output formats
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// RosterTitle returns e.g. "DUTY ROSTER MARCH 2025"
func RosterTitle(s *model.Schedule) string {
	return strings.ToUpper(fmt.Sprintf("DUTY ROSTER %s %d", s.Month, s.Year))
}

// WriteFiles writes one CSV per listing and a single PDF holding every
// listing into dir, returning the written paths.
func WriteFiles(dir, rosterTitle string, listings []Listing, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, format := range formats {
		switch format {
		case FormatCSV:
			exporter := NewCSVExporter()
			for _, listing := range listings {
				content, err := exporter.Render(listing.Dataset)
				if err != nil {
					return paths, fmt.Errorf("failed to render %s list: %w", listing.Role, err)
				}
				path := filepath.Join(dir, listing.Title+".csv")
				if err := os.WriteFile(path, content, 0644); err != nil {
					return paths, fmt.Errorf("failed to write %s: %w", path, err)
				}
				paths = append(paths, path)
			}

		case FormatPDF:
			datasets := make([]Dataset, len(listings))
			for i, listing := range listings {
				datasets[i] = listing.Dataset
			}
			content, err := NewPDFExporter().Render(datasets...)
			if err != nil {
				return paths, fmt.Errorf("failed to render roster pdf: %w", err)
			}
			path := filepath.Join(dir, rosterTitle+".pdf")
			if err := os.WriteFile(path, content, 0644); err != nil {
				return paths, fmt.Errorf("failed to write %s: %w", path, err)
			}
			paths = append(paths, path)

		default:
			return paths, fmt.Errorf("unsupported export format: %s", format)
		}
	}

	return paths, nil
}
