// Package ingest imports browser and password-manager CSV exports.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/credential-defense/creddef/internal/config"
	"github.com/credential-defense/creddef/internal/model"
)

// Header aliases across browser export dialects, by logical field.
var fieldAliases = map[string][]string{
	"url":      {"url", "website", "login_uri", "origin", "hostname"},
	"username": {"username", "user", "email", "login"},
	"password": {"password", "pass"},
	"service":  {"name", "title", "service", "site"},
	"notes":    {"note", "notes"},
}

var knownBrowsers = []string{"chrome", "chromium", "edge", "firefox", "brave", "opera", "safari"}

// Summary reports what one import pass did.
type Summary struct {
	TotalFiles      int
	ParsedRows      int
	ImportedRecords int
	SkippedRows     int
	Sources         map[string]int
}

// Importer parses CSV exports into credential records.
type Importer struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewImporter constructs an Importer.
func NewImporter(cfg *config.Config, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{cfg: cfg, logger: logger, now: time.Now}
}

// ImportDir parses every *.csv file in dir. Rows missing any of URL,
// username or password are skipped, not fatal.
func (im *Importer) ImportDir(dir string) ([]model.CredentialRecord, Summary, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, Summary{}, err
	}
	sort.Strings(matches)

	summary := Summary{TotalFiles: len(matches), Sources: map[string]int{}}
	var records []model.CredentialRecord
	for _, path := range matches {
		source := sourceFromFilename(path)
		summary.Sources[source]++
		parsed, skipped, fileRecords, err := im.importFile(path, source)
		if err != nil {
			return nil, Summary{}, fmt.Errorf("import %s: %w", path, err)
		}
		summary.ParsedRows += parsed
		summary.SkippedRows += skipped
		records = append(records, fileRecords...)
	}
	summary.ImportedRecords = len(records)
	im.logger.Info("csv import finished",
		zap.Int("files", summary.TotalFiles),
		zap.Int("rows", summary.ParsedRows),
		zap.Int("imported", summary.ImportedRecords),
		zap.Int("skipped", summary.SkippedRows),
	)
	return records, summary, nil
}

func (im *Importer) importFile(path, source string) (parsed, skipped int, records []model.CredentialRecord, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return 0, 0, nil, nil
	}
	if err != nil {
		return 0, 0, nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// strip a UTF-8 BOM left by some exporters
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(row []string, logical string) string {
		for _, alias := range fieldAliases[logical] {
			if i, ok := columns[alias]; ok && i < len(row) {
				if value := strings.TrimSpace(row[i]); value != "" {
					return value
				}
			}
		}
		return ""
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return parsed, skipped, nil, fmt.Errorf("read row: %w", err)
		}
		parsed++

		url := field(row, "url")
		username := field(row, "username")
		password := field(row, "password")
		if url == "" || username == "" || password == "" {
			skipped++
			continue
		}
		domain := model.DomainFromURL(url)
		service := field(row, "service")
		if service == "" {
			service = domain
		}
		if service == "" {
			service = "unknown_service"
		}
		owner := im.cfg.OwnerForUsername(username)
		rec := model.NewRecord(owner, service, url, username, password, source, im.now().UTC())
		rec.Notes = field(row, "notes")
		records = append(records, rec)
	}
	return parsed, skipped, records, nil
}

// sourceFromFilename infers the exporting browser from the file name.
func sourceFromFilename(path string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, browser := range knownBrowsers {
		if strings.Contains(stem, browser) {
			return browser
		}
	}
	return "csv_import"
}
