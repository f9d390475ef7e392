// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tejzpr/mdx-mcp/internal/container"
	"github.com/tejzpr/mdx-mcp/internal/integrity"
	"github.com/tejzpr/mdx-mcp/internal/report"
	"github.com/tejzpr/mdx-mcp/internal/validator"
	"gorm.io/gorm"
)

// Options configures indexing behavior
type Options struct {
	Force     bool // Clear existing data before indexing
	Validator *validator.Validator
	Logger    *slog.Logger
}

// Result contains statistics from an indexing run
type Result struct {
	Processed int
	Created   int
	Updated   int
	Skipped   int
	Removed   int
	Errors    []string
}

// Index scans dir for container files and records their metadata, assets and
// validation issues. Unchanged files are skipped unless Force is set, and rows
// for files that no longer exist are removed.
func Index(ctx context.Context, db *gorm.DB, dir string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := opts.Validator
	if v == nil {
		v = validator.New(validator.DefaultOptions())
	}

	if opts.Force {
		logger.Info("force re-index: clearing catalog")
		if err := Clear(db); err != nil {
			return nil, err
		}
	}

	files, err := scanDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	logger.Info("indexing containers", "dir", dir, "files", len(files))

	result := &Result{}
	seen := make(map[string]bool, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		seen[path] = true
		result.Processed++

		created, skipped, err := indexFile(ctx, db, v, path)
		switch {
		case err != nil:
			logger.Warn("failed to index container", "path", path, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
		case skipped:
			result.Skipped++
		case created:
			result.Created++
		default:
			result.Updated++
		}
	}

	removed, err := prune(db, dir, seen)
	if err != nil {
		return result, err
	}
	result.Removed = removed

	logger.Info("catalog indexed", "created", result.Created, "updated", result.Updated,
		"skipped", result.Skipped, "removed", result.Removed, "errors", len(result.Errors))
	return result, nil
}

// Clear removes every catalog row
func Clear(db *gorm.DB) error {
	for _, model := range []interface{}{&Issue{}, &Asset{}, &Document{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear catalog: %w", err)
		}
	}
	return nil
}

// scanDirectory walks dir and returns container file paths
func scanDirectory(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), container.Extension) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// indexFile records one file. It reports whether a new row was created and
// whether the file was skipped because its checksum is unchanged.
func indexFile(ctx context.Context, db *gorm.DB, v *validator.Validator, path string) (created, skipped bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, false, fmt.Errorf("failed to read file: %w", err)
	}
	checksum, err := integrity.Compute(integrity.DefaultAlgorithm, data)
	if err != nil {
		return false, false, err
	}

	var existing Document
	err = db.Where("path = ?", path).First(&existing).Error
	switch {
	case err == nil:
		if existing.FileChecksum == checksum {
			return false, true, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
	default:
		return false, false, fmt.Errorf("failed to look up %s: %w", path, err)
	}

	res := v.Validate(data)
	record := Document{
		ID:           existing.ID,
		Path:         path,
		FileChecksum: checksum,
		SizeBytes:    int64(len(data)),
		Valid:        res.Valid,
		ErrorCount:   len(res.Errors),
		WarningCount: len(res.Warnings),
		InfoCount:    len(res.Info),
		IndexedAt:    time.Now().UTC(),
		CreatedAt:    existing.CreatedAt,
	}

	var assets []Asset
	if doc, openErr := container.Open(ctx, data); openErr == nil {
		fillMetadata(&record, doc)
		assets = assetRows(doc)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if record.ID != 0 {
			if err := deleteChildren(tx, record.ID); err != nil {
				return err
			}
		}
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		for i := range assets {
			assets[i].DocumentID = record.ID
		}
		if len(assets) > 0 {
			if err := tx.Create(&assets).Error; err != nil {
				return fmt.Errorf("failed to save assets: %w", err)
			}
		}
		issues := issueRows(record.ID, res)
		if len(issues) > 0 {
			if err := tx.Create(&issues).Error; err != nil {
				return fmt.Errorf("failed to save issues: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, false, err
	}
	return created, false, nil
}

func fillMetadata(record *Document, doc *container.Document) {
	meta := doc.Manifest.Document
	record.ManifestID = meta.ID
	record.Title = meta.Title
	record.Description = meta.Description
	record.Keywords = strings.Join(meta.Keywords, ", ")
	record.Language = meta.Language
	record.Version = meta.Version
	record.MdxVersion = doc.Manifest.MdxVersion
	record.Created = string(meta.Created)
	record.Modified = string(meta.Modified)
	record.AssetCount = doc.Manifest.Assets.Len()
	record.VersionCount = doc.History.Len()
	record.AnnotationCount = doc.Annotations.Len()

	var authors []string
	for _, a := range meta.Authors {
		authors = append(authors, a.Name)
	}
	record.Authors = strings.Join(authors, ", ")
}

func assetRows(doc *container.Document) []Asset {
	var rows []Asset
	for _, a := range doc.Manifest.Assets.All() {
		base := a.Base()
		row := Asset{
			Path:     base.Path,
			Category: string(a.Category()),
			MimeType: base.MimeType,
			Checksum: base.Checksum,
		}
		if base.SizeBytes != nil {
			row.SizeBytes = *base.SizeBytes
		}
		rows = append(rows, row)
	}
	return rows
}

func issueRows(documentID uint, res *report.Result) []Issue {
	var rows []Issue
	for _, i := range res.All() {
		rows = append(rows, Issue{
			DocumentID: documentID,
			Severity:   string(i.Severity),
			Code:       string(i.Code),
			Path:       i.Path,
			Message:    i.Message,
		})
	}
	return rows
}

func deleteChildren(tx *gorm.DB, documentID uint) error {
	if err := tx.Where("document_id = ?", documentID).Delete(&Asset{}).Error; err != nil {
		return fmt.Errorf("failed to delete assets: %w", err)
	}
	if err := tx.Where("document_id = ?", documentID).Delete(&Issue{}).Error; err != nil {
		return fmt.Errorf("failed to delete issues: %w", err)
	}
	return nil
}

// prune removes rows under dir whose files were not seen in this run
func prune(db *gorm.DB, dir string, seen map[string]bool) (int, error) {
	var docs []Document
	if err := db.Select("id", "path").Find(&docs).Error; err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	prefix := filepath.Clean(dir) + string(filepath.Separator)
	removed := 0
	for _, d := range docs {
		if seen[d.Path] || !strings.HasPrefix(d.Path, prefix) {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := deleteChildren(tx, d.ID); err != nil {
				return err
			}
			return tx.Delete(&Document{}, d.ID).Error
		})
		if err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", d.Path, err)
		}
		removed++
	}
	return removed, nil
}
