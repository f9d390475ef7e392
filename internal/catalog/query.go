// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// List returns every indexed document ordered by path
func List(db *gorm.DB) ([]Document, error) {
	var docs []Document
	if err := db.Order("path").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Search finds documents whose title, description, keywords or authors contain keyword, case-insensitively
func Search(db *gorm.DB, keyword string) ([]Document, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	var docs []Document
	err := db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(authors) LIKE ?",
		pattern, pattern, pattern, pattern).
		Order("path").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return docs, nil
}

// Get returns the document indexed at path with its assets and issues
func Get(db *gorm.DB, path string) (*Document, error) {
	var doc Document
	err := db.Preload("Assets").Preload("Issues").Where("path = ?", path).First(&doc).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", path, err)
	}
	return &doc, nil
}

// IssuesFor returns the validation issues recorded for the document at path
func IssuesFor(db *gorm.DB, path string) ([]Issue, error) {
	var issues []Issue
	err := db.Joins("JOIN mdx_documents ON mdx_documents.id = mdx_issues.document_id").
		Where("mdx_documents.path = ?", path).
		Order("mdx_issues.id").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get issues for %s: %w", path, err)
	}
	return issues, nil
}

// Invalid returns documents that failed validation
func Invalid(db *gorm.DB) ([]Document, error) {
	var docs []Document
	if err := db.Where("valid = ?", false).Order("path").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list invalid documents: %w", err)
	}
	return docs, nil
}
