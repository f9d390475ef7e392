// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package catalog

import (
	"time"
)

// Document is one indexed container file
type Document struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Path            string    `gorm:"uniqueIndex;not null" json:"path"`
	ManifestID      string    `gorm:"index" json:"manifest_id"`
	Title           string    `json:"title"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Authors         string    `json:"authors,omitempty"`  // comma separated names
	Keywords        string    `json:"keywords,omitempty"` // comma separated
	Language        string    `json:"language,omitempty"`
	Version         string    `json:"version,omitempty"`
	MdxVersion      string    `json:"mdx_version,omitempty"`
	Created         string    `json:"created,omitempty"`
	Modified        string    `json:"modified,omitempty"`
	FileChecksum    string    `gorm:"not null" json:"file_checksum"`
	SizeBytes       int64     `json:"size_bytes"`
	AssetCount      int       `json:"asset_count"`
	VersionCount    int       `json:"version_count"`
	AnnotationCount int       `json:"annotation_count"`
	Valid           bool      `json:"valid"`
	ErrorCount      int       `json:"error_count"`
	WarningCount    int       `json:"warning_count"`
	InfoCount       int       `json:"info_count"`
	IndexedAt       time.Time `json:"indexed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Assets []Asset `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"assets,omitempty"`
	Issues []Issue `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"issues,omitempty"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "mdx_documents"
}

// Asset is a manifest asset record of an indexed document
type Asset struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"index;not null" json:"-"`
	Path       string `gorm:"not null" json:"path"`
	Category   string `json:"category"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
	Checksum   string `json:"checksum,omitempty"`
}

// TableName specifies the table name for Asset
func (Asset) TableName() string {
	return "mdx_assets"
}

// Issue is a validation finding for an indexed document
type Issue struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"index;not null" json:"-"`
	Severity   string `gorm:"not null" json:"severity"`
	Code       string `json:"code"`
	Path       string `json:"path,omitempty"`
	Message    string `gorm:"type:text" json:"message"`
}

// TableName specifies the table name for Issue
func (Issue) TableName() string {
	return "mdx_issues"
}
