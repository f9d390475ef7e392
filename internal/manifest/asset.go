// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package manifest

import (
	"errors"
	"fmt"

	"github.com/tejzpr/mdx-mcp/internal/assetpath"
)

var (
	// ErrCategoryMismatch is returned when an asset record does not belong to the target category
	ErrCategoryMismatch = errors.New("asset category mismatch")
	// ErrDuplicateAsset is returned when an asset path is already in the inventory
	ErrDuplicateAsset = errors.New("asset already exists")
	// ErrAssetNotFound is returned when no asset record has the path
	ErrAssetNotFound = errors.New("asset not found")
)

// Asset is one categorized record of the inventory
type Asset interface {
	Base() *BaseAsset
	Category() assetpath.Category
}

// BaseAsset holds the fields shared by every category
type BaseAsset struct {
	Path        string `json:"path"`
	MimeType    string `json:"mime_type,omitempty"`
	SizeBytes   *int64 `json:"size_bytes,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Base returns the shared fields
func (b *BaseAsset) Base() *BaseAsset { return b }

// Track is a caption or audio track attached to a video
type Track struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Label    string `json:"label,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

// ImageAsset describes an image
type ImageAsset struct {
	BaseAsset
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	AltText string `json:"alt_text,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Category implements Asset
func (*ImageAsset) Category() assetpath.Category { return assetpath.CategoryImages }

// VideoAsset describes a video
type VideoAsset struct {
	BaseAsset
	Duration    *float64 `json:"duration_seconds,omitempty"`
	Width       *int     `json:"width,omitempty"`
	Height      *int     `json:"height,omitempty"`
	Codec       string   `json:"codec,omitempty"`
	Poster      string   `json:"poster,omitempty"`
	Captions    []Track  `json:"captions,omitempty"`
	AudioTracks []Track  `json:"audio_tracks,omitempty"`
}

// Category implements Asset
func (*VideoAsset) Category() assetpath.Category { return assetpath.CategoryVideo }

// AudioAsset describes an audio clip
type AudioAsset struct {
	BaseAsset
	Duration   *float64 `json:"duration_seconds,omitempty"`
	Codec      string   `json:"codec,omitempty"`
	Channels   *int     `json:"channels,omitempty"`
	SampleRate *int     `json:"sample_rate,omitempty"`
	Transcript string   `json:"transcript,omitempty"`
}

// Category implements Asset
func (*AudioAsset) Category() assetpath.Category { return assetpath.CategoryAudio }

// ModelAsset describes a 3D model
type ModelAsset struct {
	BaseAsset
	Format        string   `json:"format,omitempty"`
	FormatVersion string   `json:"format_version,omitempty"`
	VertexCount   *int     `json:"vertex_count,omitempty"`
	TriangleCount *int     `json:"triangle_count,omitempty"`
	Preview       string   `json:"preview,omitempty"`
	Animations    []string `json:"animations,omitempty"`
}

// Category implements Asset
func (*ModelAsset) Category() assetpath.Category { return assetpath.CategoryModels }

// DocumentAsset describes an embedded document such as a PDF
type DocumentAsset struct {
	BaseAsset
	PageCount *int `json:"page_count,omitempty"`
}

// Category implements Asset
func (*DocumentAsset) Category() assetpath.Category { return assetpath.CategoryDocuments }

// DataAsset describes a tabular or structured data file
type DataAsset struct {
	BaseAsset
	Rows      *int   `json:"rows,omitempty"`
	Columns   *int   `json:"columns,omitempty"`
	HasHeader *bool  `json:"has_header,omitempty"`
	Schema    string `json:"schema,omitempty"`
}

// Category implements Asset
func (*DataAsset) Category() assetpath.Category { return assetpath.CategoryData }

// FontAsset describes a font file
type FontAsset struct {
	BaseAsset
	Family string `json:"family,omitempty"`
	Weight string `json:"weight,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Category implements Asset
func (*FontAsset) Category() assetpath.Category { return assetpath.CategoryFonts }

// OtherAsset describes an uncategorized payload
type OtherAsset struct {
	BaseAsset
}

// Category implements Asset
func (*OtherAsset) Category() assetpath.Category { return assetpath.CategoryOther }

// Inventory holds asset records by category
type Inventory struct {
	Images    []*ImageAsset    `json:"images,omitempty"`
	Video     []*VideoAsset    `json:"video,omitempty"`
	Audio     []*AudioAsset    `json:"audio,omitempty"`
	Models    []*ModelAsset    `json:"models,omitempty"`
	Documents []*DocumentAsset `json:"documents,omitempty"`
	Data      []*DataAsset     `json:"data,omitempty"`
	Fonts     []*FontAsset     `json:"fonts,omitempty"`
	Other     []*OtherAsset    `json:"other,omitempty"`
}

// NewAsset returns an empty record of the category's shape
func NewAsset(category assetpath.Category, base BaseAsset) (Asset, error) {
	switch category {
	case assetpath.CategoryImages:
		return &ImageAsset{BaseAsset: base}, nil
	case assetpath.CategoryVideo:
		return &VideoAsset{BaseAsset: base}, nil
	case assetpath.CategoryAudio:
		return &AudioAsset{BaseAsset: base}, nil
	case assetpath.CategoryModels:
		return &ModelAsset{BaseAsset: base}, nil
	case assetpath.CategoryDocuments:
		return &DocumentAsset{BaseAsset: base}, nil
	case assetpath.CategoryData:
		return &DataAsset{BaseAsset: base}, nil
	case assetpath.CategoryFonts:
		return &FontAsset{BaseAsset: base}, nil
	case assetpath.CategoryOther:
		return &OtherAsset{BaseAsset: base}, nil
	default:
		return nil, fmt.Errorf("unknown asset category: %s", category)
	}
}

// All returns every record in category order
func (inv *Inventory) All() []Asset {
	var out []Asset
	for _, a := range inv.Images {
		out = append(out, a)
	}
	for _, a := range inv.Video {
		out = append(out, a)
	}
	for _, a := range inv.Audio {
		out = append(out, a)
	}
	for _, a := range inv.Models {
		out = append(out, a)
	}
	for _, a := range inv.Documents {
		out = append(out, a)
	}
	for _, a := range inv.Data {
		out = append(out, a)
	}
	for _, a := range inv.Fonts {
		out = append(out, a)
	}
	for _, a := range inv.Other {
		out = append(out, a)
	}
	return out
}

// Len returns the number of records
func (inv *Inventory) Len() int {
	return len(inv.Images) + len(inv.Video) + len(inv.Audio) + len(inv.Models) +
		len(inv.Documents) + len(inv.Data) + len(inv.Fonts) + len(inv.Other)
}

// Find returns the record with the path
func (inv *Inventory) Find(path string) (Asset, bool) {
	for _, a := range inv.All() {
		if a.Base().Path == path {
			return a, true
		}
	}
	return nil, false
}

func (inv *Inventory) add(a Asset) {
	switch v := a.(type) {
	case *ImageAsset:
		inv.Images = append(inv.Images, v)
	case *VideoAsset:
		inv.Video = append(inv.Video, v)
	case *AudioAsset:
		inv.Audio = append(inv.Audio, v)
	case *ModelAsset:
		inv.Models = append(inv.Models, v)
	case *DocumentAsset:
		inv.Documents = append(inv.Documents, v)
	case *DataAsset:
		inv.Data = append(inv.Data, v)
	case *FontAsset:
		inv.Fonts = append(inv.Fonts, v)
	case *OtherAsset:
		inv.Other = append(inv.Other, v)
	}
}

func removeFrom[T Asset](list []T, path string) ([]T, bool) {
	for i, a := range list {
		if a.Base().Path == path {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

func (inv *Inventory) remove(path string) bool {
	var ok bool
	if inv.Images, ok = removeFrom(inv.Images, path); ok {
		return true
	}
	if inv.Video, ok = removeFrom(inv.Video, path); ok {
		return true
	}
	if inv.Audio, ok = removeFrom(inv.Audio, path); ok {
		return true
	}
	if inv.Models, ok = removeFrom(inv.Models, path); ok {
		return true
	}
	if inv.Documents, ok = removeFrom(inv.Documents, path); ok {
		return true
	}
	if inv.Data, ok = removeFrom(inv.Data, path); ok {
		return true
	}
	if inv.Fonts, ok = removeFrom(inv.Fonts, path); ok {
		return true
	}
	inv.Other, ok = removeFrom(inv.Other, path)
	return ok
}

func replaceIn[T Asset](list []T, a Asset) bool {
	v, ok := a.(T)
	if !ok {
		return false
	}
	for i, old := range list {
		if old.Base().Path == a.Base().Path {
			list[i] = v
			return true
		}
	}
	return false
}

func (inv *Inventory) replace(a Asset) bool {
	switch a.(type) {
	case *ImageAsset:
		return replaceIn(inv.Images, a)
	case *VideoAsset:
		return replaceIn(inv.Video, a)
	case *AudioAsset:
		return replaceIn(inv.Audio, a)
	case *ModelAsset:
		return replaceIn(inv.Models, a)
	case *DocumentAsset:
		return replaceIn(inv.Documents, a)
	case *DataAsset:
		return replaceIn(inv.Data, a)
	case *FontAsset:
		return replaceIn(inv.Fonts, a)
	case *OtherAsset:
		return replaceIn(inv.Other, a)
	}
	return false
}

// AddAsset appends a record to the category's array.
// The record's shape and, when present, its path prefix must match category.
func (m *Manifest) AddAsset(a Asset, category assetpath.Category) error {
	if a == nil {
		return fmt.Errorf("asset is nil")
	}
	if a.Category() != category {
		return fmt.Errorf("%w: %s record cannot be added to %s", ErrCategoryMismatch, a.Category(), category)
	}
	path := a.Base().Path
	if implied, ok := assetpath.CategoryFromPath(path); ok && implied != category {
		return fmt.Errorf("%w: path %s implies %s, not %s", ErrCategoryMismatch, path, implied, category)
	}
	if _, exists := m.Assets.Find(path); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAsset, path)
	}

	m.Assets.add(a)
	m.touch()
	return nil
}

// FindAsset returns the record with the path
func (m *Manifest) FindAsset(path string) (Asset, bool) {
	return m.Assets.Find(path)
}

// UpdateAsset merges the non-zero fields of patch into the record at path.
// The patch must have the same category as the existing record. Path is never changed.
func (m *Manifest) UpdateAsset(path string, patch Asset) error {
	existing, ok := m.Assets.Find(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	if patch == nil {
		return nil
	}
	if patch.Category() != existing.Category() {
		return fmt.Errorf("%w: cannot change %s from %s to %s", ErrCategoryMismatch, path, existing.Category(), patch.Category())
	}

	mergeAsset(existing, patch)
	m.touch()
	return nil
}

// ReplaceAsset swaps the record at a's path for a, keeping its position.
// Unlike UpdateAsset no field of the old record survives.
func (m *Manifest) ReplaceAsset(a Asset) error {
	if a == nil {
		return fmt.Errorf("asset is nil")
	}
	path := a.Base().Path
	existing, ok := m.Assets.Find(path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	if a.Category() != existing.Category() {
		return fmt.Errorf("%w: cannot change %s from %s to %s", ErrCategoryMismatch, path, existing.Category(), a.Category())
	}
	m.Assets.replace(a)
	m.touch()
	return nil
}

// RemoveAsset deletes the record with the path
func (m *Manifest) RemoveAsset(path string) bool {
	if !m.Assets.remove(path) {
		return false
	}
	m.touch()
	return true
}

// AssetPaths returns every declared asset path in inventory order
func (m *Manifest) AssetPaths() []string {
	all := m.Assets.All()
	paths := make([]string, 0, len(all))
	for _, a := range all {
		paths = append(paths, a.Base().Path)
	}
	return paths
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeSlice[T any](dst *[]T, src []T) {
	if src != nil {
		*dst = append([]T(nil), src...)
	}
}

func mergeBase(dst, src *BaseAsset) {
	mergeString(&dst.MimeType, src.MimeType)
	mergePtr(&dst.SizeBytes, src.SizeBytes)
	mergeString(&dst.Checksum, src.Checksum)
	mergeString(&dst.Title, src.Title)
	mergeString(&dst.Description, src.Description)
}

// mergeAsset copies set fields of src onto dst. Both must be the same variant.
func mergeAsset(dst, src Asset) {
	mergeBase(dst.Base(), src.Base())

	switch d := dst.(type) {
	case *ImageAsset:
		s := src.(*ImageAsset)
		mergePtr(&d.Width, s.Width)
		mergePtr(&d.Height, s.Height)
		mergeString(&d.AltText, s.AltText)
		mergeString(&d.Caption, s.Caption)
	case *VideoAsset:
		s := src.(*VideoAsset)
		mergePtr(&d.Duration, s.Duration)
		mergePtr(&d.Width, s.Width)
		mergePtr(&d.Height, s.Height)
		mergeString(&d.Codec, s.Codec)
		mergeString(&d.Poster, s.Poster)
		mergeSlice(&d.Captions, s.Captions)
		mergeSlice(&d.AudioTracks, s.AudioTracks)
	case *AudioAsset:
		s := src.(*AudioAsset)
		mergePtr(&d.Duration, s.Duration)
		mergeString(&d.Codec, s.Codec)
		mergePtr(&d.Channels, s.Channels)
		mergePtr(&d.SampleRate, s.SampleRate)
		mergeString(&d.Transcript, s.Transcript)
	case *ModelAsset:
		s := src.(*ModelAsset)
		mergeString(&d.Format, s.Format)
		mergeString(&d.FormatVersion, s.FormatVersion)
		mergePtr(&d.VertexCount, s.VertexCount)
		mergePtr(&d.TriangleCount, s.TriangleCount)
		mergeString(&d.Preview, s.Preview)
		mergeSlice(&d.Animations, s.Animations)
	case *DocumentAsset:
		s := src.(*DocumentAsset)
		mergePtr(&d.PageCount, s.PageCount)
	case *DataAsset:
		s := src.(*DataAsset)
		mergePtr(&d.Rows, s.Rows)
		mergePtr(&d.Columns, s.Columns)
		mergePtr(&d.HasHeader, s.HasHeader)
		mergeString(&d.Schema, s.Schema)
	case *FontAsset:
		s := src.(*FontAsset)
		mergeString(&d.Family, s.Family)
		mergeString(&d.Weight, s.Weight)
		mergeString(&d.Style, s.Style)
	case *OtherAsset:
	}
}
