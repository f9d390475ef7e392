// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package assetpath

import (
	"path"
	"strings"
)

// Category identifies one of the asset directories of a container
type Category string

// Category constants. The value doubles as the directory name under assets/
// and as the key of the manifest asset inventory.
const (
	CategoryImages    Category = "images"
	CategoryVideo     Category = "video"
	CategoryAudio     Category = "audio"
	CategoryModels    Category = "models"
	CategoryDocuments Category = "documents"
	CategoryData      Category = "data"
	CategoryFonts     Category = "fonts"
	CategoryOther     Category = "other"
)

// Root is the archive directory holding every categorized asset
const Root = "assets/"

// Categories returns all categories in inventory order
func Categories() []Category {
	return []Category{
		CategoryImages,
		CategoryVideo,
		CategoryAudio,
		CategoryModels,
		CategoryDocuments,
		CategoryData,
		CategoryFonts,
		CategoryOther,
	}
}

// IsValid checks if a category is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Dir returns the archive directory for the category, with trailing slash
func (c Category) Dir() string {
	return Root + string(c) + "/"
}

type extensionInfo struct {
	category Category
	mimeType string
}

// extensions is the fixed extension table. Keys are lowercase with a leading dot.
var extensions = map[string]extensionInfo{
	// images
	".png":  {CategoryImages, "image/png"},
	".jpg":  {CategoryImages, "image/jpeg"},
	".jpeg": {CategoryImages, "image/jpeg"},
	".gif":  {CategoryImages, "image/gif"},
	".webp": {CategoryImages, "image/webp"},
	".svg":  {CategoryImages, "image/svg+xml"},
	".avif": {CategoryImages, "image/avif"},
	".bmp":  {CategoryImages, "image/bmp"},
	".ico":  {CategoryImages, "image/vnd.microsoft.icon"},
	".tif":  {CategoryImages, "image/tiff"},
	".tiff": {CategoryImages, "image/tiff"},
	".heic": {CategoryImages, "image/heic"},

	// video
	".mp4":  {CategoryVideo, "video/mp4"},
	".webm": {CategoryVideo, "video/webm"},
	".ogv":  {CategoryVideo, "video/ogg"},
	".mov":  {CategoryVideo, "video/quicktime"},
	".avi":  {CategoryVideo, "video/x-msvideo"},
	".mkv":  {CategoryVideo, "video/x-matroska"},
	".m4v":  {CategoryVideo, "video/x-m4v"},

	// audio
	".mp3":  {CategoryAudio, "audio/mpeg"},
	".wav":  {CategoryAudio, "audio/wav"},
	".ogg":  {CategoryAudio, "audio/ogg"},
	".oga":  {CategoryAudio, "audio/ogg"},
	".flac": {CategoryAudio, "audio/flac"},
	".aac":  {CategoryAudio, "audio/aac"},
	".m4a":  {CategoryAudio, "audio/mp4"},
	".opus": {CategoryAudio, "audio/opus"},
	".weba": {CategoryAudio, "audio/webm"},

	// 3D models
	".gltf": {CategoryModels, "model/gltf+json"},
	".glb":  {CategoryModels, "model/gltf-binary"},
	".obj":  {CategoryModels, "model/obj"},
	".stl":  {CategoryModels, "model/stl"},
	".fbx":  {CategoryModels, "application/octet-stream"},
	".usdz": {CategoryModels, "model/vnd.usdz+zip"},
	".ply":  {CategoryModels, "application/x-ply"},
	".3ds":  {CategoryModels, "application/x-3ds"},
	".dae":  {CategoryModels, "model/vnd.collada+xml"},

	// documents
	".pdf":  {CategoryDocuments, "application/pdf"},
	".doc":  {CategoryDocuments, "application/msword"},
	".docx": {CategoryDocuments, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".odt":  {CategoryDocuments, "application/vnd.oasis.opendocument.text"},
	".rtf":  {CategoryDocuments, "application/rtf"},
	".txt":  {CategoryDocuments, "text/plain"},
	".epub": {CategoryDocuments, "application/epub+zip"},
	".ppt":  {CategoryDocuments, "application/vnd.ms-powerpoint"},
	".pptx": {CategoryDocuments, "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	".odp":  {CategoryDocuments, "application/vnd.oasis.opendocument.presentation"},

	// data
	".csv":     {CategoryData, "text/csv"},
	".tsv":     {CategoryData, "text/tab-separated-values"},
	".json":    {CategoryData, "application/json"},
	".xml":     {CategoryData, "application/xml"},
	".yaml":    {CategoryData, "application/yaml"},
	".yml":     {CategoryData, "application/yaml"},
	".parquet": {CategoryData, "application/vnd.apache.parquet"},
	".geojson": {CategoryData, "application/geo+json"},
	".xls":     {CategoryData, "application/vnd.ms-excel"},
	".xlsx":    {CategoryData, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	".ods":     {CategoryData, "application/vnd.oasis.opendocument.spreadsheet"},

	// fonts
	".woff":  {CategoryFonts, "font/woff"},
	".woff2": {CategoryFonts, "font/woff2"},
	".ttf":   {CategoryFonts, "font/ttf"},
	".otf":   {CategoryFonts, "font/otf"},
	".eot":   {CategoryFonts, "application/vnd.ms-fontobject"},
}

// DefaultMimeType is used for extensions missing from the table
const DefaultMimeType = "application/octet-stream"

// normalizeExt lowercases an extension and ensures the leading dot
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// CategoryForExtension returns the category for a file extension.
// The second return value is false when the extension is not in the table.
func CategoryForExtension(ext string) (Category, bool) {
	info, ok := extensions[normalizeExt(ext)]
	if !ok {
		return "", false
	}
	return info.category, true
}

// CategoryForFilename derives the category from a filename, falling back to CategoryOther
func CategoryForFilename(name string) Category {
	if c, ok := CategoryForExtension(path.Ext(name)); ok {
		return c
	}
	return CategoryOther
}

// MimeTypeForExtension returns the MIME type for an extension, or DefaultMimeType
func MimeTypeForExtension(ext string) string {
	if info, ok := extensions[normalizeExt(ext)]; ok {
		return info.mimeType
	}
	return DefaultMimeType
}

// MimeTypeForFilename returns the MIME type implied by a filename's extension
func MimeTypeForFilename(name string) string {
	return MimeTypeForExtension(path.Ext(name))
}

// Extensions returns every extension in the table. Order is unspecified.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	return out
}

// CategoryFromPath returns the category implied by an archive path of the form
// assets/<category>/... The second return value is false for any other path.
func CategoryFromPath(p string) (Category, bool) {
	if !strings.HasPrefix(p, Root) {
		return "", false
	}
	rest := strings.TrimPrefix(p, Root)
	idx := strings.Index(rest, "/")
	if idx <= 0 {
		return "", false
	}
	c := Category(rest[:idx])
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// IsAssetPath reports whether p lives under the assets/ directory
func IsAssetPath(p string) bool {
	return strings.HasPrefix(p, Root)
}
