// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/tejzpr/mdx-mcp/internal/annotation"
	"github.com/tejzpr/mdx-mcp/internal/assetpath"
	"github.com/tejzpr/mdx-mcp/internal/assets"
	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

type archiveFile struct {
	name string
	data []byte
}

// NewZipReader opens data as a ZIP archive with the klauspost DEFLATE decompressor
func NewZipReader(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// insecure names are reported by the validator and refused by Open
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}
	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
	return zr, nil
}

// ReadZipFile reads one archive entry fully
func ReadZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return data, nil
}

// Open decodes a container from archive bytes
func Open(ctx context.Context, data []byte, options ...Option) (*Document, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}

	zr, err := NewZipReader(data)
	if err != nil {
		return nil, err
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if _, dup := files[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, f.Name)
		}
		if assetpath.EscapesRoot(f.Name) {
			return nil, fmt.Errorf("%w: %s", ErrUnsafeEntry, f.Name)
		}
		files[f.Name] = f
	}

	mf, ok := files[manifest.FileName]
	if !ok {
		return nil, ErrManifestMissing
	}
	raw, err := ReadZipFile(mf)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestMalformed, err)
	}

	entryPoint := m.EntryPoint()
	ef, ok := files[entryPoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryPointMissing, entryPoint)
	}
	content, err := ReadZipFile(ef)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Manifest:    m,
		Assets:      assets.NewStore(),
		History:     history.NewLog(),
		Annotations: annotation.NewSet(),
		content:     string(content),
		config:      cfg,
	}

	versionsFile := m.VersionsFile()
	annotationsFile := m.AnnotationsFile()

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if f.Name == manifest.FileName || f.Name == entryPoint {
			continue
		}

		payload, err := ReadZipFile(f)
		if err != nil {
			return nil, err
		}

		switch f.Name {
		case versionsFile:
			if versions, err := history.Parse(payload); err == nil {
				doc.History = versions
				continue
			}
		case annotationsFile:
			if set, err := annotation.Parse(payload); err == nil {
				doc.Annotations = set
				continue
			}
		}

		// unparseable side-files are kept verbatim so a save does not lose them
		doc.Assets.Put(f.Name, payload)
	}

	return doc, nil
}

// Save encodes the document as a ZIP archive.
// Entries are written as manifest, content, assets by path, other files by path, then side-files.
func (d *Document) Save(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := d.SaveTo(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveTo encodes the document into w
func (d *Document) SaveTo(ctx context.Context, w io.Writer) error {
	issues := d.Manifest.Validate()
	if manifest.HasErrors(issues) {
		var msgs []string
		for _, issue := range issues {
			if issue.Severity == report.SeverityError {
				msgs = append(msgs, issue.Message)
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(msgs, "; "))
	}

	manifestJSON, err := d.Manifest.JSON()
	if err != nil {
		return err
	}

	modified := time.Now().UTC()
	if t, err := d.Manifest.Document.Modified.Time(); err == nil {
		modified = t
	}

	level := d.config.CompressionLevel
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	write := func(name string, data []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	}

	entryPoint := d.Manifest.EntryPoint()
	reserved := map[string]bool{
		manifest.FileName: true,
		entryPoint:        true,
	}

	var sideFiles []archiveFile
	if d.History.Len() > 0 {
		data, err := d.History.JSON()
		if err != nil {
			return err
		}
		name := d.Manifest.VersionsFile()
		reserved[name] = true
		sideFiles = append(sideFiles, archiveFile{name, data})
	}
	if d.Annotations.Len() > 0 {
		data, err := d.Annotations.JSON()
		if err != nil {
			return err
		}
		name := d.Manifest.AnnotationsFile()
		reserved[name] = true
		sideFiles = append(sideFiles, archiveFile{name, data})
	}

	if err := write(manifest.FileName, manifestJSON); err != nil {
		return err
	}
	if err := write(entryPoint, []byte(d.content)); err != nil {
		return err
	}

	var others []string
	for _, p := range d.Assets.SortedPaths() {
		if reserved[p] {
			continue
		}
		if !assetpath.IsAssetPath(p) {
			others = append(others, p)
			continue
		}
		data, _ := d.Assets.Bytes(p)
		if err := write(p, data); err != nil {
			return err
		}
	}
	for _, p := range others {
		data, _ := d.Assets.Bytes(p)
		if err := write(p, data); err != nil {
			return err
		}
	}
	for _, sf := range sideFiles {
		if err := write(sf.name, sf.data); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
