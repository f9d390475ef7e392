// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"bytes"
	"encoding/csv"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
)

// Probe fills category fields that can be read from the bytes.
// Failures leave the fields unset.
func Probe(record manifest.Asset, data []byte) {
	switch r := record.(type) {
	case *manifest.ImageAsset:
		if w, h, ok := probeImage(data); ok {
			r.Width, r.Height = &w, &h
		}
	case *manifest.DocumentAsset:
		if r.MimeType == "application/pdf" {
			if pages, ok := probePDF(data); ok {
				r.PageCount = &pages
			}
		}
	case *manifest.DataAsset:
		var comma rune
		switch r.MimeType {
		case "text/csv":
			comma = ','
		case "text/tab-separated-values":
			comma = '\t'
		default:
			return
		}
		if rows, cols, header, ok := probeTable(data, comma); ok {
			r.Rows, r.Columns, r.HasHeader = &rows, &cols, &header
		}
	}
}

func probeImage(data []byte) (int, int, bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func probePDF(data []byte) (pages int, ok bool) {
	defer func() {
		if recover() != nil {
			pages, ok = 0, false
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, false
	}
	return reader.NumPage(), true
}

// probeTable counts data rows and columns. A first row with no numeric cells
// followed by a row with one is treated as a header.
func probeTable(data []byte, comma rune) (rows, cols int, header bool, ok bool) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, false, false
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return 0, 0, false, false
	}

	cols = len(records[0])
	header = len(records) > 1 && !anyNumeric(records[0]) && anyNumeric(records[1])
	rows = len(records)
	if header {
		rows--
	}
	return rows, cols, header, true
}

func anyNumeric(cells []string) bool {
	for _, c := range cells {
		if _, err := strconv.ParseFloat(strings.TrimSpace(c), 64); err == nil {
			return true
		}
	}
	return false
}
