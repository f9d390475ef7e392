// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/markdown"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// recommended document fields whose absence is reported as info
var recommendedFields = []string{"description", "authors", "language", "version"}

func object(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]interface{})
	return v
}

func str(m map[string]interface{}, key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key].(string)
	return v, ok && v != ""
}

func boolean(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	v, _ := m[key].(bool)
	return v
}

func (r *run) checkFields() {
	if version, ok := str(r.raw, "mdx_version"); !ok {
		r.add(report.Warningf(report.CodeVersionFormat, "mdx_version", "mdx_version is missing"))
	} else if err := validation.Validate(version, validation.Match(manifest.SemverRegex)); err != nil {
		r.add(report.Warningf(report.CodeVersionFormat, "mdx_version", "mdx_version %q is not a semantic version", version))
	}

	doc := object(r.raw, "document")
	if doc == nil {
		r.add(report.Errorf(report.CodeRequiredField, "document", "document section is missing"))
	}

	if id, ok := str(doc, "id"); !ok {
		r.add(report.Warningf(report.CodeDocumentID, "document.id", "document.id is missing"))
	} else if err := validation.Validate(id, is.UUIDv4); err != nil {
		r.add(report.Warningf(report.CodeDocumentID, "document.id", "document.id %q is not a UUID v4", id))
	}

	if _, ok := str(doc, "title"); !ok {
		r.add(report.Errorf(report.CodeTitleMissing, "document.title", "document.title is required"))
	}

	created := r.checkTimestamp(doc, "created")
	modified := r.checkTimestamp(doc, "modified")
	if created.IsValid() && modified.IsValid() && modified.Before(created) {
		r.add(report.Warningf(report.CodeTimestampOrder, "document.modified", "modified is earlier than created"))
	}

	if doc != nil {
		for _, field := range recommendedFields {
			if v, ok := doc[field]; !ok || isEmpty(v) {
				r.add(report.Infof(report.CodeOptionalField, "document."+field, "optional field document.%s is not set", field))
			}
		}
	}
}

func (r *run) checkTimestamp(doc map[string]interface{}, field string) manifest.Timestamp {
	value, ok := str(doc, field)
	if !ok {
		r.add(report.Warningf(report.CodeTimestamp, "document."+field, "document.%s is missing", field))
		return ""
	}
	ts := manifest.Timestamp(value)
	if !ts.IsValid() {
		r.add(report.Warningf(report.CodeTimestamp, "document."+field, "document.%s %q is not an ISO-8601 timestamp", field, value))
		return ""
	}
	return ts
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	}
	return false
}

func (r *run) entryPoint() string {
	if ep, ok := str(object(r.raw, "content"), "entry_point"); ok {
		return ep
	}
	return manifest.DefaultEntryPoint
}

func (r *run) checkEntryPoint() {
	entry := r.entryPoint()
	data, ok := r.read(entry)
	if !ok {
		r.add(report.Errorf(report.CodeEntryPointMissing, entry, "entry point %s is missing from the archive", entry))
		return
	}

	base := path.Dir(entry)
	for _, ref := range markdown.LocalReferences(string(data)) {
		target := strings.TrimPrefix(ref, "/")
		if r.has(target) || (base != "." && r.has(path.Join(base, target))) {
			continue
		}
		r.add(report.Errorf(report.CodeBrokenReference, ref, "referenced file %s is not in the archive", ref))
	}
}
