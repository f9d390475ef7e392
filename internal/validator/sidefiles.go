// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validator

import (
	"github.com/tejzpr/mdx-mcp/internal/annotation"
	"github.com/tejzpr/mdx-mcp/internal/history"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

func (r *run) checkHistory() {
	section := object(r.raw, "history")
	file := manifest.DefaultVersionsFile
	if f, ok := str(section, "versions_file"); ok {
		file = f
	}

	data, ok := r.read(file)
	if !ok {
		if boolean(section, "enabled") {
			r.add(report.Warningf(report.CodeHistoryFileMissing, file, "history is enabled but %s is missing", file))
		}
		return
	}

	versions, err := history.Parse(data)
	if err != nil {
		r.add(report.Warningf(report.CodeVersionsMalformed, file, "versions file is malformed: %v", err))
		return
	}
	r.addAll(versions.Check(file))

	for _, e := range versions.Versions {
		switch e.Snapshot.Type {
		case history.SnapshotFull, history.SnapshotDiff:
			if e.Snapshot.Path == "" {
				r.add(report.Errorf(report.CodeSnapshotMissing, file, "version %s has no snapshot path", e.Version))
				continue
			}
			if !r.has(e.Snapshot.Path) {
				r.add(report.Errorf(report.CodeSnapshotMissing, e.Snapshot.Path, "snapshot for version %s is missing from the archive", e.Version))
			}
		}
	}
}

func (r *run) checkAnnotations() {
	file := manifest.DefaultAnnotationsFile
	if f, ok := str(object(r.raw, "collaboration"), "annotations_file"); ok {
		file = f
	}

	data, ok := r.read(file)
	if !ok {
		return
	}
	set, err := annotation.Parse(data)
	if err != nil {
		r.add(report.Warningf(report.CodeAnnotationsMalformed, file, "annotations file is malformed: %v", err))
		return
	}
	r.addAll(set.Check(file))
}
