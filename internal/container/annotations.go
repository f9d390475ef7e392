// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package container

import (
	"github.com/tejzpr/mdx-mcp/internal/annotation"
)

// AddAnnotation records an annotation on the content and enables collaboration if needed
func (d *Document) AddAnnotation(motivation annotation.Motivation, creator annotation.Creator, targetText, body string, opts annotation.Options) (string, error) {
	if opts.Source == "" {
		opts.Source = d.Manifest.EntryPoint()
	}
	id, err := d.Annotations.Add(motivation, creator, targetText, body, opts)
	if err != nil {
		return "", err
	}

	if d.Manifest.Collaboration == nil || !d.Manifest.Collaboration.AllowAnnotations {
		d.Manifest.EnableCollaboration()
	} else {
		d.Manifest.Touch()
	}
	return id, nil
}

// UpdateAnnotationStatus sets an annotation's status. It returns false for an unknown id.
func (d *Document) UpdateAnnotationStatus(id, status string) bool {
	if !d.Annotations.UpdateStatus(id, status) {
		return false
	}
	d.Manifest.Touch()
	return true
}

// AddAnnotationReply appends a reply. It returns false for an unknown id.
func (d *Document) AddAnnotationReply(id string, creator annotation.Creator, body string) (string, bool) {
	replyID, ok := d.Annotations.AddReply(id, creator, body)
	if !ok {
		return "", false
	}
	d.Manifest.Touch()
	return replyID, true
}

// AnnotationList returns every annotation in order
func (d *Document) AnnotationList() []*annotation.Annotation {
	return d.Annotations.Annotations
}
