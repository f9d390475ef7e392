// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package annotation models annotations/annotations.json, W3C-style annotations on the content.
package annotation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tejzpr/mdx-mcp/internal/manifest"
	"github.com/tejzpr/mdx-mcp/internal/report"
)

// Constants written to annotations.json
const (
	SchemaVersion = "1.0.0"
	Context       = "http://www.w3.org/ns/anno.jsonld"
	IDPrefix      = "urn:mdx:annotation:"
	ReplyIDPrefix = "urn:mdx:reply:"
)

// ErrInvalidMotivation is returned for a motivation outside the fixed set
var ErrInvalidMotivation = errors.New("invalid annotation motivation")

// Motivation is why an annotation was made
type Motivation string

const (
	MotivationCommenting   Motivation = "commenting"
	MotivationHighlighting Motivation = "highlighting"
	MotivationEditing      Motivation = "editing"
	MotivationQuestioning  Motivation = "questioning"
	MotivationBookmarking  Motivation = "bookmarking"
)

// Status values
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusAnswered = "answered"
)

// statusTable lists legal statuses per motivation; the first is the initial one
var statusTable = map[Motivation][]string{
	MotivationCommenting:   {StatusOpen, StatusResolved},
	MotivationHighlighting: {StatusActive, StatusArchived},
	MotivationEditing:      {StatusPending, StatusAccepted, StatusRejected},
	MotivationQuestioning:  {StatusOpen, StatusAnswered},
	MotivationBookmarking:  {StatusActive, StatusArchived},
}

// Motivations returns the fixed motivation set
func Motivations() []Motivation {
	return []Motivation{
		MotivationCommenting,
		MotivationHighlighting,
		MotivationEditing,
		MotivationQuestioning,
		MotivationBookmarking,
	}
}

// IsValid reports whether m is one of the fixed motivations
func (m Motivation) IsValid() bool {
	_, ok := statusTable[m]
	return ok
}

// InitialStatus returns the status a new annotation of this motivation starts in
func (m Motivation) InitialStatus() string {
	statuses, ok := statusTable[m]
	if !ok {
		return ""
	}
	return statuses[0]
}

// Statuses returns the legal statuses for the motivation
func (m Motivation) Statuses() []string {
	return append([]string(nil), statusTable[m]...)
}

// IsValidStatus reports whether status is legal for motivation
func IsValidStatus(m Motivation, status string) bool {
	for _, s := range statusTable[m] {
		if s == status {
			return true
		}
	}
	return false
}

// Creator identifies the author of an annotation or reply
type Creator struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Person builds a Person creator
func Person(name string) Creator {
	return Creator{Type: "Person", Name: name}
}

// Selector identifies the targeted span
type Selector struct {
	Type   string `json:"type"`
	Exact  string `json:"exact,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
	Start  *int   `json:"start,omitempty"`
	End    *int   `json:"end,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Selector types
const (
	TextQuoteSelector    = "TextQuoteSelector"
	TextPositionSelector = "TextPositionSelector"
	FragmentSelector     = "FragmentSelector"
)

// Target is the annotated resource and span
type Target struct {
	Source   string    `json:"source"`
	Selector *Selector `json:"selector,omitempty"`
}

// Body is the annotation text
type Body struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Format string `json:"format,omitempty"`
}

// TextBody builds a plain-text body
func TextBody(value string) Body {
	return Body{Type: "TextualBody", Value: value, Format: "text/plain"}
}

// Reply is a response appended to an annotation
type Reply struct {
	ID      string             `json:"id"`
	Creator Creator            `json:"creator"`
	Created manifest.Timestamp `json:"created"`
	Body    Body               `json:"body"`
}

// Annotation is one W3C annotation with MDX status and replies
type Annotation struct {
	ID         string             `json:"id"`
	Type       string             `json:"type"`
	Motivation Motivation         `json:"motivation"`
	Created    manifest.Timestamp `json:"created"`
	Modified   manifest.Timestamp `json:"modified,omitempty"`
	Creator    Creator            `json:"creator"`
	Target     Target             `json:"target"`
	Body       Body               `json:"body"`
	Status     string             `json:"mdx:status,omitempty"`
	Replies    []Reply            `json:"mdx:replies,omitempty"`
}

// Options are optional inputs to Add
type Options struct {
	Source string
	Prefix string
	Suffix string
	Format string
}

// Set is the annotation list stored in annotations.json
type Set struct {
	SchemaVersion string        `json:"schema_version"`
	Context       string        `json:"@context"`
	Annotations   []*Annotation `json:"annotations"`
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{SchemaVersion: SchemaVersion, Context: Context, Annotations: []*Annotation{}}
}

// Parse decodes annotations.json
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse annotations file: %w", err)
	}
	if s.Annotations == nil {
		s.Annotations = []*Annotation{}
	}
	return &s, nil
}

// JSON encodes the set pretty-printed
func (s *Set) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal annotations file: %w", err)
	}
	return data, nil
}

// Len returns the number of annotations
func (s *Set) Len() int {
	return len(s.Annotations)
}

// Find returns the annotation with the id
func (s *Set) Find(id string) (*Annotation, bool) {
	for _, a := range s.Annotations {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Add appends an annotation targeting targetText with a TextQuoteSelector and returns its id
func (s *Set) Add(motivation Motivation, creator Creator, targetText, body string, opts Options) (string, error) {
	if !motivation.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidMotivation, motivation)
	}
	if creator.Type == "" {
		creator.Type = "Person"
	}

	source := opts.Source
	if source == "" {
		source = manifest.DefaultEntryPoint
	}
	b := TextBody(body)
	if opts.Format != "" {
		b.Format = opts.Format
	}

	a := &Annotation{
		ID:         IDPrefix + uuid.NewString(),
		Type:       "Annotation",
		Motivation: motivation,
		Created:    manifest.Now(),
		Creator:    creator,
		Target: Target{
			Source: source,
			Selector: &Selector{
				Type:   TextQuoteSelector,
				Exact:  targetText,
				Prefix: opts.Prefix,
				Suffix: opts.Suffix,
			},
		},
		Body:   b,
		Status: motivation.InitialStatus(),
	}

	s.Annotations = append(s.Annotations, a)
	return a.ID, nil
}

// UpdateStatus sets the status of the annotation with id.
// It returns false only when id is unknown; the status is not checked against the motivation.
func (s *Set) UpdateStatus(id, status string) bool {
	a, ok := s.Find(id)
	if !ok {
		return false
	}
	a.Status = status
	a.Modified = manifest.Now()
	return true
}

// AddReply appends a reply and returns its id. It returns false when id is unknown.
func (s *Set) AddReply(id string, creator Creator, body string) (string, bool) {
	a, ok := s.Find(id)
	if !ok {
		return "", false
	}
	if creator.Type == "" {
		creator.Type = "Person"
	}

	reply := Reply{
		ID:      ReplyIDPrefix + uuid.NewString(),
		Creator: creator,
		Created: manifest.Now(),
		Body:    TextBody(body),
	}
	a.Replies = append(a.Replies, reply)
	a.Modified = reply.Created
	return reply.ID, true
}

// Filter returns annotations matching motivation and status; empty values match all
func (s *Set) Filter(motivation Motivation, status string) []*Annotation {
	var out []*Annotation
	for _, a := range s.Annotations {
		if motivation != "" && a.Motivation != motivation {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Check reports unknown motivations and statuses illegal for their motivation as warnings
func (s *Set) Check(file string) []report.Issue {
	var issues []report.Issue
	for _, a := range s.Annotations {
		if !a.Motivation.IsValid() {
			issues = append(issues, report.Warningf(report.CodeAnnotationStatus, file,
				"annotation %s has unknown motivation %q", a.ID, a.Motivation))
			continue
		}
		if a.Status != "" && !IsValidStatus(a.Motivation, a.Status) {
			issues = append(issues, report.Warningf(report.CodeAnnotationStatus, file,
				"annotation %s has status %q, not legal for %s (expected one of %v)",
				a.ID, a.Status, a.Motivation, a.Motivation.Statuses()))
		}
	}
	return issues
}
