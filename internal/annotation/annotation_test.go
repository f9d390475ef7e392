// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package annotation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		motivation Motivation
		expected   string
	}{
		{MotivationCommenting, StatusOpen},
		{MotivationHighlighting, StatusActive},
		{MotivationEditing, StatusPending},
		{MotivationQuestioning, StatusOpen},
		{MotivationBookmarking, StatusActive},
		{Motivation("linking"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.motivation), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.motivation.InitialStatus())
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus(MotivationHighlighting, StatusArchived))
	assert.False(t, IsValidStatus(MotivationHighlighting, StatusResolved))
	assert.True(t, IsValidStatus(MotivationEditing, StatusRejected))
	assert.False(t, IsValidStatus(Motivation("x"), StatusOpen))
	assert.Len(t, Motivations(), 5)
}

func TestAdd(t *testing.T) {
	s := NewSet()
	id, err := s.Add(MotivationCommenting, Creator{Name: "Reviewer"}, "Radical Openness", "Key principle",
		Options{Prefix: "1. **", Suffix: "** —"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, IDPrefix))

	a, ok := s.Find(id)
	require.True(t, ok)
	assert.Equal(t, "Annotation", a.Type)
	assert.Equal(t, "Person", a.Creator.Type)
	assert.Equal(t, "document.md", a.Target.Source)
	assert.Equal(t, TextQuoteSelector, a.Target.Selector.Type)
	assert.Equal(t, "Radical Openness", a.Target.Selector.Exact)
	assert.Equal(t, "1. **", a.Target.Selector.Prefix)
	assert.Equal(t, "TextualBody", a.Body.Type)
	assert.Equal(t, "text/plain", a.Body.Format)
	assert.Equal(t, StatusOpen, a.Status)
	assert.NotEmpty(t, a.Created)

	_, err = s.Add(Motivation("linking"), Person("x"), "t", "b", Options{})
	assert.ErrorIs(t, err, ErrInvalidMotivation)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateStatus_IsLenient(t *testing.T) {
	s := NewSet()
	id, err := s.Add(MotivationHighlighting, Person("Reader"), "text", "note", Options{})
	require.NoError(t, err)

	assert.True(t, s.UpdateStatus(id, StatusResolved))
	a, _ := s.Find(id)
	assert.Equal(t, StatusResolved, a.Status)
	assert.Len(t, s.Check("annotations/annotations.json"), 1)

	assert.False(t, s.UpdateStatus("urn:mdx:annotation:missing", StatusArchived))
}

func TestAddReply(t *testing.T) {
	s := NewSet()
	id, err := s.Add(MotivationQuestioning, Person("Q"), "what?", "why?", Options{})
	require.NoError(t, err)

	replyID, ok := s.AddReply(id, Creator{Name: "A"}, "because")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(replyID, ReplyIDPrefix))

	a, _ := s.Find(id)
	require.Len(t, a.Replies, 1)
	assert.Equal(t, "because", a.Replies[0].Body.Value)
	assert.Equal(t, "Person", a.Replies[0].Creator.Type)

	_, ok = s.AddReply("missing", Person("A"), "x")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	s := NewSet()
	_, _ = s.Add(MotivationCommenting, Person("a"), "x", "1", Options{})
	id, _ := s.Add(MotivationCommenting, Person("b"), "y", "2", Options{})
	_, _ = s.Add(MotivationBookmarking, Person("c"), "z", "3", Options{})
	s.UpdateStatus(id, StatusResolved)

	assert.Len(t, s.Filter("", ""), 3)
	assert.Len(t, s.Filter(MotivationCommenting, ""), 2)
	assert.Len(t, s.Filter(MotivationCommenting, StatusOpen), 1)
	assert.Len(t, s.Filter("", StatusActive), 1)
}

func TestJSON_WireFormat(t *testing.T) {
	s := NewSet()
	id, err := s.Add(MotivationCommenting, Person("R"), "span", "body", Options{})
	require.NoError(t, err)
	_, ok := s.AddReply(id, Person("S"), "reply")
	require.True(t, ok)

	data, err := s.JSON()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, Context, raw["@context"])
	assert.Equal(t, SchemaVersion, raw["schema_version"])

	first := raw["annotations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "open", first["mdx:status"])
	assert.Len(t, first["mdx:replies"], 1)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("nope"))
	assert.Error(t, err)

	s, err := Parse([]byte(`{"schema_version":"1.0.0"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestCheck_UnknownMotivation(t *testing.T) {
	s := &Set{Annotations: []*Annotation{{ID: "a", Motivation: "linking"}, {ID: "b", Motivation: MotivationEditing, Status: StatusAccepted}}}
	issues := s.Check("annotations/annotations.json")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "linking")
}
