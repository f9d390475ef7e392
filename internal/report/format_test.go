// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResultEncode(t *testing.T) {
	r := NewResult([]Issue{
		Errorf(CodeChecksumMismatch, "assets/images/a.png", "checksum mismatch"),
		Warningf(CodeOrphanedAsset, "assets/images/b.png", "Orphaned asset"),
	})

	text, err := r.Encode(FormatText)
	require.NoError(t, err)
	assert.Contains(t, text, "FAIL: 1 error(s), 1 warning(s), 0 info\n")
	assert.Contains(t, text, "  [error] MDX051 assets/images/a.png: checksum mismatch\n")

	out, err := r.Encode(FormatJSON)
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.False(t, decoded.Valid)
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, CodeChecksumMismatch, decoded.Errors[0].Code)

	out, err = r.Encode(FormatYAML)
	require.NoError(t, err)
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, false, fromYAML["valid"])

	_, err = r.Encode("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
