// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/mdx-mcp/internal/catalog"
	"github.com/tejzpr/mdx-mcp/internal/container"
)

func TestScheduler_IndexesOnStart(t *testing.T) {
	db, err := catalog.Open(&catalog.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	})
	require.NoError(t, err)
	defer catalog.Close(db)

	dir := t.TempDir()
	doc, err := container.Create("Scheduled", container.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, doc.SaveFile(context.Background(), filepath.Join(dir, "scheduled.mdx")))

	sched := NewScheduler(db, dir, time.Hour, nil, nil)
	runs := sched.Runs()
	sched.Start()
	defer sched.Stop()

	select {
	case result := <-runs:
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Created)
	case <-time.After(10 * time.Second):
		t.Fatal("scheduler did not index in time")
	}

	docs, err := catalog.List(db)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Scheduled", docs[0].Title)
}

func TestScheduler_StopTwice(t *testing.T) {
	sched := NewMinuteScheduler(nil, t.TempDir(), 60, nil, nil)
	assert.Equal(t, time.Hour, sched.interval)
	sched.Stop()
	assert.NotPanics(t, sched.Stop)
}
