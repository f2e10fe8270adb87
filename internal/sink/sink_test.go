package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/dfsmon/internal/engine"
	"github.com/dm/dfsmon/internal/logging"
	"github.com/dm/dfsmon/internal/model"
)

// sampleSummary aggregates the single-node, single-file, single-chunk cluster.
func sampleSummary() *model.Summary {
	s := engine.Aggregate(&model.Snapshot{
		Nodes: map[string]model.NodeDetail{
			"n1": {Active: true, StorageRemaining: 2097152, Addr: "10.0.0.1:7001"},
		},
		Files: map[string][]string{"f1": {"c1"}},
		Chunks: map[string]model.ChunkDetail{
			"c1": {StartOffset: 0, EndOffset: 100, State: "COMMITTED", Locations: []string{"n1"}},
		},
	}, engine.Options{})
	s.ReceivedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return s
}

var errPoll = errors.New("snapshot poll: status 503")

// Compile-time checks that every sink satisfies engine.Sink.
var (
	_ engine.Sink = (*Channel)(nil)
	_ engine.Sink = (*Latest)(nil)
	_ engine.Sink = (*JSONLines)(nil)
	_ engine.Sink = Fanout(nil)
)

func TestNewSummaryView(t *testing.T) {
	v := NewSummaryView(sampleSummary())

	assert.Nil(t, v.CapturedAt)
	assert.Equal(t, NodesView{Total: 1, Active: 1, Inactive: 0, StorageRemainingMiB: "2.00"}, v.Nodes)
	require.Len(t, v.Files, 1)
	assert.Equal(t, FileView{Name: "f1", Size: 100, ChunkIDs: "c1"}, v.Files[0])
	require.Len(t, v.Chunks, 1)
	assert.Equal(t, ChunkView{
		ID: "c1", StartOffset: 0, EndOffset: 100, Size: 100,
		State: "COMMITTED", Locations: "n1", Replication: "under -2",
	}, v.Chunks[0])
	require.Len(t, v.NodeRows, 1)
	assert.Equal(t, NodeView{ID: "n1", Addr: "10.0.0.1:7001", Active: true, StorageRemaining: 2097152, Chunks: 1}, v.NodeRows[0])
	assert.Empty(t, v.Issues)
}

func TestNewSummaryView_EmptyAndIssues(t *testing.T) {
	s := engine.Aggregate(&model.Snapshot{
		Files: map[string][]string{"f1": {"gone"}},
	}, engine.Options{})
	s.CapturedAt = time.Unix(1700000000, 0)

	v := NewSummaryView(s)
	assert.Equal(t, "0.00", v.Nodes.StorageRemainingMiB)
	require.NotNil(t, v.CapturedAt)
	assert.NotNil(t, v.Chunks)
	require.Len(t, v.Issues, 1)
	assert.Contains(t, v.Issues[0], `chunk "gone"`)
	assert.Equal(t, []string{"gone"}, v.Files[0].Unresolved)
}

func TestChannel_DeliversInOrder(t *testing.T) {
	c := NewChannel(4)
	s := sampleSummary()
	c.Publish(s)
	c.Failed(errPoll)

	u := <-c.Updates()
	assert.Same(t, s, u.Summary)
	assert.NoError(t, u.Err)
	u = <-c.Updates()
	assert.Nil(t, u.Summary)
	assert.ErrorIs(t, u.Err, errPoll)
}

func TestChannel_DropsOldestWhenFull(t *testing.T) {
	c := NewChannel(1)
	first, second := sampleSummary(), sampleSummary()
	c.Publish(first)
	c.Publish(second) // must not block

	u := <-c.Updates()
	assert.Same(t, second, u.Summary)
	select {
	case extra := <-c.Updates():
		t.Fatalf("unexpected extra update %+v", extra)
	default:
	}
}

func TestChannel_ConcurrentPublishNeverBlocks(t *testing.T) {
	c := NewChannel(0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Publish(sampleSummary())
			}
		}()
	}
	wg.Wait()
	assert.Len(t, c.Updates(), 1)
}

func TestLatest_FailureKeepsSummary(t *testing.T) {
	l := NewLatest()
	assert.Nil(t, l.Summary())

	s := sampleSummary()
	l.Publish(s)
	l.Failed(errPoll)

	assert.Same(t, s, l.Summary())
	at, err := l.LastFailure()
	assert.ErrorIs(t, err, errPoll)
	assert.False(t, at.IsZero())

	l.Publish(sampleSummary())
	at, err = l.LastFailure()
	assert.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestJSONLines_OneObjectPerSummary(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONLines(&buf, logging.Discard())
	j.Publish(sampleSummary())
	j.Failed(errPoll)
	j.Publish(sampleSummary())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	nodes := got["nodes"].(map[string]any)
	assert.Equal(t, "2.00", nodes["storage_remaining_mib"])
	assert.Equal(t, float64(1), nodes["total"])
	assert.NotContains(t, got, "captured_at")
}

func TestFanout(t *testing.T) {
	a, b := NewLatest(), NewChannel(2)
	f := Fanout{a, b}
	s := sampleSummary()
	f.Publish(s)
	f.Failed(errPoll)

	assert.Same(t, s, a.Summary())
	_, err := a.LastFailure()
	assert.ErrorIs(t, err, errPoll)
	assert.Len(t, b.Updates(), 2)
}
