package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchive_SaveLoadRoundTrip(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	w := CreateTestWorkflow("wf-1")
	w.Metadata.Name = "login flow"

	require.NoError(t, a.SaveWorkflow(ctx, w))

	got, err := a.LoadWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, w.Metadata, got.Metadata)
	assert.Equal(t, w.Steps, got.Steps)
}

func TestArchive_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.db")
	ctx := context.Background()

	a, err := OpenArchive(path)
	require.NoError(t, err)
	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("wf-disk")))
	require.NoError(t, a.Close())

	reopened, err := OpenArchive(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.CountWorkflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestArchive_ReplaceOnResave(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	w := CreateTestWorkflow("wf-1")
	require.NoError(t, a.SaveWorkflow(ctx, w))

	w.Steps = w.Steps[:1]
	w.Metadata.StepCount = 1
	require.NoError(t, a.SaveWorkflow(ctx, w))

	got, err := a.LoadWorkflow(ctx, "wf-1")
	require.NoError(t, err)
	assert.Len(t, got.Steps, 1)

	count, err := a.CountWorkflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestArchive_ListNewestFirst(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	older := CreateTestWorkflow("wf-old")
	newer := CreateTestWorkflow("wf-new")
	newer.Metadata.StartTime += 60000
	require.NoError(t, a.SaveWorkflow(ctx, older))
	require.NoError(t, a.SaveWorkflow(ctx, newer))

	summaries, err := a.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "wf-new", summaries[0].ID)
	assert.Equal(t, "wf-old", summaries[1].ID)
	assert.Equal(t, "https://example.com/login", summaries[1].StartURL)
	assert.Equal(t, 3, summaries[1].StepCount)
	assert.Equal(t, 2, summaries[1].TabCount)
	assert.Equal(t, int64(1700000000000), summaries[1].GetStartTime().UnixMilli())
}

func TestArchive_ListEmpty(t *testing.T) {
	summaries, err := openTestArchive(t).ListWorkflows(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestArchive_ResolveID(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("0190a1b2-aaaa")))
	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("0190a1b2-bbbb")))

	id, err := a.ResolveID(ctx, "0190a1b2-a")
	require.NoError(t, err)
	assert.Equal(t, "0190a1b2-aaaa", id)

	_, err = a.ResolveID(ctx, "0190a1b2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = a.ResolveID(ctx, "ffff")
	assert.True(t, errors.Is(err, ErrWorkflowNotFound))
}

func TestArchive_NotFound(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	_, err := a.LoadWorkflow(ctx, "missing")
	assert.True(t, errors.Is(err, ErrWorkflowNotFound))

	err = a.DeleteWorkflow(ctx, "missing")
	assert.True(t, errors.Is(err, ErrWorkflowNotFound))
	var archiveErr *ArchiveError
	require.True(t, errors.As(err, &archiveErr))
	assert.Equal(t, "delete", archiveErr.Op)
}

func TestArchive_DeleteCascades(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("wf-1")))

	require.NoError(t, a.DeleteWorkflow(ctx, "wf-1"))

	var steps int
	require.NoError(t, a.db.QueryRow(`SELECT COUNT(*) FROM steps`).Scan(&steps))
	assert.Zero(t, steps)
}

func TestArchive_ValidateWorkflow(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()

	tests := []struct {
		name string
		w    *Workflow
	}{
		{name: "nil", w: nil},
		{name: "empty id", w: CreateTestWorkflow("  ")},
		{name: "bad step type", w: func() *Workflow {
			w := CreateTestWorkflow("wf-bad")
			w.Steps[1].Type = "hover"
			return w
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.SaveWorkflow(ctx, tt.w)
			require.Error(t, err)
			var archiveErr *ArchiveError
			require.True(t, errors.As(err, &archiveErr))
			assert.Equal(t, "save", archiveErr.Op)
		})
	}

	count, err := a.CountWorkflows(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestArchive_ResolveIDWildcardsAreLiteral(t *testing.T) {
	a := openTestArchive(t)
	ctx := context.Background()
	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("wf-1")))

	for _, prefix := range []string{"%", "_", "wf_", "w%"} {
		_, err := a.ResolveID(ctx, prefix)
		assert.True(t, errors.Is(err, ErrWorkflowNotFound), "prefix %q", prefix)
	}

	require.NoError(t, a.SaveWorkflow(ctx, CreateTestWorkflow("50%_off")))
	id, err := a.ResolveID(ctx, "50%")
	require.NoError(t, err)
	assert.Equal(t, "50%_off", id)
}
