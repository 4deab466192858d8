package storage

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/localdb"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Gateway, *sql.DB, *bytes.Buffer) {
	t.Helper()
	db, err := localdb.Open(context.Background(), filepath.Join(t.TempDir(), "todo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var buf bytes.Buffer
	g := NewGateway(db, logging.New(&buf, "debug"), WithClock(func() time.Time { return fixedNow }))
	return g, db, &buf
}

func rawSet(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO storage(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	require.NoError(t, err)
}

func rawGet(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM storage WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func task(id, user, title string) models.Task {
	return models.Task{
		ID: id, UserID: user, Title: title,
		Priority: models.PriorityMedium, Status: models.StatusPending,
		CreatedAt: "2026-05-01T12:00:00.000Z", UpdatedAt: "2026-05-01T12:00:00.000Z",
	}
}

func TestEmptyStore_ReadsAsEmpty(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	assert.Empty(t, g.GetUsers(ctx))
	assert.NotNil(t, g.GetUsers(ctx))
	assert.Empty(t, g.GetTasksByUser(ctx, "u1"))
	assert.Nil(t, g.GetSession(ctx))
}

func TestSaveUser_Upserts(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	u := models.User{ID: "u1", Name: "Ann", Email: "ann@x.com", PasswordHash: "ab", CreatedAt: "2026-05-01T12:00:00.000Z"}
	g.SaveUser(ctx, u)
	u.Name = "Ann B"
	g.SaveUser(ctx, u)
	g.SaveUser(ctx, models.User{ID: "u2", Email: "bob@x.com", PasswordHash: "cd"})

	users := g.GetUsers(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann B", users[0].Name)
	assert.Equal(t, "u2", users[1].ID)
}

func TestTasks_ScopedByUser_AndUpsertAcrossUsers(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	g.SaveTask(ctx, task("t1", "u1", "Task One"))
	g.SaveTask(ctx, task("t2", "u2", "Task Two"))
	g.SaveTask(ctx, task("t3", "u1", "Task Three"))

	updated := task("t2", "u2", "Task Two edited")
	g.SaveTask(ctx, updated)

	u1 := g.GetTasksByUser(ctx, "u1")
	require.Len(t, u1, 2)
	assert.Equal(t, "t1", u1[0].ID)
	assert.Equal(t, "t3", u1[1].ID)

	u2 := g.GetTasksByUser(ctx, "u2")
	require.Len(t, u2, 1)
	if diff := cmp.Diff(updated, u2[0]); diff != "" {
		t.Fatalf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteTask_IgnoresOwnership(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	g.SaveTask(ctx, task("t1", "u1", "Task One"))
	g.SaveTask(ctx, task("t2", "u1", "Task Two"))

	g.DeleteTask(ctx, "t1")
	g.DeleteTask(ctx, "missing")

	got := g.GetTasksByUser(ctx, "u1")
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)

	g.DeleteTask(ctx, "t2")
	assert.Empty(t, g.GetTasksByUser(ctx, "u1"))
}

func TestSession_SaveGetClear(t *testing.T) {
	g, db, _ := setup(t)
	ctx := context.Background()

	g.SaveSession(ctx, "u1")

	s := g.GetSession(ctx)
	require.NotNil(t, s)
	assert.Equal(t, models.Session{UserID: "u1", Timestamp: fixedNow.UnixMilli()}, *s)

	raw, ok := rawGet(t, db, KeySession)
	require.True(t, ok)
	assert.JSONEq(t, `{"userId":"u1","timestamp":1777636800000}`, raw)

	g.ClearSession(ctx)
	assert.Nil(t, g.GetSession(ctx))
	g.ClearSession(ctx)
}

func TestCorruptBlobs_ReadAsEmpty(t *testing.T) {
	g, db, logs := setup(t)
	ctx := context.Background()

	rawSet(t, db, KeyUsers, `{not json`)
	rawSet(t, db, KeyTasks, `{"id":"t1"}`)
	rawSet(t, db, KeySession, `[1,2,3]`)

	assert.Empty(t, g.GetUsers(ctx))
	assert.Empty(t, g.GetTasksByUser(ctx, "u1"))
	assert.Nil(t, g.GetSession(ctx))
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestInvalidRecords_AreSkipped(t *testing.T) {
	g, db, logs := setup(t)
	ctx := context.Background()

	rawSet(t, db, KeyTasks, `[
		{"id":"t1","userId":"u1","title":"Task One","priority":"low","status":"pending","createdAt":"x","updatedAt":"x"},
		{"id":"t2","userId":"u1","title":"Bad priority","priority":"urgent","status":"pending"},
		{"id":"t3","userId":"u1","title":"Task Three","priority":"high","status":"completed","description":null},
		42
	]`)

	got := g.GetTasksByUser(ctx, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t3", got[1].ID)
	assert.Contains(t, logs.String(), "skipping invalid record")
	assert.Contains(t, logs.String(), "index=1")
}

func TestSaveTask_DropsPreviouslyInvalidRecords(t *testing.T) {
	g, db, _ := setup(t)
	ctx := context.Background()

	rawSet(t, db, KeyTasks, `[{"id":"bad"}]`)
	g.SaveTask(ctx, task("t1", "u1", "Task One"))

	raw, _ := rawGet(t, db, KeyTasks)
	assert.NotContains(t, raw, `"bad"`)
	assert.Len(t, g.GetTasksByUser(ctx, "u1"), 1)
}

func TestClosedDB_WritesSwallowedAndLogged(t *testing.T) {
	g, db, logs := setup(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	require.NotPanics(t, func() {
		g.SaveUser(ctx, models.User{ID: "u1", Email: "a@b.com", PasswordHash: "00"})
		g.SaveTask(ctx, task("t1", "u1", "Task One"))
		g.DeleteTask(ctx, "t1")
		g.SaveSession(ctx, "u1")
		g.ClearSession(ctx)
		g.ClearAll(ctx)
	})

	assert.Empty(t, g.GetUsers(ctx))
	assert.Nil(t, g.GetSession(ctx))
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "component=storage")
}

func TestClearAll_RemovesEverything(t *testing.T) {
	g, db, _ := setup(t)
	ctx := context.Background()

	g.SaveUser(ctx, models.User{ID: "u1", Email: "a@b.com", PasswordHash: "00"})
	g.SaveTask(ctx, task("t1", "u1", "Task One"))
	g.SaveSession(ctx, "u1")
	rawSet(t, db, "unrelated", "kept")

	g.ClearAll(ctx)

	assert.Empty(t, g.GetUsers(ctx))
	assert.Empty(t, g.GetTasksByUser(ctx, "u1"))
	assert.Nil(t, g.GetSession(ctx))

	v, ok := rawGet(t, db, "unrelated")
	require.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestSnapshotRestore(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	g.SaveUser(ctx, models.User{ID: "u1", Email: "a@b.com", PasswordHash: "00"})
	g.SaveTask(ctx, task("t1", "u1", "Task One"))
	g.SaveTask(ctx, task("t2", "u9", "Foreign"))
	g.SaveSession(ctx, "u1")

	snap := g.Snapshot(ctx)
	require.Len(t, snap.Users, 1)
	require.Len(t, snap.Tasks, 2)

	g.ClearAll(ctx)
	g.SaveUser(ctx, models.User{ID: "other", Email: "o@b.com", PasswordHash: "11"})
	g.SaveSession(ctx, "other")

	require.NoError(t, g.Restore(ctx, snap))

	if diff := cmp.Diff(snap, g.Snapshot(ctx)); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, g.GetSession(ctx))
}

func TestRestore_ClosedDBReportsError(t *testing.T) {
	g, db, logs := setup(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	err := g.Restore(ctx, Snapshot{Users: []models.User{{ID: "u1", Email: "a@b.com", PasswordHash: "00"}}})
	require.ErrorContains(t, err, "restore")
	assert.Contains(t, logs.String(), "restore failed")
}

func TestRestore_EmptySnapshotWritesEmptyArrays(t *testing.T) {
	g, db, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, g.Restore(ctx, Snapshot{}))

	raw, ok := rawGet(t, db, KeyUsers)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}
