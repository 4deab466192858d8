package services

import (
	"testing"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData_CreatesUserAndTasks(t *testing.T) {
	e := newEnv(t)
	a, ts := e.authAndTasks(t)
	seed := NewSeedService(e.store, a, ts, e.opts()...)

	seeded, err := seed.SeedDemoData(e.ctx)
	require.NoError(t, err)
	require.True(t, seeded)

	require.True(t, a.IsAuthenticated())
	assert.Equal(t, DemoEmail, a.CurrentUser().Email)

	tasks := ts.GetTasks()
	require.Len(t, tasks, 10)

	cols := PartitionByStatus(tasks)
	assert.Len(t, cols[models.StatusPending], 5)
	assert.Len(t, cols[models.StatusInProgress], 3)
	assert.Len(t, cols[models.StatusCompleted], 2)

	overdue := 0
	for _, task := range tasks {
		require.NoError(t, task.Validate(3))
		if ts.IsTaskOverdue(task) {
			overdue++
		}
	}
	assert.Equal(t, 1, overdue, "only the pending task due yesterday is overdue")
}

func TestSeedDemoData_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	a, ts := e.authAndTasks(t)
	seed := NewSeedService(e.store, a, ts, e.opts()...)

	_, err := seed.SeedDemoData(e.ctx)
	require.NoError(t, err)
	a.Logout(e.ctx)

	seeded, err := seed.SeedDemoData(e.ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.False(t, a.IsAuthenticated())
	assert.Len(t, e.store.GetUsers(e.ctx), 1)
}

func TestSeedDemoData_DemoPasswordWorks(t *testing.T) {
	e := newEnv(t)
	a, ts := e.authAndTasks(t)
	_, err := NewSeedService(e.store, a, ts, e.opts()...).SeedDemoData(e.ctx)
	require.NoError(t, err)
	a.Logout(e.ctx)

	res := a.Login(e.ctx, "DEMO@demo.com", []byte(DemoPassword))
	require.True(t, res.Success)
	assert.Len(t, ts.GetTasks(), 10)
}
