package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loklagbe/internal/domain/entity"
	"loklagbe/pkg/errors"
)

func seedAdminData(f *fixture) {
	f.s.addUser(&entity.User{ID: "admin", FullName: "Admin", Role: entity.RoleAdmin})
	f.s.addUser(&entity.User{ID: "u1", FullName: "Poster One", AcceptedWorks: []string{"w4"}})
	f.s.addUser(&entity.User{ID: "u2", FullName: "Worker Two"})
	f.s.addWork(&entity.Work{ID: "w1", UserID: "u1", Status: entity.WorkStatusActive, Category: "Cleaning", Location: "Dhaka"})
	f.s.addWork(&entity.Work{ID: "w2", UserID: "u1", AcceptedBy: "u2", Status: entity.WorkStatusAccepted, Category: "Plumbing", Location: "dhaka"})
	f.s.addWork(&entity.Work{ID: "w3", UserID: "u1", AcceptedBy: "u2", Status: entity.WorkStatusCompleted, Category: "Cleaning", Location: "Khulna"})
	f.s.addWork(&entity.Work{ID: "w4", UserID: "u2", AcceptedBy: "u1", Status: entity.WorkStatusCompletedSent, Category: "Cleaning", Location: "Dhaka North"})
	f.s.complaints["c1"] = &entity.Complaint{ID: "c1", FromUserID: "u1", Status: entity.ComplaintPending}
}

func TestDashboardCountsAndCache(t *testing.T) {
	f := newFixture()
	seedAdminData(f)

	stats, err := f.admin.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{
		TotalUsers:      3,
		TotalPosts:      4,
		ActivePosts:     1,
		AcceptedPosts:   1,
		CompletedPosts:  1,
		TotalComplaints: 1,
	}, stats)

	// Served from cache until a write invalidates it.
	f.s.addWork(&entity.Work{ID: "w5", UserID: "u1", Status: entity.WorkStatusActive})
	stats, err = f.admin.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalPosts)

	require.NoError(t, f.admin.DeletePost(context.Background(), "w5"))
	f.s.addWork(&entity.Work{ID: "w6", UserID: "u1", Status: entity.WorkStatusActive})
	stats, err = f.admin.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.TotalPosts)
}

func TestUsersWithStats(t *testing.T) {
	f := newFixture()
	seedAdminData(f)

	users, err := f.admin.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)

	byID := map[string]*UserWithStats{}
	for _, u := range users {
		byID[u.ID] = u
	}
	assert.Equal(t, 3, byID["u1"].TotalPosts)
	assert.Equal(t, 1, byID["u1"].CompletedPosts)
	assert.Equal(t, 1, byID["u1"].PendingPosts)
	assert.Equal(t, 1, byID["u1"].AppliedPosts)
	assert.Equal(t, 1, byID["u2"].TotalPosts)
	assert.Equal(t, 1, byID["u2"].PendingPosts)
	assert.Zero(t, byID["admin"].TotalPosts)
}

func TestToggleVerified(t *testing.T) {
	f := newFixture()
	seedAdminData(f)

	v, err := f.admin.ToggleVerified(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, v)
	assert.True(t, f.s.users["u1"].Verified)

	v, err = f.admin.ToggleVerified(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, v)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()
	seedAdminData(f)

	err := f.admin.DeleteUser(context.Background(), sessionOf("admin"), "admin")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	require.NoError(t, f.admin.DeleteUser(context.Background(), sessionOf("admin"), "u2"))
	assert.NotContains(t, f.s.users, "u2")
	assert.Equal(t, []string{"u2"}, f.identity.deleted)

	err = f.admin.DeleteUser(context.Background(), sessionOf("admin"), "u2")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestPostsFilterAndCompleted(t *testing.T) {
	f := newFixture()
	seedAdminData(f)

	posts, err := f.admin.Posts(context.Background(), PostFilter{Location: "DHAKA"})
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = f.admin.Posts(context.Background(), PostFilter{Category: "Cleaning"})
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	completed, err := f.admin.CompletedPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Poster One", completed[0].PosterName)
	assert.Equal(t, "Worker Two", completed[0].WorkerName)
}
