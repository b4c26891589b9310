// Copyright (C) 2026 kpfile
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package serverdb

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, src *fakeSource, opts ...Option) *Store {
	t.Helper()
	store := NewStore(src, opts...)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestInitializeCollectsEveryFailure(t *testing.T) {
	src := newFakeSource()
	src.failWith("LoadKits", errors.New("kits table missing"))
	src.failWith("LoadWarps", errors.New("warps table missing"))

	store := NewStore(src)
	err := store.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kits table missing")
	assert.Contains(t, err.Error(), "warps table missing")

	// The other categories still loaded.
	counts := store.Counts()
	assert.Equal(t, 0, counts["users"])
	assert.Contains(t, counts, "whitelist")
}

func TestGetUserIsCaseInsensitive(t *testing.T) {
	src := newFakeSource()
	src.users = []User{{ID: 1, Name: "Bob", Groups: []string{"mods"}}}
	store := newTestStore(t, src)

	user, ok := store.GetUser("bob")
	require.True(t, ok)
	assert.Equal(t, "Bob", user.Name)

	_, ok = store.GetUser("alice")
	assert.False(t, ok)
}

func TestGetUserReturnsACopy(t *testing.T) {
	src := newFakeSource()
	src.users = []User{{ID: 1, Name: "Bob", Groups: []string{"mods"}}}
	store := newTestStore(t, src)

	user, ok := store.GetUser("Bob")
	require.True(t, ok)
	user.Groups[0] = "mutated"

	again, ok := store.GetUser("Bob")
	require.True(t, ok)
	assert.Equal(t, []string{"mods"}, again.Groups)
}

func TestGetDefaultGroupFirstInCacheOrderWins(t *testing.T) {
	src := newFakeSource()
	src.groups = []Group{
		{ID: 1, Name: "guests", DefaultGroup: true},
		{ID: 2, Name: "players", DefaultGroup: true},
	}
	store := newTestStore(t, src)

	def, ok := store.GetDefaultGroup()
	require.True(t, ok)
	assert.Equal(t, "guests", def.Name)
}

func TestAddUserAssignsIDAndCaches(t *testing.T) {
	src := newFakeSource()
	store := newTestStore(t, src)

	added, err := store.AddUser(context.Background(), User{Name: "Bob"})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	cached, ok := store.GetUser("bob")
	require.True(t, ok)
	assert.Equal(t, added.ID, cached.ID)
}

func TestMutationFailureLeavesCacheUnchanged(t *testing.T) {
	src := newFakeSource()
	store := newTestStore(t, src)
	src.failWith("AddUser", errors.New("connection reset"))

	_, err := store.AddUser(context.Background(), User{Name: "Bob"})
	require.Error(t, err)

	_, ok := store.GetUser("Bob")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Counts()["users"])
}

func TestModifyUserUpdatesCacheByID(t *testing.T) {
	src := newFakeSource()
	src.users = []User{{ID: 7, Name: "Bob"}}
	store := newTestStore(t, src)

	require.NoError(t, store.ModifyUser(context.Background(), User{ID: 7, Name: "Bob", Prefix: "&c"}))

	user, ok := store.GetUser("Bob")
	require.True(t, ok)
	assert.Equal(t, "&c", user.Prefix)
}

func TestModifyUserUnknownIDReturnsNotFound(t *testing.T) {
	src := newFakeSource()
	store := newTestStore(t, src)

	err := store.ModifyUser(context.Background(), User{ID: 99, Name: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangeWarpUpserts(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	store := newTestStore(t, src)

	created, err := store.ChangeWarp(ctx, Location{Name: "Spawn", X: 1})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	moved, err := store.ChangeWarp(ctx, Location{Name: "spawn", X: 2})
	require.NoError(t, err)
	assert.Equal(t, created.ID, moved.ID)

	warp, ok := store.GetWarp("SPAWN")
	require.True(t, ok)
	assert.Equal(t, 2.0, warp.X)
	assert.Equal(t, 1, store.Counts()["warps"])
}

func TestRemoveWarp(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.warps = []Location{{ID: 1, Name: "Spawn"}, {ID: 2, Name: "Nether"}}
	store := newTestStore(t, src)

	require.NoError(t, store.RemoveWarp(ctx, "spawn"))

	_, ok := store.GetWarp("Spawn")
	assert.False(t, ok)
	assert.True(t, store.HasWarps())
}

func TestWithoutHomesLeavesHomesEmpty(t *testing.T) {
	src := newFakeSource()
	src.homes = []Location{{ID: 1, Name: "Bob"}}
	store := newTestStore(t, src, WithoutHomes())

	_, ok := store.GetHome("Bob")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Counts()["homes"])
}

func TestKitNamesFiltersByMembership(t *testing.T) {
	src := newFakeSource()
	src.kits = []Kit{
		{ID: 1, Name: "Starter", Delay: 6000},
		{ID: 2, Name: "VIP", Group: "vip", Delay: 6000},
	}
	store := newTestStore(t, src, WithGroupChecker(&fakeChecker{allowed: map[string]bool{
		"alice/vip": true,
	}}))

	assert.Equal(t, "Starter VIP", store.KitNames("Alice"))
	assert.Equal(t, "Starter", store.KitNames("Bob"))
}

func TestWarpNamesFiltersByMembership(t *testing.T) {
	src := newFakeSource()
	src.warps = []Location{
		{ID: 1, Name: "Spawn"},
		{ID: 2, Name: "StaffRoom", Group: "mods"},
	}
	store := newTestStore(t, src, WithGroupChecker(&fakeChecker{allowed: map[string]bool{
		"alice/mods": true,
	}}))

	assert.Equal(t, "Spawn StaffRoom", store.WarpNames("alice"))
	assert.Equal(t, "Spawn", store.WarpNames("bob"))
}

func TestGetItemFallsBackToCaseInsensitiveScan(t *testing.T) {
	src := newFakeSource()
	src.items = map[string]int{"Cobblestone": 4}
	store := newTestStore(t, src)

	assert.Equal(t, 4, store.GetItem("Cobblestone"))
	assert.Equal(t, 4, store.GetItem("cobblestone"))
	assert.Equal(t, 0, store.GetItem("bedrock"))
}

func TestWhitelistRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	store := newTestStore(t, src)

	assert.False(t, store.HasWhitelist())

	require.NoError(t, store.AddToWhitelist(ctx, "Bob"))
	assert.True(t, store.HasWhitelist())
	assert.True(t, store.IsOnWhitelist("bob"))

	// Re-adding is a no-op in the cache.
	require.NoError(t, store.AddToWhitelist(ctx, "BOB"))
	assert.Equal(t, 1, store.Counts()["whitelist"])

	require.NoError(t, store.RemoveFromWhitelist(ctx, "bob"))
	assert.False(t, store.IsOnWhitelist("Bob"))
	assert.False(t, store.HasWhitelist())
}

func TestReserveListRemovalShrinksCache(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	src.reservelist = []string{"Bob", "Alice"}
	store := newTestStore(t, src)

	require.NoError(t, store.RemoveFromReserveList(ctx, "bob"))
	assert.False(t, store.IsOnReserveList("Bob"))
	assert.True(t, store.IsOnReserveList("Alice"))
	assert.Equal(t, 1, store.Counts()["reservelist"])
}

func TestGroupMutationErrorPropagates(t *testing.T) {
	src := newFakeSource()
	store := newTestStore(t, src)
	src.failWith("AddGroup", ErrNotSupported)

	_, err := store.AddGroup(context.Background(), Group{Name: "mods"})
	assert.ErrorIs(t, err, ErrNotSupported)
	assert.Equal(t, 0, store.Counts()["groups"])
}

// blockingSource delays LoadUsers until released, so readers can probe the
// cache mid-load.
type blockingSource struct {
	*fakeSource
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSource) LoadUsers(ctx context.Context) ([]User, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.fakeSource.LoadUsers(ctx)
}

func TestLoadBlocksReadersUntilComplete(t *testing.T) {
	inner := newFakeSource()
	inner.users = []User{{ID: 1, Name: "First"}, {ID: 2, Name: "Last"}}
	src := &blockingSource{
		fakeSource: inner,
		entered:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	store := NewStore(src)

	loadDone := make(chan error, 1)
	go func() { loadDone <- store.LoadUsers(context.Background()) }()
	<-src.entered

	readDone := make(chan [2]bool, 1)
	go func() {
		_, first := store.GetUser("First")
		_, last := store.GetUser("Last")
		readDone <- [2]bool{first, last}
	}()

	close(src.release)
	require.NoError(t, <-loadDone)

	// The reader ran either entirely before or entirely after the load, so
	// it saw both users or neither.
	seen := <-readDone
	assert.Equal(t, seen[0], seen[1])

	_, ok := store.GetUser("Last")
	assert.True(t, ok)
}

func TestCloseReleasesBackend(t *testing.T) {
	src := newFakeSource()
	store := newTestStore(t, src)

	require.NoError(t, store.Close())
	assert.True(t, src.closed)
}
