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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resolverFixture(t *testing.T) (*Store, *Resolver) {
	t.Helper()
	src := newFakeSource()
	src.groups = []Group{
		{ID: 1, Name: "guests", DefaultGroup: true},
		{ID: 2, Name: "mods", InheritedGroups: []string{"guests"}},
		{ID: 3, Name: "admins", InheritedGroups: []string{"mods"}},
		{ID: 4, Name: "loopA", InheritedGroups: []string{"loopB"}},
		{ID: 5, Name: "loopB", InheritedGroups: []string{"loopA"}},
	}
	src.users = []User{
		{ID: 1, Name: "Alice", Groups: []string{"admins"}},
		{ID: 2, Name: "Bob", Groups: []string{"guests"}},
		{ID: 3, Name: "Root", Admin: true},
	}
	store := newTestStore(t, src)
	return store, NewResolver(store, time.Minute)
}

func TestResolverDirectMembership(t *testing.T) {
	_, r := resolverFixture(t)

	assert.True(t, r.IsUserInGroup("bob", "guests"))
	assert.False(t, r.IsUserInGroup("bob", "mods"))
}

func TestResolverWalksInheritance(t *testing.T) {
	_, r := resolverFixture(t)

	// admins -> mods -> guests
	assert.True(t, r.IsUserInGroup("Alice", "mods"))
	assert.True(t, r.IsUserInGroup("Alice", "guests"))
	assert.False(t, r.IsUserInGroup("Alice", "loopA"))
}

func TestResolverAdminPassesEveryCheck(t *testing.T) {
	_, r := resolverFixture(t)

	assert.True(t, r.IsUserInGroup("Root", "mods"))
	assert.True(t, r.IsUserInGroup("root", "nonexistent"))
}

func TestResolverUnknownPlayerUsesDefaultGroup(t *testing.T) {
	_, r := resolverFixture(t)

	assert.True(t, r.IsUserInGroup("stranger", "guests"))
	assert.False(t, r.IsUserInGroup("stranger", "mods"))
}

func TestResolverEmptyGroupIsNeverAMatch(t *testing.T) {
	_, r := resolverFixture(t)

	assert.False(t, r.IsUserInGroup("Alice", ""))
	assert.False(t, r.IsUserInGroup("Root", ""))
}

func TestResolverSurvivesInheritanceCycles(t *testing.T) {
	src := newFakeSource()
	src.groups = []Group{
		{ID: 1, Name: "loopA", InheritedGroups: []string{"loopB"}},
		{ID: 2, Name: "loopB", InheritedGroups: []string{"loopA"}},
	}
	src.users = []User{{ID: 1, Name: "Bob", Groups: []string{"loopA"}}}
	store := newTestStore(t, src)
	r := NewResolver(store, time.Minute)

	assert.True(t, r.IsUserInGroup("Bob", "loopB"))
	assert.False(t, r.IsUserInGroup("Bob", "elsewhere"))
}

func TestResolverMemoizesWithinTTL(t *testing.T) {
	store, r := resolverFixture(t)

	assert.True(t, r.IsUserInGroup("bob", "guests"))

	// A stale positive survives until the TTL expires even after the
	// backing caches change.
	store.users.do(func(v *[]User) { *v = nil })
	store.groups.do(func(v *[]Group) { *v = nil })
	assert.True(t, r.IsUserInGroup("bob", "guests"))
}
