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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistencyCleanState(t *testing.T) {
	src := newFakeSource()
	src.groups = []Group{{ID: 1, Name: "guests", DefaultGroup: true}}
	src.users = []User{{ID: 1, Name: "Bob", Groups: []string{"Guests"}}}
	src.kits = []Kit{{ID: 1, Name: "Starter"}}
	src.warps = []Location{{ID: 1, Name: "Spawn", Group: "guests"}}
	store := newTestStore(t, src)

	assert.NoError(t, store.CheckConsistency())
}

func TestCheckConsistencyReportsEveryViolation(t *testing.T) {
	src := newFakeSource()
	src.groups = []Group{
		{ID: 1, Name: "guests", DefaultGroup: true},
		{ID: 2, Name: "mods", DefaultGroup: true, InheritedGroups: []string{"legends"}},
	}
	src.users = []User{{ID: 1, Name: "Bob", Groups: []string{"ghosts"}}}
	src.kits = []Kit{{ID: 1, Name: "VIP", Group: "patrons"}}
	src.warps = []Location{{ID: 1, Name: "StaffRoom", Group: "staff"}}
	store := newTestStore(t, src)

	err := store.CheckConsistency()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `user "Bob" references unknown group "ghosts"`)
	assert.Contains(t, msg, `group "mods" inherits unknown group "legends"`)
	assert.Contains(t, msg, `kit "VIP" requires unknown group "patrons"`)
	assert.Contains(t, msg, `warp "StaffRoom" requires unknown group "staff"`)
	assert.Contains(t, msg, "multiple default groups: guests, mods")
}

func TestCheckConsistencyEmptyGroupIsNotAViolation(t *testing.T) {
	src := newFakeSource()
	src.kits = []Kit{{ID: 1, Name: "Starter", Group: ""}}
	src.warps = []Location{{ID: 1, Name: "Spawn", Group: ""}}
	store := newTestStore(t, src)

	assert.NoError(t, store.CheckConsistency())
}
