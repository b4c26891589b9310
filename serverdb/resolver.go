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
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// GroupChecker answers group membership queries for visibility filtering.
// It is a pure query with no side effects.
type GroupChecker interface {
	IsUserInGroup(player, group string) bool
}

const defaultMembershipTTL = 30 * time.Second

type membershipKey struct {
	player string
	group  string
}

// Resolver is the default GroupChecker. It resolves membership against the
// store's own caches, walking inherited groups, and memoizes answers with a
// short TTL since visibility lists are queried far more often than accounts
// change.
type Resolver struct {
	store *Store
	memo  *ttlcache.Cache[membershipKey, bool]
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *Store, ttl time.Duration) *Resolver {
	r := &Resolver{
		store: store,
		memo: ttlcache.New(
			ttlcache.WithTTL[membershipKey, bool](ttl),
		),
	}
	go r.memo.Start()
	return r
}

// IsUserInGroup reports whether the player belongs to the group, directly
// or through group inheritance. Administrators pass every check; a player
// without an account is treated as a member of the default group only.
func (r *Resolver) IsUserInGroup(player, group string) bool {
	key := membershipKey{player: strings.ToLower(player), group: strings.ToLower(group)}
	if item := r.memo.Get(key); item != nil {
		return item.Value()
	}
	member := r.resolve(player, group)
	r.memo.Set(key, member, ttlcache.DefaultTTL)
	return member
}

func (r *Resolver) resolve(player, group string) bool {
	if group == "" {
		return false
	}

	var start []string
	if user, ok := r.store.GetUser(player); ok {
		if user.Admin {
			return true
		}
		start = user.Groups
	} else if def, ok := r.store.GetDefaultGroup(); ok {
		start = []string{def.Name}
	}

	seen := make(map[string]bool, len(start))
	queue := append([]string(nil), start...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		lower := strings.ToLower(name)
		if name == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		if strings.EqualFold(name, group) {
			return true
		}
		if g, ok := r.store.lookupGroup(name); ok {
			queue = append(queue, g.InheritedGroups...)
		}
	}
	return false
}
