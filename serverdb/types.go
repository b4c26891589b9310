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

// User is a player account. Group references are soft: they are not
// validated against the group set at load time.
type User struct {
	ID                 int64
	Name               string
	Groups             []string
	Commands           []string
	Prefix             string
	Admin              bool
	CanModifyWorld     bool
	IgnoreRestrictions bool
}

func (u User) clone() User {
	c := u
	c.Groups = append([]string(nil), u.Groups...)
	c.Commands = append([]string(nil), u.Commands...)
	return c
}

// Group is a permission group. At most one group should carry the
// DefaultGroup flag; the store does not enforce this on write, the first
// flagged group by cache order wins at read time and the consistency check
// reports duplicates.
type Group struct {
	ID                 int64
	Name               string
	Commands           []string
	DefaultGroup       bool
	Admin              bool
	CanModifyWorld     bool
	IgnoreRestrictions bool
	InheritedGroups    []string
	Prefix             string
}

func (g Group) clone() Group {
	c := g
	c.Commands = append([]string(nil), g.Commands...)
	c.InheritedGroups = append([]string(nil), g.InheritedGroups...)
	return c
}

// Kit is a grantable bundle of items, keyed by item identifier with a
// quantity. An empty Group means the kit is unrestricted.
type Kit struct {
	ID    int64
	Name  string
	Group string
	Delay int
	Items map[string]int
}

func (k Kit) clone() Kit {
	c := k
	c.Items = make(map[string]int, len(k.Items))
	for id, amount := range k.Items {
		c.Items[id] = amount
	}
	return c
}

// Location is a named teleport target. Homes and warps are separate
// namespaces; Group is only meaningful for warps, where an empty value
// means the warp is visible to everyone.
type Location struct {
	ID    int64
	Name  string
	Group string
	X     float64
	Y     float64
	Z     float64
	RotX  float64
	RotY  float64
}
