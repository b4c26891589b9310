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

package flatdb

import "github.com/kpfile/Minecraft-Server-Mod/serverdb"

// File records mirror the entity model with stable yaml keys so the file
// format does not shift when entity fields are renamed.

type userRecord struct {
	ID                 int64    `yaml:"id"`
	Name               string   `yaml:"name"`
	Groups             []string `yaml:"groups,omitempty"`
	Commands           []string `yaml:"commands,omitempty"`
	Prefix             string   `yaml:"prefix,omitempty"`
	Admin              bool     `yaml:"admin,omitempty"`
	CanModifyWorld     bool     `yaml:"canmodifyworld"`
	IgnoreRestrictions bool     `yaml:"ignoresrestrictions,omitempty"`
}

func toUserRecord(u serverdb.User) userRecord {
	return userRecord{
		ID:                 u.ID,
		Name:               u.Name,
		Groups:             u.Groups,
		Commands:           u.Commands,
		Prefix:             u.Prefix,
		Admin:              u.Admin,
		CanModifyWorld:     u.CanModifyWorld,
		IgnoreRestrictions: u.IgnoreRestrictions,
	}
}

func (r userRecord) toUser() serverdb.User {
	return serverdb.User{
		ID:                 r.ID,
		Name:               r.Name,
		Groups:             r.Groups,
		Commands:           r.Commands,
		Prefix:             r.Prefix,
		Admin:              r.Admin,
		CanModifyWorld:     r.CanModifyWorld,
		IgnoreRestrictions: r.IgnoreRestrictions,
	}
}

type groupRecord struct {
	ID                 int64    `yaml:"id"`
	Name               string   `yaml:"name"`
	Commands           []string `yaml:"commands,omitempty"`
	DefaultGroup       bool     `yaml:"defaultgroup,omitempty"`
	Admin              bool     `yaml:"admin,omitempty"`
	CanModifyWorld     bool     `yaml:"canmodifyworld"`
	IgnoreRestrictions bool     `yaml:"ignoresrestrictions,omitempty"`
	InheritedGroups    []string `yaml:"inheritedgroups,omitempty"`
	Prefix             string   `yaml:"prefix,omitempty"`
}

func toGroupRecord(g serverdb.Group) groupRecord {
	return groupRecord{
		ID:                 g.ID,
		Name:               g.Name,
		Commands:           g.Commands,
		DefaultGroup:       g.DefaultGroup,
		Admin:              g.Admin,
		CanModifyWorld:     g.CanModifyWorld,
		IgnoreRestrictions: g.IgnoreRestrictions,
		InheritedGroups:    g.InheritedGroups,
		Prefix:             g.Prefix,
	}
}

func (r groupRecord) toGroup() serverdb.Group {
	return serverdb.Group{
		ID:                 r.ID,
		Name:               r.Name,
		Commands:           r.Commands,
		DefaultGroup:       r.DefaultGroup,
		Admin:              r.Admin,
		CanModifyWorld:     r.CanModifyWorld,
		IgnoreRestrictions: r.IgnoreRestrictions,
		InheritedGroups:    r.InheritedGroups,
		Prefix:             r.Prefix,
	}
}

type kitRecord struct {
	ID    int64          `yaml:"id"`
	Name  string         `yaml:"name"`
	Group string         `yaml:"group,omitempty"`
	Delay int            `yaml:"delay,omitempty"`
	Items map[string]int `yaml:"items,omitempty"`
}

func toKitRecord(k serverdb.Kit) kitRecord {
	return kitRecord{ID: k.ID, Name: k.Name, Group: k.Group, Delay: k.Delay, Items: k.Items}
}

func (r kitRecord) toKit() serverdb.Kit {
	items := r.Items
	if items == nil {
		items = make(map[string]int)
	}
	return serverdb.Kit{ID: r.ID, Name: r.Name, Group: r.Group, Delay: r.Delay, Items: items}
}

type locationRecord struct {
	ID    int64   `yaml:"id"`
	Name  string  `yaml:"name"`
	Group string  `yaml:"group,omitempty"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	RotX  float64 `yaml:"rotx"`
	RotY  float64 `yaml:"roty"`
}

func toLocationRecord(l serverdb.Location) locationRecord {
	return locationRecord{ID: l.ID, Name: l.Name, Group: l.Group, X: l.X, Y: l.Y, Z: l.Z, RotX: l.RotX, RotY: l.RotY}
}

func (r locationRecord) toLocation() serverdb.Location {
	return serverdb.Location{ID: r.ID, Name: r.Name, Group: r.Group, X: r.X, Y: r.Y, Z: r.Z, RotX: r.RotX, RotY: r.RotY}
}

type identified interface {
	id() int64
}

func (r userRecord) id() int64     { return r.ID }
func (r groupRecord) id() int64    { return r.ID }
func (r kitRecord) id() int64      { return r.ID }
func (r locationRecord) id() int64 { return r.ID }

// nextID assigns ids the way a serial column would: one past the highest
// id on file.
func nextID[T identified](records []T) int64 {
	var max int64
	for _, r := range records {
		if r.id() > max {
			max = r.id()
		}
	}
	return max + 1
}
