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
	"strings"
	"sync"
)

// fakeSource is an in-memory Source for store tests. Any operation can be
// forced to fail by name via failWith.
type fakeSource struct {
	mu sync.Mutex

	users       []User
	groups      []Group
	kits        []Kit
	homes       []Location
	warps       []Location
	items       map[string]int
	whitelist   []string
	reservelist []string

	nextID int64
	fail   map[string]error

	closed bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{fail: make(map[string]error)}
}

func (f *fakeSource) failWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[op] = err
}

func (f *fakeSource) errFor(op string) error {
	return f.fail[op]
}

func (f *fakeSource) assignID() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeSource) LoadUsers(_ context.Context) ([]User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadUsers"); err != nil {
		return nil, err
	}
	return append([]User(nil), f.users...), nil
}

func (f *fakeSource) LoadGroups(_ context.Context) ([]Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadGroups"); err != nil {
		return nil, err
	}
	return append([]Group(nil), f.groups...), nil
}

func (f *fakeSource) LoadKits(_ context.Context) ([]Kit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadKits"); err != nil {
		return nil, err
	}
	return append([]Kit(nil), f.kits...), nil
}

func (f *fakeSource) LoadHomes(_ context.Context) ([]Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadHomes"); err != nil {
		return nil, err
	}
	return append([]Location(nil), f.homes...), nil
}

func (f *fakeSource) LoadWarps(_ context.Context) ([]Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadWarps"); err != nil {
		return nil, err
	}
	return append([]Location(nil), f.warps...), nil
}

func (f *fakeSource) LoadItems(_ context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadItems"); err != nil {
		return nil, err
	}
	items := make(map[string]int, len(f.items))
	for k, v := range f.items {
		items[k] = v
	}
	return items, nil
}

func (f *fakeSource) LoadWhitelist(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadWhitelist"); err != nil {
		return nil, err
	}
	return append([]string(nil), f.whitelist...), nil
}

func (f *fakeSource) LoadReserveList(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("LoadReserveList"); err != nil {
		return nil, err
	}
	return append([]string(nil), f.reservelist...), nil
}

func (f *fakeSource) AddUser(_ context.Context, user User) (User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddUser"); err != nil {
		return User{}, err
	}
	user.ID = f.assignID()
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeSource) ModifyUser(_ context.Context, user User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ModifyUser"); err != nil {
		return err
	}
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSource) AddGroup(_ context.Context, group Group) (Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddGroup"); err != nil {
		return Group{}, err
	}
	group.ID = f.assignID()
	f.groups = append(f.groups, group)
	return group, nil
}

func (f *fakeSource) ModifyGroup(_ context.Context, group Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ModifyGroup"); err != nil {
		return err
	}
	for i := range f.groups {
		if f.groups[i].ID == group.ID {
			f.groups[i] = group
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSource) AddKit(_ context.Context, kit Kit) (Kit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddKit"); err != nil {
		return Kit{}, err
	}
	kit.ID = f.assignID()
	f.kits = append(f.kits, kit)
	return kit, nil
}

func (f *fakeSource) ModifyKit(_ context.Context, kit Kit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ModifyKit"); err != nil {
		return err
	}
	for i := range f.kits {
		if f.kits[i].ID == kit.ID {
			f.kits[i] = kit
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSource) AddHome(_ context.Context, home Location) (Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddHome"); err != nil {
		return Location{}, err
	}
	home.ID = f.assignID()
	f.homes = append(f.homes, home)
	return home, nil
}

func (f *fakeSource) ChangeHome(_ context.Context, home Location) (Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ChangeHome"); err != nil {
		return Location{}, err
	}
	return upsertFakeLocation(&f.homes, home, f.assignID), nil
}

func (f *fakeSource) AddWarp(_ context.Context, warp Location) (Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddWarp"); err != nil {
		return Location{}, err
	}
	warp.ID = f.assignID()
	f.warps = append(f.warps, warp)
	return warp, nil
}

func (f *fakeSource) ChangeWarp(_ context.Context, warp Location) (Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("ChangeWarp"); err != nil {
		return Location{}, err
	}
	return upsertFakeLocation(&f.warps, warp, f.assignID), nil
}

func upsertFakeLocation(rows *[]Location, loc Location, assignID func() int64) Location {
	for i := range *rows {
		if strings.EqualFold((*rows)[i].Name, loc.Name) {
			loc.ID = (*rows)[i].ID
			(*rows)[i] = loc
			return loc
		}
	}
	loc.ID = assignID()
	*rows = append(*rows, loc)
	return loc
}

func (f *fakeSource) RemoveWarp(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("RemoveWarp"); err != nil {
		return err
	}
	kept := f.warps[:0]
	for _, warp := range f.warps {
		if !strings.EqualFold(warp.Name, name) {
			kept = append(kept, warp)
		}
	}
	f.warps = kept
	return nil
}

func (f *fakeSource) AddToWhitelist(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddToWhitelist"); err != nil {
		return err
	}
	f.whitelist = append(f.whitelist, name)
	return nil
}

func (f *fakeSource) RemoveFromWhitelist(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("RemoveFromWhitelist"); err != nil {
		return err
	}
	f.whitelist = removeFakeName(f.whitelist, name)
	return nil
}

func (f *fakeSource) AddToReserveList(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("AddToReserveList"); err != nil {
		return err
	}
	f.reservelist = append(f.reservelist, name)
	return nil
}

func (f *fakeSource) RemoveFromReserveList(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errFor("RemoveFromReserveList"); err != nil {
		return err
	}
	f.reservelist = removeFakeName(f.reservelist, name)
	return nil
}

func removeFakeName(names []string, name string) []string {
	kept := names[:0]
	for _, entry := range names {
		if !strings.EqualFold(entry, name) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeChecker grants membership from a fixed "player/group" allow set.
type fakeChecker struct {
	allowed map[string]bool
}

func (c *fakeChecker) IsUserInGroup(player, group string) bool {
	return c.allowed[strings.ToLower(player)+"/"+strings.ToLower(group)]
}
