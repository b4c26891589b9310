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
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Store caches the server's administrative state in memory and is the only
// surface callers read from. Each category has its own lock; locks are
// never nested, so there is no cross-category atomicity and no deadlock
// risk. Mutations are write-through: the backend is updated first and the
// cache is spliced under the category lock only after the backend reports
// success. Loads hold the category lock for the whole backend round trip,
// so a concurrent reader sees either the pre-load or the fully loaded set.
type Store struct {
	src       Source
	perm      GroupChecker
	saveHomes bool

	users       guarded[[]User]
	groups      guarded[[]Group]
	kits        guarded[[]Kit]
	homes       guarded[[]Location]
	warps       guarded[[]Location]
	items       guarded[map[string]int]
	whitelist   guarded[[]string]
	reservelist guarded[[]string]
}

// Option configures a Store.
type Option func(*Store)

// WithGroupChecker overrides the membership collaborator used to filter
// kit and warp visibility. The default resolves membership against the
// store's own group cache.
func WithGroupChecker(gc GroupChecker) Option {
	return func(s *Store) { s.perm = gc }
}

// WithoutHomes disables home persistence: LoadHomes leaves the cache
// empty, matching a server configured not to save homes.
func WithoutHomes() Option {
	return func(s *Store) { s.saveHomes = false }
}

// NewStore creates a Store over the given backend.
func NewStore(src Source, opts ...Option) *Store {
	s := &Store{src: src, saveHomes: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.perm == nil {
		s.perm = NewResolver(s, defaultMembershipTTL)
	}
	return s
}

// Initialize loads every category once. A failing category is logged and
// left with whatever partial state its load built; the remaining
// categories still load. The combined error is returned so the caller can
// surface or retry, but nothing here aborts the process.
func (s *Store) Initialize(ctx context.Context) error {
	var errs *multierror.Error
	errs = multierror.Append(errs, s.LoadUsers(ctx))
	errs = multierror.Append(errs, s.LoadGroups(ctx))
	errs = multierror.Append(errs, s.LoadKits(ctx))
	errs = multierror.Append(errs, s.LoadHomes(ctx))
	errs = multierror.Append(errs, s.LoadWarps(ctx))
	errs = multierror.Append(errs, s.LoadItems(ctx))
	errs = multierror.Append(errs, s.LoadWhitelist(ctx))
	errs = multierror.Append(errs, s.LoadReserveList(ctx))
	return errs.ErrorOrNil()
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.src.Close()
}

// Counts reports the size of every category cache.
func (s *Store) Counts() map[string]int {
	counts := make(map[string]int, 8)
	s.users.do(func(v *[]User) { counts["users"] = len(*v) })
	s.groups.do(func(v *[]Group) { counts["groups"] = len(*v) })
	s.kits.do(func(v *[]Kit) { counts["kits"] = len(*v) })
	s.homes.do(func(v *[]Location) { counts["homes"] = len(*v) })
	s.warps.do(func(v *[]Location) { counts["warps"] = len(*v) })
	s.items.do(func(v *map[string]int) { counts["items"] = len(*v) })
	s.whitelist.do(func(v *[]string) { counts["whitelist"] = len(*v) })
	s.reservelist.do(func(v *[]string) { counts["reservelist"] = len(*v) })
	return counts
}

// Loads. Each holds its category lock across the backend call so readers
// block until the replacement is complete.

func (s *Store) LoadUsers(ctx context.Context) error {
	var err error
	s.users.do(func(v *[]User) {
		var rows []User
		rows, err = s.src.LoadUsers(ctx)
		if err != nil {
			slog.Error("unable to load users", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadGroups(ctx context.Context) error {
	var err error
	s.groups.do(func(v *[]Group) {
		var rows []Group
		rows, err = s.src.LoadGroups(ctx)
		if err != nil {
			slog.Error("unable to load groups", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadKits(ctx context.Context) error {
	var err error
	s.kits.do(func(v *[]Kit) {
		var rows []Kit
		rows, err = s.src.LoadKits(ctx)
		if err != nil {
			slog.Error("unable to load kits", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadHomes(ctx context.Context) error {
	var err error
	s.homes.do(func(v *[]Location) {
		if !s.saveHomes {
			*v = nil
			return
		}
		var rows []Location
		rows, err = s.src.LoadHomes(ctx)
		if err != nil {
			slog.Error("unable to load homes", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadWarps(ctx context.Context) error {
	var err error
	s.warps.do(func(v *[]Location) {
		var rows []Location
		rows, err = s.src.LoadWarps(ctx)
		if err != nil {
			slog.Error("unable to load warps", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadItems(ctx context.Context) error {
	var err error
	s.items.do(func(v *map[string]int) {
		var rows map[string]int
		rows, err = s.src.LoadItems(ctx)
		if err != nil {
			slog.Error("unable to load items", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadWhitelist(ctx context.Context) error {
	var err error
	s.whitelist.do(func(v *[]string) {
		var rows []string
		rows, err = s.src.LoadWhitelist(ctx)
		if err != nil {
			slog.Error("unable to load whitelist", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

func (s *Store) LoadReserveList(ctx context.Context) error {
	var err error
	s.reservelist.do(func(v *[]string) {
		var rows []string
		rows, err = s.src.LoadReserveList(ctx)
		if err != nil {
			slog.Error("unable to load reservelist", slog.Any("error", err))
		}
		*v = rows
	})
	return err
}

// Reads. Name matching is case-insensitive everywhere; results are
// defensive copies, never aliases into the cache.

// GetUser returns the named user. A miss is a normal, silent outcome.
func (s *Store) GetUser(name string) (User, bool) {
	var user User
	var ok bool
	s.users.do(func(v *[]User) {
		for i := range *v {
			if strings.EqualFold((*v)[i].Name, name) {
				user = (*v)[i].clone()
				ok = true
				return
			}
		}
	})
	return user, ok
}

// GetGroup returns the named group. A miss on a non-empty name gets a
// diagnostic note; an empty name is an expected no-op query.
func (s *Store) GetGroup(name string) (Group, bool) {
	group, ok := s.lookupGroup(name)
	if !ok && name != "" {
		slog.Info("unable to find group", slog.String("name", name))
	}
	return group, ok
}

// lookupGroup is GetGroup without the diagnostic, for internal probes.
func (s *Store) lookupGroup(name string) (Group, bool) {
	var group Group
	var ok bool
	s.groups.do(func(v *[]Group) {
		for i := range *v {
			if strings.EqualFold((*v)[i].Name, name) {
				group = (*v)[i].clone()
				ok = true
				return
			}
		}
	})
	return group, ok
}

// GetDefaultGroup returns the first group flagged as default, in cache
// order. Uniqueness of the flag is not enforced here.
func (s *Store) GetDefaultGroup() (Group, bool) {
	var group Group
	var ok bool
	s.groups.do(func(v *[]Group) {
		for i := range *v {
			if (*v)[i].DefaultGroup {
				group = (*v)[i].clone()
				ok = true
				return
			}
		}
	})
	return group, ok
}

// GetKit returns the named kit.
func (s *Store) GetKit(name string) (Kit, bool) {
	var kit Kit
	var ok bool
	s.kits.do(func(v *[]Kit) {
		for i := range *v {
			if strings.EqualFold((*v)[i].Name, name) {
				kit = (*v)[i].clone()
				ok = true
				return
			}
		}
	})
	return kit, ok
}

// HasKits reports whether any kits are defined.
func (s *Store) HasKits() bool {
	var has bool
	s.kits.do(func(v *[]Kit) { has = len(*v) > 0 })
	return has
}

// KitNames returns a space-joined list of every kit name the viewer may
// use: kits with no required group, plus kits whose group the viewer
// belongs to. The membership check runs outside the kit lock so category
// locks are never held together.
func (s *Store) KitNames(viewer string) string {
	type entry struct{ name, group string }
	var entries []entry
	s.kits.do(func(v *[]Kit) {
		entries = make([]entry, 0, len(*v))
		for i := range *v {
			entries = append(entries, entry{(*v)[i].Name, (*v)[i].Group})
		}
	})

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.group == "" || s.perm.IsUserInGroup(viewer, e.group) {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, " ")
}

// GetHome returns the named home.
func (s *Store) GetHome(name string) (Location, bool) {
	return lookupLocation(&s.homes, name)
}

// GetWarp returns the named warp.
func (s *Store) GetWarp(name string) (Location, bool) {
	return lookupLocation(&s.warps, name)
}

func lookupLocation(cache *guarded[[]Location], name string) (Location, bool) {
	var loc Location
	var ok bool
	cache.do(func(v *[]Location) {
		for i := range *v {
			if strings.EqualFold((*v)[i].Name, name) {
				loc = (*v)[i]
				ok = true
				return
			}
		}
	})
	return loc, ok
}

// HasWarps reports whether any warps are defined.
func (s *Store) HasWarps() bool {
	var has bool
	s.warps.do(func(v *[]Location) { has = len(*v) > 0 })
	return has
}

// WarpNames returns a space-joined list of every warp name visible to the
// viewer, with the same visibility rule as KitNames.
func (s *Store) WarpNames(viewer string) string {
	type entry struct{ name, group string }
	var entries []entry
	s.warps.do(func(v *[]Location) {
		entries = make([]entry, 0, len(*v))
		for i := range *v {
			entries = append(entries, entry{(*v)[i].Name, (*v)[i].Group})
		}
	})

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.group == "" || s.perm.IsUserInGroup(viewer, e.group) {
			names = append(names, e.name)
		}
	}
	return strings.Join(names, " ")
}

// GetItem returns the item id mapped to the given name, or 0 when there is
// no mapping.
func (s *Store) GetItem(name string) int {
	var id int
	s.items.do(func(v *map[string]int) {
		if n, ok := (*v)[name]; ok {
			id = n
			return
		}
		for item, n := range *v {
			if strings.EqualFold(item, name) {
				id = n
				return
			}
		}
	})
	return id
}

// HasWhitelist reports whether the whitelist is enabled (non-empty).
func (s *Store) HasWhitelist() bool {
	var has bool
	s.whitelist.do(func(v *[]string) { has = len(*v) > 0 })
	return has
}

// IsOnWhitelist reports whitelist membership.
func (s *Store) IsOnWhitelist(name string) bool {
	return listContains(&s.whitelist, name)
}

// HasReserveList reports whether the reserve list is enabled (non-empty).
func (s *Store) HasReserveList() bool {
	var has bool
	s.reservelist.do(func(v *[]string) { has = len(*v) > 0 })
	return has
}

// IsOnReserveList reports reserve list membership.
func (s *Store) IsOnReserveList(name string) bool {
	return listContains(&s.reservelist, name)
}

func listContains(cache *guarded[[]string], name string) bool {
	var found bool
	cache.do(func(v *[]string) {
		for _, entry := range *v {
			if strings.EqualFold(entry, name) {
				found = true
				return
			}
		}
	})
	return found
}

// Mutations. The backend write happens outside the lock; the lock is taken
// only to splice the confirmed result into the cache.

// AddUser persists a new user and returns it with the backend-assigned id.
func (s *Store) AddUser(ctx context.Context, user User) (User, error) {
	added, err := s.src.AddUser(ctx, user)
	if err != nil {
		slog.Error("unable to add user", slog.String("name", user.Name), slog.Any("error", err))
		return User{}, err
	}
	s.users.do(func(v *[]User) { *v = append(*v, added.clone()) })
	return added, nil
}

// ModifyUser persists changes to an existing user and updates the cached
// entry in place.
func (s *Store) ModifyUser(ctx context.Context, user User) error {
	if err := s.src.ModifyUser(ctx, user); err != nil {
		slog.Error("unable to modify user", slog.String("name", user.Name), slog.Any("error", err))
		return err
	}
	s.users.do(func(v *[]User) {
		for i := range *v {
			if (*v)[i].ID == user.ID {
				(*v)[i] = user.clone()
				return
			}
		}
	})
	return nil
}

// AddGroup persists a new group. Backends may decline with ErrNotSupported.
func (s *Store) AddGroup(ctx context.Context, group Group) (Group, error) {
	added, err := s.src.AddGroup(ctx, group)
	if err != nil {
		slog.Error("unable to add group", slog.String("name", group.Name), slog.Any("error", err))
		return Group{}, err
	}
	s.groups.do(func(v *[]Group) { *v = append(*v, added.clone()) })
	return added, nil
}

// ModifyGroup persists changes to an existing group. Backends may decline
// with ErrNotSupported.
func (s *Store) ModifyGroup(ctx context.Context, group Group) error {
	if err := s.src.ModifyGroup(ctx, group); err != nil {
		slog.Error("unable to modify group", slog.String("name", group.Name), slog.Any("error", err))
		return err
	}
	s.groups.do(func(v *[]Group) {
		for i := range *v {
			if (*v)[i].ID == group.ID {
				(*v)[i] = group.clone()
				return
			}
		}
	})
	return nil
}

// AddKit persists a new kit. Backends may decline with ErrNotSupported.
func (s *Store) AddKit(ctx context.Context, kit Kit) (Kit, error) {
	added, err := s.src.AddKit(ctx, kit)
	if err != nil {
		slog.Error("unable to add kit", slog.String("name", kit.Name), slog.Any("error", err))
		return Kit{}, err
	}
	s.kits.do(func(v *[]Kit) { *v = append(*v, added.clone()) })
	return added, nil
}

// ModifyKit persists changes to an existing kit. Backends may decline with
// ErrNotSupported.
func (s *Store) ModifyKit(ctx context.Context, kit Kit) error {
	if err := s.src.ModifyKit(ctx, kit); err != nil {
		slog.Error("unable to modify kit", slog.String("name", kit.Name), slog.Any("error", err))
		return err
	}
	s.kits.do(func(v *[]Kit) {
		for i := range *v {
			if (*v)[i].ID == kit.ID {
				(*v)[i] = kit.clone()
				return
			}
		}
	})
	return nil
}

// AddHome persists a new home and returns it with the backend-assigned id.
func (s *Store) AddHome(ctx context.Context, home Location) (Location, error) {
	added, err := s.src.AddHome(ctx, home)
	if err != nil {
		slog.Error("unable to add home", slog.String("name", home.Name), slog.Any("error", err))
		return Location{}, err
	}
	upsertLocation(&s.homes, added)
	return added, nil
}

// ChangeHome upserts a home: the backend creates it when missing, and the
// cache reflects the persisted row either way.
func (s *Store) ChangeHome(ctx context.Context, home Location) (Location, error) {
	changed, err := s.src.ChangeHome(ctx, home)
	if err != nil {
		slog.Error("unable to change home", slog.String("name", home.Name), slog.Any("error", err))
		return Location{}, err
	}
	upsertLocation(&s.homes, changed)
	return changed, nil
}

// AddWarp persists a new warp and returns it with the backend-assigned id.
func (s *Store) AddWarp(ctx context.Context, warp Location) (Location, error) {
	added, err := s.src.AddWarp(ctx, warp)
	if err != nil {
		slog.Error("unable to add warp", slog.String("name", warp.Name), slog.Any("error", err))
		return Location{}, err
	}
	upsertLocation(&s.warps, added)
	return added, nil
}

// ChangeWarp upserts a warp, like ChangeHome.
func (s *Store) ChangeWarp(ctx context.Context, warp Location) (Location, error) {
	changed, err := s.src.ChangeWarp(ctx, warp)
	if err != nil {
		slog.Error("unable to change warp", slog.String("name", warp.Name), slog.Any("error", err))
		return Location{}, err
	}
	upsertLocation(&s.warps, changed)
	return changed, nil
}

// RemoveWarp deletes a warp by name.
func (s *Store) RemoveWarp(ctx context.Context, name string) error {
	if err := s.src.RemoveWarp(ctx, name); err != nil {
		slog.Error("unable to remove warp", slog.String("name", name), slog.Any("error", err))
		return err
	}
	s.warps.do(func(v *[]Location) {
		kept := (*v)[:0]
		for _, warp := range *v {
			if !strings.EqualFold(warp.Name, name) {
				kept = append(kept, warp)
			}
		}
		*v = kept
	})
	return nil
}

func upsertLocation(cache *guarded[[]Location], loc Location) {
	cache.do(func(v *[]Location) {
		for i := range *v {
			if strings.EqualFold((*v)[i].Name, loc.Name) {
				(*v)[i] = loc
				return
			}
		}
		*v = append(*v, loc)
	})
}

// AddToWhitelist persists a whitelist entry. Adding a name that is already
// present is a no-op end to end.
func (s *Store) AddToWhitelist(ctx context.Context, name string) error {
	if err := s.src.AddToWhitelist(ctx, name); err != nil {
		slog.Error("unable to update whitelist", slog.String("name", name), slog.Any("error", err))
		return err
	}
	listAdd(&s.whitelist, name)
	return nil
}

// RemoveFromWhitelist deletes a whitelist entry.
func (s *Store) RemoveFromWhitelist(ctx context.Context, name string) error {
	if err := s.src.RemoveFromWhitelist(ctx, name); err != nil {
		slog.Error("unable to update whitelist", slog.String("name", name), slog.Any("error", err))
		return err
	}
	listRemove(&s.whitelist, name)
	return nil
}

// AddToReserveList persists a reserve list entry.
func (s *Store) AddToReserveList(ctx context.Context, name string) error {
	if err := s.src.AddToReserveList(ctx, name); err != nil {
		slog.Error("unable to update reservelist", slog.String("name", name), slog.Any("error", err))
		return err
	}
	listAdd(&s.reservelist, name)
	return nil
}

// RemoveFromReserveList deletes a reserve list entry.
func (s *Store) RemoveFromReserveList(ctx context.Context, name string) error {
	if err := s.src.RemoveFromReserveList(ctx, name); err != nil {
		slog.Error("unable to update reservelist", slog.String("name", name), slog.Any("error", err))
		return err
	}
	listRemove(&s.reservelist, name)
	return nil
}

func listAdd(cache *guarded[[]string], name string) {
	cache.do(func(v *[]string) {
		for _, entry := range *v {
			if strings.EqualFold(entry, name) {
				return
			}
		}
		*v = append(*v, name)
	})
}

func listRemove(cache *guarded[[]string], name string) {
	cache.do(func(v *[]string) {
		kept := (*v)[:0]
		for _, entry := range *v {
			if !strings.EqualFold(entry, name) {
				kept = append(kept, entry)
			}
		}
		*v = kept
	})
}
