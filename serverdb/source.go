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
)

// ErrNotSupported is returned by a backend that intentionally declines a
// mutation. It is a distinct signal, never a silent no-op.
var ErrNotSupported = errors.New("operation not supported by this backend")

// ErrNotFound is returned by a backend when a modify targets an entity the
// durable state does not contain.
var ErrNotFound = errors.New("entity not found")

// Source is the backend contract. A backend owns its storage medium and
// never touches the store's caches; load operations return the category's
// full durable state and mutations return the persisted entity with the
// backend-assigned id filled in.
//
// Load operations may return partial results alongside an error; the store
// keeps whatever was built (best-effort load semantics).
type Source interface {
	LoadUsers(ctx context.Context) ([]User, error)
	LoadGroups(ctx context.Context) ([]Group, error)
	LoadKits(ctx context.Context) ([]Kit, error)
	LoadHomes(ctx context.Context) ([]Location, error)
	LoadWarps(ctx context.Context) ([]Location, error)
	LoadItems(ctx context.Context) (map[string]int, error)
	LoadWhitelist(ctx context.Context) ([]string, error)
	LoadReserveList(ctx context.Context) ([]string, error)

	AddUser(ctx context.Context, user User) (User, error)
	ModifyUser(ctx context.Context, user User) error
	AddGroup(ctx context.Context, group Group) (Group, error)
	ModifyGroup(ctx context.Context, group Group) error
	AddKit(ctx context.Context, kit Kit) (Kit, error)
	ModifyKit(ctx context.Context, kit Kit) error

	AddHome(ctx context.Context, home Location) (Location, error)
	// ChangeHome is an upsert: a home that does not exist yet is created,
	// and the assigned id is returned either way.
	ChangeHome(ctx context.Context, home Location) (Location, error)
	AddWarp(ctx context.Context, warp Location) (Location, error)
	// ChangeWarp is an upsert, like ChangeHome.
	ChangeWarp(ctx context.Context, warp Location) (Location, error)
	RemoveWarp(ctx context.Context, name string) error

	AddToWhitelist(ctx context.Context, name string) error
	RemoveFromWhitelist(ctx context.Context, name string) error
	AddToReserveList(ctx context.Context, name string) error
	RemoveFromReserveList(ctx context.Context, name string) error

	Close() error
}
