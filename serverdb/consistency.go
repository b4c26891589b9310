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
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// CheckConsistency walks the caches and reports every soft-reference
// violation: users, kits and warps naming groups that do not exist, groups
// inheriting from groups that do not exist, and more than one group flagged
// as the default. The result is advisory; nothing is repaired and the
// caches are left untouched. Intended to run after Initialize.
func (s *Store) CheckConsistency() error {
	var users []User
	s.users.do(func(v *[]User) { users = append(users, *v...) })
	var groups []Group
	s.groups.do(func(v *[]Group) { groups = append(groups, *v...) })
	var kits []Kit
	s.kits.do(func(v *[]Kit) { kits = append(kits, *v...) })
	var warps []Location
	s.warps.do(func(v *[]Location) { warps = append(warps, *v...) })

	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[strings.ToLower(g.Name)] = true
	}
	exists := func(name string) bool {
		return name == "" || known[strings.ToLower(name)]
	}

	var errs *multierror.Error
	for _, u := range users {
		for _, ref := range u.Groups {
			if !exists(ref) {
				errs = multierror.Append(errs, fmt.Errorf("user %q references unknown group %q", u.Name, ref))
			}
		}
	}
	for _, g := range groups {
		for _, ref := range g.InheritedGroups {
			if !exists(ref) {
				errs = multierror.Append(errs, fmt.Errorf("group %q inherits unknown group %q", g.Name, ref))
			}
		}
	}
	for _, k := range kits {
		if !exists(k.Group) {
			errs = multierror.Append(errs, fmt.Errorf("kit %q requires unknown group %q", k.Name, k.Group))
		}
	}
	for _, w := range warps {
		if !exists(w.Group) {
			errs = multierror.Append(errs, fmt.Errorf("warp %q requires unknown group %q", w.Name, w.Group))
		}
	}

	var defaults []string
	for _, g := range groups {
		if g.DefaultGroup {
			defaults = append(defaults, g.Name)
		}
	}
	if len(defaults) > 1 {
		errs = multierror.Append(errs, fmt.Errorf("multiple default groups: %s", strings.Join(defaults, ", ")))
	}

	return errs.ErrorOrNil()
}
