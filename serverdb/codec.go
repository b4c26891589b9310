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
	"sort"
	"strconv"
	"strings"
)

// Multi-valued entity fields are persisted as a single comma-joined column
// in the relational schema. Kit item lists use the sub-format
// "<id>[ <amount>]" per entry, with the amount defaulting to 1.

// JoinList encodes a name list as a comma-joined column value.
func JoinList(parts []string) string {
	return strings.Join(parts, ",")
}

// SplitList decodes a comma-joined column value. An empty column decodes
// to nil rather than a single empty element.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// EncodeItems encodes a kit item map. Entries are sorted by item id so the
// column value is stable across writes.
func EncodeItems(items map[string]int) string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		if amount := items[id]; amount != 1 {
			entries = append(entries, id+" "+strconv.Itoa(amount))
			continue
		}
		entries = append(entries, id)
	}
	return strings.Join(entries, ",")
}

// DecodeItems decodes a kit item column value. Entries without an explicit
// amount default to 1; entries with a malformed amount keep the default.
func DecodeItems(s string) map[string]int {
	items := make(map[string]int)
	for _, entry := range SplitList(s) {
		id := entry
		amount := 1
		if before, after, found := strings.Cut(entry, " "); found {
			id = before
			if n, err := strconv.Atoi(after); err == nil {
				amount = n
			}
		}
		if id == "" {
			continue
		}
		items[id] = amount
	}
	return items
}
