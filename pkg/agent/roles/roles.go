package roles

import (
	"kanzlei-ai-be/pkg/tools"
)

// Kanzlei roles, from broadest to most restricted.
const (
	RolePartner        = "partner"
	RoleAnwalt         = "anwalt"
	RoleSachbearbeiter = "sachbearbeiter"
	RoleReferendar     = "referendar"
)

// writeDenylist maps a role to the write tools it may NOT use. Read tools
// are always available: everyone in the Kanzlei may look at case data the
// API already lets them see. Unknown roles get no write tools at all.
var writeDenylist = map[string]map[string]bool{
	RolePartner: {},
	RoleAnwalt:  {},
	RoleSachbearbeiter: {
		"akte_aktualisieren": true,
	},
	// Referendare may leave notes but never touch case master data.
	RoleReferendar: {
		"akte_aktualisieren": true,
	},
}

// FilterRegistry returns the subset of the registry the role may use.
func FilterRegistry(reg *tools.Registry, role string) *tools.Registry {
	denied, known := writeDenylist[role]

	var allowed []string
	for _, name := range reg.Names() {
		t, ok := reg.Get(name)
		if !ok {
			continue
		}
		if t.Kind() == tools.KindRead {
			allowed = append(allowed, name)
			continue
		}
		if !known {
			// Unknown role: read only.
			continue
		}
		if !denied[name] {
			allowed = append(allowed, name)
		}
	}
	return reg.Filter(allowed)
}
