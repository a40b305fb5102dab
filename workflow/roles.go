// ABOUTME: The semantic roles a dataset column can be mapped to.
// ABOUTME: Mirrors the backend's canonical marine-data schema; unknown suggested roles are ignored.
package workflow

// MappingRoles lists the assignable column roles, in display order.
// "Ignore" is the default for every column until the user or the agent says
// otherwise.
var MappingRoles = []string{
	"Ignore",
	"Latitude",
	"Longitude",
	"Date",
	"Time",
	"Depth",
	"Temperature",
	"Salinity",
	"Oxygen",
	"Phosphate",
	"Silicate",
	"Nitrate",
	"Categorical",
	"Numerical",
}

// ValidRole reports whether the given role is one of the assignable roles.
func ValidRole(role string) bool {
	for _, r := range MappingRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultMappings returns the identity mapping for the given columns: every
// column starts as "Ignore".
func DefaultMappings(columns []string) map[string]string {
	m := make(map[string]string, len(columns))
	for _, col := range columns {
		m[col] = "Ignore"
	}
	return m
}

// MergeSuggestions overlays valid suggested roles onto existing selections,
// leaving columns without a valid suggestion untouched.
func MergeSuggestions(current map[string]string, suggestions map[string]RoleSuggestion) {
	for col, s := range suggestions {
		if _, known := current[col]; !known {
			continue
		}
		if ValidRole(s.Role) {
			current[col] = s.Role
		}
	}
}
