package reference

import (
	"fmt"
	"strings"

	"github.com/lgrando1/leo-tracker/internal/normalize"
)

type Role string

const (
	RoleName         Role = "name"
	RoleEnergy       Role = "energy"
	RoleProtein      Role = "protein"
	RoleCarbohydrate Role = "carbohydrate"
	RoleFat          Role = "fat"
)

// roleKeywords is evaluated in order. Within a role, earlier keywords win
// over later ones regardless of header position.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{role: RoleName, keywords: []string{"descri"}},
	{role: RoleEnergy, keywords: []string{"kcal", "energ"}},
	{role: RoleProtein, keywords: []string{"protein"}},
	{role: RoleCarbohydrate, keywords: []string{"carboidrat"}},
	{role: RoleFat, keywords: []string{"lipide", "gordura"}},
}

// Columns holds the zero-based column index of each role.
type Columns struct {
	Name         int `json:"name"`
	Energy       int `json:"energy"`
	Protein      int `json:"protein"`
	Carbohydrate int `json:"carbohydrate"`
	Fat          int `json:"fat"`
}

// FixedLayout is the documented positional layout of the reference table,
// used only when fixed-position mode is chosen explicitly.
var FixedLayout = Columns{Name: 2, Energy: 4, Protein: 6, Carbohydrate: 9, Fat: 7}

func (columns *Columns) set(role Role, index int) {
	switch role {
	case RoleName:
		columns.Name = index
	case RoleEnergy:
		columns.Energy = index
	case RoleProtein:
		columns.Protein = index
	case RoleCarbohydrate:
		columns.Carbohydrate = index
	case RoleFat:
		columns.Fat = index
	}
}

// ColumnResolutionError lists the roles no header matched, along with the
// headers that were actually present.
type ColumnResolutionError struct {
	Missing []Role
	Headers []string
}

func (err *ColumnResolutionError) Error() string {
	missing := make([]string, len(err.Missing))
	for i, role := range err.Missing {
		missing[i] = string(role)
	}
	return fmt.Sprintf("resolving columns: no header matched %s (headers seen: %q)",
		strings.Join(missing, ", "), err.Headers)
}

// ResolveColumns matches headers to roles case- and accent-insensitively.
// A header is claimed by at most one role. It never guesses by position.
func ResolveColumns(headers []string) (Columns, error) {
	folded := make([]string, len(headers))
	for i, header := range headers {
		folded[i] = normalize.Fold(header)
	}

	var columns Columns
	var missing []Role
	claimed := make(map[int]bool, len(roleKeywords))

	for _, entry := range roleKeywords {
		index := findHeader(folded, entry.keywords, claimed)
		if index < 0 {
			missing = append(missing, entry.role)
			continue
		}
		claimed[index] = true
		columns.set(entry.role, index)
	}

	if len(missing) > 0 {
		return Columns{}, &ColumnResolutionError{Missing: missing, Headers: headers}
	}
	return columns, nil
}

func findHeader(folded []string, keywords []string, claimed map[int]bool) int {
	for _, keyword := range keywords {
		for index, header := range folded {
			if !claimed[index] && strings.Contains(header, keyword) {
				return index
			}
		}
	}
	return -1
}
