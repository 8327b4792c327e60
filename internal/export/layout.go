package export

import "fmt"

// Master layout kinds for the archive's top-level document.
const (
	LayoutFlat = "flat"
	LayoutGrid = "grid"
)

// LayoutConfig externalizes the grid layout policy so group sizes,
// the department set and the visible week can vary by institution
// without code changes.
type LayoutConfig struct {
	Year1GroupSize int      `json:"year1_group_size"`
	Year2GroupSize int      `json:"year2_group_size"`
	Departments    []string `json:"departments"`
	GridDays       []string `json:"grid_days"`
	MasterLayout   string   `json:"master_layout"`
}

// SetDefaults fills unset fields with the institutional defaults.
func (c *LayoutConfig) SetDefaults() {
	if c.Year1GroupSize == 0 {
		c.Year1GroupSize = 4
	}
	if c.Year2GroupSize == 0 {
		c.Year2GroupSize = 3
	}
	if len(c.Departments) == 0 {
		c.Departments = []string{"AID", "BIF", "CNC", "CSC"}
	}
	if len(c.GridDays) == 0 {
		c.GridDays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}
	}
	if c.MasterLayout == "" {
		c.MasterLayout = LayoutGrid
	}
}

// Validate rejects configurations the grid builder cannot honor.
func (c *LayoutConfig) Validate() error {
	if c.Year1GroupSize < 1 {
		return fmt.Errorf("layout: year1_group_size must be positive, got %d", c.Year1GroupSize)
	}
	if c.Year2GroupSize < 1 {
		return fmt.Errorf("layout: year2_group_size must be positive, got %d", c.Year2GroupSize)
	}
	if len(c.GridDays) == 0 {
		return fmt.Errorf("layout: grid_days must not be empty")
	}
	switch c.MasterLayout {
	case LayoutFlat, LayoutGrid:
	default:
		return fmt.Errorf("layout: unknown master_layout %q", c.MasterLayout)
	}
	return nil
}
