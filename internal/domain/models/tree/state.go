package tree

// CheckboxState is the derived tri-state of a folder checkbox
type CheckboxState string

const (
	Unchecked     CheckboxState = "unchecked"
	Checked       CheckboxState = "checked"
	Indeterminate CheckboxState = "indeterminate"
)

// StateFromCounts maps a selected/total count pair to a checkbox state.
// A folder owning no items is always unchecked.
func StateFromCounts(selected, total int) CheckboxState {
	switch {
	case total == 0 || selected == 0:
		return Unchecked
	case selected >= total:
		return Checked
	default:
		return Indeterminate
	}
}
