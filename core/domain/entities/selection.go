package entities

import "fmt"

// Selection is the pair of adapters the user toggles between
type Selection struct {
	Interface1 string `json:"interface1" yaml:"interface1"`
	Interface2 string `json:"interface2" yaml:"interface2"`
}

// Validate checks that both names are set and distinct
func (s Selection) Validate() error {
	if s.Interface1 == "" || s.Interface2 == "" {
		return fmt.Errorf("%w: both interfaces must be selected", ErrInvalidSelection)
	}
	if s.Interface1 == s.Interface2 {
		return fmt.Errorf("%w: interfaces must be different", ErrInvalidSelection)
	}
	return nil
}

// IsEmpty reports whether nothing has been selected yet
func (s Selection) IsEmpty() bool {
	return s.Interface1 == "" && s.Interface2 == ""
}
