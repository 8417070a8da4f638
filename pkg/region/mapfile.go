package region

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// mapValidate checks module map entries before they are converted.
var mapValidate = validator.New()

// MapFile is the YAML layout of a module map snapshot:
//
//	modules:
//	  - name: /usr/bin/target
//	    start: "0x555555554000"
//	    end: "0x555555575000"
//	    base: "0x0"
type MapFile struct {
	Modules []MapEntry `yaml:"modules" validate:"dive"`
}

// MapEntry is one module line of a MapFile. Addresses are hex strings.
type MapEntry struct {
	Name  string `yaml:"name" validate:"required"`
	Start string `yaml:"start" validate:"required,hexadecimal"`
	End   string `yaml:"end" validate:"required,hexadecimal"`
	Base  string `yaml:"base" validate:"omitempty,hexadecimal"`
}

// Region converts the entry to a Region.
func (e MapEntry) Region() (Region, error) {
	start, err := ParseAddress(e.Start)
	if err != nil {
		return Region{}, err
	}
	end, err := ParseAddress(e.End)
	if err != nil {
		return Region{}, err
	}
	if end <= start {
		return Region{}, fmt.Errorf("region: module %s ends before it starts", e.Name)
	}
	var base uint64
	if e.Base != "" {
		if base, err = ParseAddress(e.Base); err != nil {
			return Region{}, err
		}
	}
	return Region{Name: e.Name, Start: start, End: end, Base: base}, nil
}

// ParseTable decodes a YAML module map into a Table.
func ParseTable(data []byte) (*Table, error) {
	var mf MapFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("region: failed to parse module map: %w", err)
	}
	if err := mapValidate.Struct(mf); err != nil {
		return nil, fmt.Errorf("region: invalid module map: %w", err)
	}

	t := NewTable()
	for _, entry := range mf.Modules {
		r, err := entry.Region()
		if err != nil {
			return nil, err
		}
		t.Load(r)
	}
	return t, nil
}

// LoadTable reads a YAML module map from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("region: failed to read module map: %w", err)
	}
	return ParseTable(data)
}
