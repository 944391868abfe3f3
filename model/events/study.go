// SPDX-License-Identifier: MIT

package events

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Measurement is one dated event.
type Measurement struct {
	Name  string   `yaml:"name" validate:"required"`
	Mean  float64  `yaml:"mean"`
	SD    float64  `yaml:"sd" validate:"gt=0"`
	Value *float64 `yaml:"value,omitempty"`
}

// Study is the set of events dated together.
type Study struct {
	Start  float64       `yaml:"start"`
	End    float64       `yaml:"end" validate:"gtfield=Start"`
	Events []Measurement `yaml:"events" validate:"min=1,dive"`
}

// LoadStudy reads and validates a YAML study file.
func LoadStudy(path string) (Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Study{}, fmt.Errorf("events: read %s: %w", path, err)
	}
	var s Study
	if err = yaml.Unmarshal(data, &s); err != nil {
		return Study{}, fmt.Errorf("%w: %s: %w", ErrInvalidStudy, path, err)
	}
	if err = s.Validate(); err != nil {
		return Study{}, err
	}

	return s, nil
}

// Validate checks the study period and every measurement.
func (s Study) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s fails %s", ErrInvalidStudy, fe.Namespace(), fe.Tag())
	}

	return fmt.Errorf("%w: %w", ErrInvalidStudy, err)
}

// contains reports whether t lies in the study period.
func (s Study) contains(t float64) bool { return t >= s.Start && t <= s.End }

// clamp brings t into the study period.
func (s Study) clamp(t float64) float64 { return min(max(t, s.Start), s.End) }
