// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/chronosim/mcmc"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterStructValidation(runConfigurationLevel, mcmc.RunConfiguration{})
	})

	return validate
}

// runConfigurationLevel checks the rules that span several fields.
func runConfigurationLevel(sl validator.StructLevel) {
	rc := sl.Current().Interface().(mcmc.RunConfiguration)

	if maxK := rc.MaxThinning(); rc.ThinningInterval > maxK {
		sl.ReportError(rc.ThinningInterval, "ThinningInterval", "ThinningInterval", "lte_run40", fmt.Sprint(maxK))
	}
	if len(rc.Seeds) > 0 && len(rc.Seeds) != rc.NumChains {
		sl.ReportError(rc.Seeds, "Seeds", "Seeds", "len_chains", fmt.Sprint(rc.NumChains))
	}
}

// Validate checks every constraint of the configuration. The returned error
// wraps ErrInvalid and lists each violated field.
func (c Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag())
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		msgs = append(msgs, msg)
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
