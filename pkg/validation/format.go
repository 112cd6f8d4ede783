// Package validation provides common validation utilities for command line input.
package validation

import (
	"fmt"

	"github.com/iwvelando/finpulse/internal/snapshot"
	"github.com/iwvelando/finpulse/pkg/constants"
	"go.uber.org/multierr"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateDashboards parses a dashboard selection. An empty selection means
// every dashboard; repeated names are kept once in first-seen order.
func ValidateDashboards(names []string) ([]snapshot.Dashboard, error) {
	if len(names) == 0 {
		return append([]snapshot.Dashboard(nil), snapshot.Dashboards...), nil
	}

	var errs error
	seen := make(map[snapshot.Dashboard]bool, len(names))
	selected := make([]snapshot.Dashboard, 0, len(names))
	for _, name := range names {
		d, err := snapshot.ParseDashboard(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !seen[d] {
			seen[d] = true
			selected = append(selected, d)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return selected, nil
}

// ValidateCycles checks the number of cycles requested from the simulate command.
func ValidateCycles(cycles int) error {
	if cycles < 1 {
		return fmt.Errorf("expected at least one cycle, got %d", cycles)
	}
	return nil
}
