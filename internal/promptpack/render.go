package promptpack

import (
	"fmt"

	"github.com/nikolalohinski/gonja"
)

// renderJinja renders tpl with vars. Isolated in its own function so the
// single point of contact with the templating library stays narrow.
func renderJinja(tpl string, vars map[string]interface{}) (string, error) {
	tmpl, err := gonja.FromString(tpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	out, err := tmpl.Execute(vars)
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}
