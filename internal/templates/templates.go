package templates

import (
	"embed"
	"fmt"
)

// Binarray is the template for a generated C++ byte-array source file.
const Binarray = "binarray.cpp.tmpl"

//go:embed *.tmpl
var templatesFS embed.FS

// Get returns the content of the specified template file.
func Get(name string) (string, error) {
	content, err := templatesFS.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("template %s not found: %w", name, err)
	}
	return string(content), nil
}
