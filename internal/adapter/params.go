// Package adapter turns OpenAPI operations into invocable tools: it binds
// declared parameters to a call signature, builds HTTP requests from call
// arguments, executes them and normalizes the outcome.
package adapter

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/restmcp/internal/openapi"
)

// Sanitize converts hyphens to underscores and drops every character outside
// [A-Za-z0-9_].
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parameter is a declared parameter adapted for the call signature.
type Parameter struct {
	Name        string // sanitized; the argument name
	Original    string // declared name; the wire name and path placeholder
	Required    bool
	Location    openapi.Location
	Type        string
	Description string // "<name> - <description> (required|optional)"
}

func composeDescription(name, description string, required bool) string {
	flag := "optional"
	if required {
		flag = "required"
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Sprintf("%s (%s)", name, flag)
	}
	return fmt.Sprintf("%s - %s (%s)", name, description, flag)
}

// AdaptParameters converts declarations into adapted parameters, preserving order.
// Two declarations sanitizing to the same name are rejected.
func AdaptParameters(decls []openapi.Parameter) ([]Parameter, error) {
	params := make([]Parameter, 0, len(decls))
	seen := make(map[string]string, len(decls))

	for i, d := range decls {
		if strings.TrimSpace(d.Name) == "" {
			return nil, &MalformedParameterError{Index: i, Reason: "missing name"}
		}
		switch d.Location {
		case openapi.LocationQuery, openapi.LocationPath, openapi.LocationHeader:
		default:
			return nil, &MalformedParameterError{Index: i, Name: d.Name, Reason: fmt.Sprintf("unsupported location %q", d.Location)}
		}

		name := Sanitize(d.Name)
		if name == "" {
			return nil, &MalformedParameterError{Index: i, Name: d.Name, Reason: "name has no identifier characters"}
		}
		if prev, ok := seen[name]; ok {
			return nil, &MalformedParameterError{Index: i, Name: d.Name, Reason: fmt.Sprintf("collides with %q as %q", prev, name)}
		}
		seen[name] = d.Name

		params = append(params, Parameter{
			Name:        name,
			Original:    d.Name,
			Required:    d.Required,
			Location:    d.Location,
			Type:        d.Type,
			Description: composeDescription(name, d.Description, d.Required),
		})
	}
	return params, nil
}
