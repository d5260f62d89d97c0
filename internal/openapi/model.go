// Package openapi loads OpenAPI 3 documents into the flat operation model
// consumed by the tool adapter.
package openapi

// Location is where a parameter's value goes in the outgoing request.
type Location string

// Locations declared by OpenAPI. Only query, path and header are supported by
// the adapter; cookie parameters are surfaced so the adapter can reject them.
const (
	LocationQuery  Location = "query"
	LocationPath   Location = "path"
	LocationHeader Location = "header"
	LocationCookie Location = "cookie"
)

// Specification is a parsed document reduced to its paths and operations.
type Specification struct {
	Title   string
	Version string
	Paths   []PathEntry
}

// PathEntry is one URL template with the operations declared on it.
type PathEntry struct {
	URL        string
	Operations []Operation
}

// Operation identifies one endpoint-method pair.
type Operation struct {
	ID          string
	Method      string // upper case, e.g. GET
	Description string
	Parameters  []Parameter
}

// Parameter is one declared parameter of an operation.
type Parameter struct {
	Name        string
	Required    bool
	Description string
	Location    Location
	Type        string // schema type when declared: string, integer, number, boolean, array, object
}

// OperationCount returns the number of operations across all paths.
func (s *Specification) OperationCount() int {
	n := 0
	for _, p := range s.Paths {
		n += len(p.Operations)
	}
	return n
}
