package openapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SpecificationFiles are the file names probed in a provider directory, in order.
var SpecificationFiles = []string{"specification.json", "specification.yaml", "specification.yml"}

// ErrNoSpecification is returned when a provider directory holds none of SpecificationFiles.
var ErrNoSpecification = errors.New("no specification file found")

// methodOrder is the order operations appear in within a path item.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// SpecificationLoadError reports a specification that is missing or fails to parse.
type SpecificationLoadError struct {
	Path string
	Err  error
}

func (e *SpecificationLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("specification load failed: %v", e.Err)
	}
	return fmt.Sprintf("specification %s: %v", e.Path, e.Err)
}

func (e *SpecificationLoadError) Unwrap() error { return e.Err }

// Loader parses OpenAPI 3 documents in JSON or YAML.
type Loader struct {
	// AllowExternalRefs permits $ref to other files next to the document.
	AllowExternalRefs bool
}

// NewLoader returns a Loader that resolves local references only.
func NewLoader() *Loader {
	return &Loader{}
}

// FindSpecification returns the first specification file present in dir.
func FindSpecification(dir string) (string, error) {
	for _, name := range SpecificationFiles {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", &SpecificationLoadError{Err: ErrNoSpecification}
}

// Load parses and validates the document at path.
func (l *Loader) Load(ctx context.Context, path string) (*Specification, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = l.AllowExternalRefs

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, &SpecificationLoadError{Path: path, Err: err}
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, &SpecificationLoadError{Path: path, Err: fmt.Errorf("invalid document: %w", err)}
	}
	return convert(doc), nil
}

func convert(doc *openapi3.T) *Specification {
	spec := &Specification{}
	if doc.Info != nil {
		spec.Title = doc.Info.Title
		spec.Version = doc.Info.Version
	}
	if doc.Paths == nil {
		return spec
	}

	items := doc.Paths.Map()
	urls := make([]string, 0, len(items))
	for url := range items {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		item := items[url]
		if item == nil {
			continue
		}
		entry := PathEntry{URL: url}
		ops := item.Operations()
		for _, method := range methodOrder {
			op, ok := ops[method]
			if !ok || op == nil {
				continue
			}
			entry.Operations = append(entry.Operations, convertOperation(url, method, item.Parameters, op))
		}
		spec.Paths = append(spec.Paths, entry)
	}
	return spec
}

func convertOperation(url, method string, inherited openapi3.Parameters, op *openapi3.Operation) Operation {
	out := Operation{
		ID:          op.OperationID,
		Method:      method,
		Description: op.Description,
	}
	if out.ID == "" {
		out.ID = fallbackOperationID(method, url)
	}
	if out.Description == "" {
		out.Description = op.Summary
	}

	// Operation parameters override path-item parameters with the same name and location.
	overridden := make(map[string]bool, len(op.Parameters))
	for _, ref := range op.Parameters {
		if ref != nil && ref.Value != nil {
			overridden[ref.Value.In+"\x00"+ref.Value.Name] = true
		}
	}
	for _, ref := range inherited {
		if ref != nil && ref.Value != nil && overridden[ref.Value.In+"\x00"+ref.Value.Name] {
			continue
		}
		out.Parameters = append(out.Parameters, convertParameter(ref))
	}
	for _, ref := range op.Parameters {
		out.Parameters = append(out.Parameters, convertParameter(ref))
	}
	return out
}

// convertParameter keeps unresolvable references as nameless declarations so
// the adapter rejects the operation rather than silently dropping a parameter.
func convertParameter(ref *openapi3.ParameterRef) Parameter {
	if ref == nil || ref.Value == nil {
		return Parameter{}
	}
	p := ref.Value
	return Parameter{
		Name:        p.Name,
		Required:    p.Required,
		Description: p.Description,
		Location:    Location(p.In),
		Type:        schemaType(p.Schema),
	}
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	for _, t := range ref.Value.Type.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

// fallbackOperationID derives an identifier for operations without operationId,
// e.g. GET /users/{id} -> get_users_{id}.
func fallbackOperationID(method, url string) string {
	trimmed := strings.Trim(url, "/")
	if trimmed == "" {
		return strings.ToLower(method)
	}
	return strings.ToLower(method) + "_" + strings.ReplaceAll(trimmed, "/", "_")
}
