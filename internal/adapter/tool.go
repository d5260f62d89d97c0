package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/restmcp/internal/openapi"
	"github.com/bobmcallan/restmcp/internal/provider"
)

// Tool is a named, documented, invocable unit generated from one operation.
// It is immutable after Build and safe for concurrent use.
type Tool struct {
	Name          string
	Documentation string
	Provider      string
	OperationID   string
	Method        string
	Path          string // URL template as declared, with original placeholder names

	params    []Parameter
	signature Signature
	binding   provider.Binding
	executor  *Executor
}

// Build adapts one operation of a provider into a Tool.
func Build(providerName string, binding provider.Binding, path string, op openapi.Operation, executor *Executor) (*Tool, error) {
	wrap := func(err error) error {
		return &OperationAdaptationError{Provider: providerName, OperationID: op.ID, Method: op.Method, Path: path, Err: err}
	}

	if op.ID == "" {
		return nil, wrap(errors.New("operation has no identifier"))
	}
	if op.Method == "" {
		return nil, wrap(errors.New("operation has no method"))
	}
	if binding.BaseURL == "" {
		return nil, wrap(errors.New("provider has no base URL"))
	}

	params, err := AdaptParameters(op.Parameters)
	if err != nil {
		return nil, wrap(err)
	}

	name := Sanitize(providerName + "_" + op.ID)
	if name == "" {
		return nil, wrap(fmt.Errorf("tool name %q has no identifier characters", providerName+"_"+op.ID))
	}

	method := strings.ToUpper(op.Method)
	headers := binding.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}

	return &Tool{
		Name:          name,
		Documentation: document(op.Description, method, path, params),
		Provider:      providerName,
		OperationID:   op.ID,
		Method:        method,
		Path:          path,
		params:        params,
		signature:     NewSignature(params),
		binding:       provider.Binding{BaseURL: binding.BaseURL, Headers: headers},
		executor:      executor,
	}, nil
}

func document(description, method, path string, params []Parameter) string {
	doc := strings.TrimSpace(description)
	if doc == "" {
		doc = fmt.Sprintf("Make a %s request to %s", method, path)
	}
	if len(params) == 0 {
		return doc
	}
	var b strings.Builder
	b.WriteString(doc)
	b.WriteString("\nArguments:")
	for _, p := range params {
		b.WriteString("\n")
		b.WriteString(p.Description)
	}
	return b.String()
}

// Parameters returns a copy of the adapted parameters in declaration order.
func (t *Tool) Parameters() []Parameter {
	out := make([]Parameter, len(t.params))
	copy(out, t.params)
	return out
}

// Signature returns the tool's call signature.
func (t *Tool) Signature() Signature {
	return t.signature
}

// Request binds args and builds the outbound request without sending it.
func (t *Tool) Request(args map[string]any) (*Request, error) {
	bound, err := t.signature.Bind(args)
	if err != nil {
		return nil, err
	}
	return Synthesize(t.Method, t.binding.BaseURL, t.Path, t.binding.Headers, t.params, bound)
}

// Invoke binds args, builds the request and executes it. Binding errors are
// returned before any request is sent; transport failures are reported in
// the Result.
func (t *Tool) Invoke(ctx context.Context, args map[string]any) (*Result, error) {
	req, err := t.Request(args)
	if err != nil {
		return nil, err
	}
	return t.executor.Execute(ctx, req)
}
