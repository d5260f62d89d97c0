package adapter

import "sort"

// notProvided marks an optional argument the caller did not supply. It is a
// distinct type so it can never collide with a JSON value, including null.
type notProvided struct{}

func (notProvided) String() string { return "<not provided>" }

// NotProvided is the default bound to optional parameters that were omitted.
var NotProvided any = notProvided{}

// IsNotProvided reports whether v is the NotProvided sentinel.
func IsNotProvided(v any) bool {
	_, ok := v.(notProvided)
	return ok
}

// SignatureParam is one entry of a call signature.
type SignatureParam struct {
	Name     string
	Required bool
	Default  any // NotProvided for optional parameters, nil for required ones
}

// Signature is the ordered parameter list a tool accepts.
type Signature struct {
	params []SignatureParam
	index  map[string]int
}

// Arguments maps parameter names to bound values. Optional parameters the
// caller omitted hold NotProvided.
type Arguments map[string]any

// NewSignature builds the signature for adapted parameters.
func NewSignature(params []Parameter) Signature {
	sig := Signature{
		params: make([]SignatureParam, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for i, p := range params {
		sp := SignatureParam{Name: p.Name, Required: p.Required}
		if !p.Required {
			sp.Default = NotProvided
		}
		sig.params[i] = sp
		sig.index[p.Name] = i
	}
	return sig
}

// Params returns a copy of the signature's parameters in declaration order.
func (s Signature) Params() []SignatureParam {
	out := make([]SignatureParam, len(s.params))
	copy(out, s.params)
	return out
}

// Required returns the names of parameters without defaults.
func (s Signature) Required() []string {
	var names []string
	for _, p := range s.params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Optional returns the names of parameters that default to NotProvided.
func (s Signature) Optional() []string {
	var names []string
	for _, p := range s.params {
		if !p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Bind validates keyword arguments against the signature. Unknown names and
// missing required parameters are errors; omitted optional parameters are
// bound to NotProvided. A present nil value counts as supplied.
func (s Signature) Bind(args map[string]any) (Arguments, error) {
	var unexpected []string
	for name := range args {
		if _, ok := s.index[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return nil, &UnexpectedArgumentError{Names: unexpected}
	}

	bound := make(Arguments, len(s.params))
	for _, p := range s.params {
		v, ok := args[p.Name]
		if ok && !IsNotProvided(v) {
			bound[p.Name] = v
			continue
		}
		if p.Required {
			return nil, &MissingRequiredParameterError{Name: p.Name}
		}
		bound[p.Name] = p.Default
	}
	return bound, nil
}
