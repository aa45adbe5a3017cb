package npr

import "fmt"

var constructors = map[Type]func(...Option) Filter{
	TypeGaussian:  func(o ...Option) Filter { return NewGaussian(o...) },
	TypeInversion: func(o ...Option) Filter { return NewInversion(o...) },
	TypeACSP:      func(o ...Option) Filter { return NewACSP(o...) },
	TypeCAH:       func(o ...Option) Filter { return NewCAH(o...) },
	TypeRetinex:   func(o ...Option) Filter { return NewRetinex(o...) },
	TypeKang:      func(o ...Option) Filter { return NewKang(o...) },
	TypeSBE:       func(o ...Option) Filter { return NewSBE(o...) },
	TypeMeasure:   func(o ...Option) Filter { return NewMeasure(o...) },
}

// Types returns every registered filter type in a stable order.
func Types() []Type {
	return []Type{TypeGaussian, TypeInversion, TypeACSP, TypeCAH, TypeRetinex, TypeKang, TypeSBE, TypeMeasure}
}

// New creates a filter of type t and, when p is non-nil, reads its
// parameters.
func New(t Type, p Params, opts ...Option) (Filter, error) {
	ctor, ok := constructors[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	f := ctor(opts...)
	if p != nil {
		if err := f.ReadParameters(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}
