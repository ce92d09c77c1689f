package wrapper

import "fmt"

// Factory creates text backends. The zero value is usable and yields every
// backend in preference order.
type Factory struct{}

// NewFactory creates a backend factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a backend of the given type.
func (f *Factory) Create(t BackendType) (TextBackend, error) {
	switch t {
	case BackendLedongthuc:
		return NewLedongthucBackend(), nil
	case BackendPDFCPU:
		return NewPDFCPUBackend(), nil
	case BackendFitz:
		return NewFitzBackend(), nil
	default:
		return nil, &WrapperError{
			Backend: t,
			Op:      "create",
			Err:     fmt.Errorf("unknown backend type: %s", t),
		}
	}
}

// All returns every backend in preference order. Fitz comes first for its
// layout fidelity; the pure Go backends follow as fallbacks that work
// without the MuPDF shared library.
func (f *Factory) All() []TextBackend {
	return []TextBackend{
		NewFitzBackend(),
		NewLedongthucBackend(),
		NewPDFCPUBackend(),
	}
}

// Types lists the known backend types in the same order as All.
func Types() []BackendType {
	return []BackendType{BackendFitz, BackendLedongthuc, BackendPDFCPU}
}
