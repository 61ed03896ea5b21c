// Package goplugin bridges compiled Go plugins (.so files)
// into conformance checking. A symbol exported by a plugin is
// exactly the kind of candidate whose shape cannot be proven at
// compile time, so it is wrapped as a subject and checked at
// runtime like any other.
package goplugin

import (
	"fmt"
	"plugin"
	"reflect"

	"digital.vasic.conformance/pkg/contract"
	"digital.vasic.conformance/pkg/logging"
	"digital.vasic.conformance/pkg/verify"
)

// Loading real .so fixtures would need a separate build step,
// so the loader internals can be overridden in tests.
var (
	openFunc   = plugin.Open
	lookupFunc = func(
		p *plugin.Plugin, symName string,
	) (plugin.Symbol, error) {
		return p.Lookup(symName)
	}
)

// Adapter loads symbols from compiled plugins and wraps them as
// checkable subjects.
type Adapter struct {
	logger logging.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the adapter's logger.
func WithLogger(logger logging.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter creates an Adapter with the supplied options.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{
		logger: logging.NullLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open loads the plugin at path, resolves the exported symbol,
// and wraps it as a subject labeled "path#symbol".
func (a *Adapter) Open(
	path, symbol string,
) (contract.Subject, error) {
	p, err := openFunc(path)
	if err != nil {
		return contract.Subject{}, fmt.Errorf(
			"failed to open plugin %s: %w", path, err,
		)
	}

	sym, err := lookupFunc(p, symbol)
	if err != nil {
		return contract.Subject{}, fmt.Errorf(
			"failed to resolve symbol %s in %s: %w",
			symbol, path, err,
		)
	}

	label := path + "#" + symbol
	a.logger.Debug("plugin symbol loaded",
		logging.StringField("subject", label),
		logging.StringField("type", fmt.Sprintf("%T", sym)),
	)
	return contract.NewSubject(label, unwrapSymbol(sym)), nil
}

// VerifySymbol opens path#symbol and runs the fail-fast check
// against the contracts. A nil checker uses the package-level
// default.
func VerifySymbol(
	checker *verify.Checker,
	path, symbol string,
	contracts ...contract.Contract,
) error {
	if checker == nil {
		checker = verify.Default
	}
	subject, err := NewAdapter().Open(path, symbol)
	if err != nil {
		return err
	}
	return checker.EnsureSubject(subject, contracts...)
}

// unwrapSymbol removes the pointer indirection plugin.Lookup
// adds to exported variables when it would hide the value from
// member resolution. A pointed-to map exposes no entries
// through the pointer; other pointers keep their full method
// set and are left alone.
func unwrapSymbol(sym plugin.Symbol) any {
	v := reflect.ValueOf(sym)
	if v.Kind() == reflect.Pointer && !v.IsNil() &&
		v.Elem().Kind() == reflect.Map {
		return v.Elem().Interface()
	}
	return sym
}
