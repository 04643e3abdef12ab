package wallet

import "context"

// Provider stands in for the browser wallet extension.
type Provider interface {
	// Accounts lists the addresses the extension exposes. It returns
	// ErrExtensionNotFound when no extension is present.
	Accounts(ctx context.Context) ([]Account, error)
}

// StaticProvider serves a fixed account list.
type StaticProvider struct {
	installed bool
	accounts  []Account
}

// NewStaticProvider returns a provider exposing accounts. When installed is
// false it behaves like a browser without the extension.
func NewStaticProvider(installed bool, accounts []Account) *StaticProvider {
	return &StaticProvider{installed: installed, accounts: append([]Account(nil), accounts...)}
}

func (p *StaticProvider) Accounts(ctx context.Context) ([]Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.installed {
		return nil, ErrExtensionNotFound
	}
	return append([]Account(nil), p.accounts...), nil
}
