package wallet

import (
	"fmt"
	"strings"
)

const (
	// InstallURL is where users without a wallet extension are sent.
	InstallURL = "https://talisman.xyz/"

	// PolkadotChainID is the genesis hash of the Polkadot relay chain.
	PolkadotChainID = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
	NetworkName     = "Polkadot"
	TokenSymbol     = "DOT"

	DemoAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	DemoName    = "Demo Account"
	DemoBalance = "125.42"
)

// Source says where a balance figure came from.
type Source string

const (
	SourceChain       Source = "chain"
	SourcePlaceholder Source = "placeholder"
	SourceDemo        Source = "demo"
)

// Account is an address offered by the wallet extension.
type Account struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Balance is a formatted free balance.
type Balance struct {
	Free        string `json:"free"`
	Symbol      string `json:"symbol"`
	BlockNumber string `json:"blockNumber"`
	Source      Source `json:"source"`
}

// Network identifies the chain the wallet is connected to.
type Network struct {
	Name    string `json:"name"`
	ChainID string `json:"chainId"`
}

// Connection is the state of a connected wallet.
type Connection struct {
	Account Account `json:"account"`
	Balance Balance `json:"balance"`
	Network Network `json:"network"`
}

func polkadot() Network {
	return Network{Name: NetworkName, ChainID: PolkadotChainID}
}

// ParseAccounts reads a comma separated list of name=address pairs. A bare
// address is accepted and gets no name.
func ParseAccounts(raw string) ([]Account, error) {
	var accounts []Account
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, address, ok := strings.Cut(part, "=")
		if !ok {
			address, name = name, ""
		}
		address = strings.TrimSpace(address)
		if address == "" {
			return nil, fmt.Errorf("account %q: address is empty", part)
		}
		accounts = append(accounts, Account{
			Address: address,
			Name:    strings.TrimSpace(name),
			Source:  "polkaforge",
		})
	}
	return accounts, nil
}
