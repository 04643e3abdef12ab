package quickaction

// Action is a canned prompt the front-end offers as a one-click shortcut.
type Action struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// Capability is one of the assistant feature cards shown next to the chat.
type Capability struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Seed provides the default quick actions.
func Seed() []Action {
	return []Action{
		{ID: "debug-code", Label: "Debug Code", Prompt: "Help me debug this smart contract error"},
		{ID: "transfer-dot", Label: "Transfer DOT", Prompt: "Transfer 10 DOT to another address"},
		{ID: "mint-nft", Label: "Mint NFT", Prompt: "Generate an NFT for my latest repository"},
		{ID: "optimize-gas", Label: "Optimize Gas", Prompt: "Optimize my contract for gas efficiency"},
		{ID: "xcm-transfer", Label: "XCM Transfer", Prompt: "How do I transfer assets between parachains?"},
		{ID: "polkadot-docs", Label: "Polkadot Docs", Prompt: "Explain Polkadot's consensus mechanism"},
	}
}

// SeedCapabilities provides the capability cards.
func SeedCapabilities() []Capability {
	return []Capability{
		{ID: "code-analysis", Title: "Code Analysis", Description: "Debug, optimize, and review your code", Icon: "code"},
		{ID: "dot-operations", Title: "DOT Operations", Description: "Secure token transfers and staking", Icon: "coins"},
		{ID: "nft-creation", Title: "NFT Creation", Description: "Generate and manage code NFTs", Icon: "palette"},
		{ID: "polkadot-expert", Title: "Polkadot Expert", Description: "XCM, parachains, and ecosystem guidance", Icon: "message-square"},
	}
}
