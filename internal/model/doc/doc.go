package doc

import "strings"

// AllCategories selects every category.
const AllCategories = "All"

// Doc is a documentation link in the explorer.
type Doc struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Comments    int    `json:"comments"`
}

// Matches reports whether the doc belongs to category and contains term,
// case-insensitively, in its title or description. An empty category or
// AllCategories matches every category; an empty term matches every doc.
func (d Doc) Matches(category, term string) bool {
	if category != "" && category != AllCategories && d.Category != category {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	return strings.Contains(strings.ToLower(d.Title), term) ||
		strings.Contains(strings.ToLower(d.Description), term)
}

// Tutorial is a guided walkthrough listed next to the docs.
type Tutorial struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    string `json:"duration"`
	URL         string `json:"url"`
}

// Categories lists the explorer filters in display order, AllCategories first.
func Categories() []string {
	return []string{AllCategories, "Getting Started", "Development", "Parachains", "Advanced", "Security", "Governance"}
}

// Seed provides the documentation catalog.
func Seed() []Doc {
	return []Doc{
		{
			ID:          1,
			Title:       "Introduction to Polkadot",
			Description: "Learn about Polkadot's architecture and core concepts",
			Category:    "Getting Started",
			URL:         "https://wiki.polkadot.network/docs/learn-introduction",
			Stars:       245,
			Comments:    32,
		},
		{
			ID:          2,
			Title:       "Cross-Consensus Message Format (XCM)",
			Description: "Understanding the cross-chain messaging protocol",
			Category:    "Advanced",
			URL:         "https://wiki.polkadot.network/docs/learn-xcm",
			Stars:       189,
			Comments:    27,
		},
		{
			ID:          3,
			Title:       "Substrate Development",
			Description: "Build blockchain applications with Substrate framework",
			Category:    "Development",
			URL:         "https://docs.substrate.io/",
			Stars:       412,
			Comments:    56,
		},
		{
			ID:          4,
			Title:       "Asset Hub (formerly Statemint)",
			Description: "Learn about Polkadot's native asset parachain",
			Category:    "Parachains",
			URL:         "https://wiki.polkadot.network/docs/learn-assets",
			Stars:       156,
			Comments:    18,
		},
		{
			ID:          5,
			Title:       "EVM Compatibility",
			Description: "How to use Ethereum Virtual Machine on Polkadot",
			Category:    "Development",
			URL:         "https://wiki.polkadot.network/docs/build-evm",
			Stars:       278,
			Comments:    41,
		},
		{
			ID:          6,
			Title:       "Polkadot JS API",
			Description: "JavaScript library for interacting with Polkadot",
			Category:    "Development",
			URL:         "https://polkadot.js.org/docs/",
			Stars:       324,
			Comments:    47,
		},
	}
}

// SeedTutorials provides the tutorial list.
func SeedTutorials() []Tutorial {
	return []Tutorial{
		{ID: 1, Title: "Building Your First Substrate Chain", Description: "Step-by-step guide to creating a custom blockchain", Difficulty: "Beginner", Duration: "2 hours", URL: "#"},
		{ID: 2, Title: "Implementing XCM Transfers", Description: "Learn how to transfer assets between parachains", Difficulty: "Advanced", Duration: "3 hours", URL: "#"},
		{ID: 3, Title: "NFT Minting on Asset Hub", Description: "Create and manage NFTs on Polkadot's Asset Hub", Difficulty: "Intermediate", Duration: "1.5 hours", URL: "#"},
	}
}
