package repository

import "fmt"

// Governance summarises on-chain governance activity of a repository.
type Governance struct {
	Proposals int `json:"proposals"`
	Votes     int `json:"votes"`
}

// Repository is a code repository minted as an NFT on the dashboard.
type Repository struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Language       string     `json:"language"`
	Stars          int        `json:"stars"`
	Forks          int        `json:"forks"`
	Contributors   int        `json:"contributors"`
	NFTID          string     `json:"nftId"`
	IPFSHash       string     `json:"ipfsHash"`
	DOTEarned      float64    `json:"dotEarned"`
	LastCommit     string     `json:"lastCommit"`
	Private        bool       `json:"isPrivate"`
	DeployedChains []string   `json:"deployedChains"`
	AIScore        int        `json:"aiScore"`
	Governance     Governance `json:"governance"`
}

func (r Repository) clone() Repository {
	r.DeployedChains = append([]string(nil), r.DeployedChains...)
	return r
}

// NFTLabel formats the n-th NFT id, e.g. #004.
func NFTLabel(n int) string {
	return fmt.Sprintf("#%03d", n)
}

// Seed provides the demo repositories.
func Seed() []Repository {
	return []Repository{
		{
			ID:             "1",
			Name:           "polka-defi-protocol",
			Description:    "Advanced DeFi protocol with XCM integration and cross-chain yield farming",
			Language:       "Rust",
			Stars:          1247,
			Forks:          89,
			Contributors:   23,
			NFTID:          NFTLabel(1),
			IPFSHash:       "QmXs7LhKnHuRQhgfgkDCNnSUXz8Xy5ZXorn6PcMMCQjTGr",
			DOTEarned:      450.75,
			LastCommit:     "2 hours ago",
			DeployedChains: []string{"Polkadot", "Kusama", "Acala", "Moonbeam"},
			AIScore:        98,
			Governance:     Governance{Proposals: 5, Votes: 234},
		},
		{
			ID:             "2",
			Name:           "xcm-bridge-sdk",
			Description:    "Revolutionary XCM bridge SDK for seamless parachain communication",
			Language:       "TypeScript",
			Stars:          892,
			Forks:          67,
			Contributors:   18,
			NFTID:          NFTLabel(2),
			IPFSHash:       "QmYt8LhKnHuRQhgfgkDCNnSUXz8Xy5ZXorn6PcMMCQjTGr",
			DOTEarned:      325.5,
			LastCommit:     "5 hours ago",
			DeployedChains: []string{"Asset Hub", "Astar", "Parallel"},
			AIScore:        95,
			Governance:     Governance{Proposals: 3, Votes: 156},
		},
		{
			ID:             "3",
			Name:           "substrate-nft-marketplace",
			Description:    "Next-gen NFT marketplace with AI-powered pricing and governance",
			Language:       "Rust",
			Stars:          634,
			Forks:          45,
			Contributors:   12,
			NFTID:          NFTLabel(3),
			IPFSHash:       "QmZt9LhKnHuRQhgfgkDCNnSUXz8Xy5ZXorn6PcMMCQjTGr",
			DOTEarned:      275.25,
			LastCommit:     "1 day ago",
			DeployedChains: []string{"Asset Hub", "Unique"},
			AIScore:        92,
			Governance:     Governance{Proposals: 2, Votes: 89},
		},
	}
}
