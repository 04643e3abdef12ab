package job

import "strings"

// Job is a listing on the job board. Rewards are denominated in DOT.
type Job struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Reward      int      `json:"reward"`
	Deadline    string   `json:"deadline"`
	Skills      []string `json:"skills"`
	Applicants  int      `json:"applicants"`
}

// Matches reports whether term occurs, case-insensitively, in the title, company,
// description or any skill. An empty term matches everything.
func (j Job) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(j.Title), term) ||
		strings.Contains(strings.ToLower(j.Company), term) ||
		strings.Contains(strings.ToLower(j.Description), term) {
		return true
	}
	for _, skill := range j.Skills {
		if strings.Contains(strings.ToLower(skill), term) {
			return true
		}
	}
	return false
}

func (j Job) clone() Job {
	j.Skills = append([]string(nil), j.Skills...)
	return j
}

// Seed provides the demo listings.
func Seed() []Job {
	return []Job{
		{
			ID:          1,
			Title:       "Smart Contract Auditor",
			Company:     "DeFi Protocol",
			Description: "We're looking for an experienced smart contract auditor to review our DeFi protocol before mainnet launch. Must have experience with Solidity and security best practices.",
			Location:    "Remote",
			Type:        "Contract",
			Reward:      500,
			Deadline:    "2 weeks",
			Skills:      []string{"Solidity", "Security", "DeFi"},
			Applicants:  12,
		},
		{
			ID:          2,
			Title:       "Substrate Developer",
			Company:     "ParaChain Labs",
			Description: "Join our team to build custom pallets for our Substrate-based parachain. Experience with Rust and Substrate framework required.",
			Location:    "Remote",
			Type:        "Full-time",
			Reward:      750,
			Deadline:    "1 month",
			Skills:      []string{"Rust", "Substrate", "Blockchain"},
			Applicants:  8,
		},
		{
			ID:          3,
			Title:       "Frontend Developer",
			Company:     "PolkaDEX",
			Description: "Build modern, responsive UI for our decentralized exchange. Experience with React, TypeScript and Web3 libraries needed.",
			Location:    "Remote",
			Type:        "Part-time",
			Reward:      300,
			Deadline:    "3 weeks",
			Skills:      []string{"React", "TypeScript", "Web3.js"},
			Applicants:  24,
		},
		{
			ID:          4,
			Title:       "XCM Integration Specialist",
			Company:     "Bridge Protocol",
			Description: "Help us implement cross-chain messaging between Polkadot parachains. Deep understanding of XCM format and XCMP required.",
			Location:    "Remote",
			Type:        "Contract",
			Reward:      1200,
			Deadline:    "1 month",
			Skills:      []string{"XCM", "Polkadot", "Rust"},
			Applicants:  5,
		},
		{
			ID:          5,
			Title:       "Technical Writer",
			Company:     "Polkadot Foundation",
			Description: "Create comprehensive documentation for Polkadot developers. Strong technical writing skills and blockchain knowledge required.",
			Location:    "Remote",
			Type:        "Part-time",
			Reward:      250,
			Deadline:    "Ongoing",
			Skills:      []string{"Technical Writing", "Documentation", "Blockchain"},
			Applicants:  18,
		},
	}
}
