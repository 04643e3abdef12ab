package job

import "testing"

func TestSearchMatchesAcrossFields(t *testing.T) {
	store := NewMemoryStore(Seed())

	cases := []struct {
		term string
		want []int
	}{
		{"", []int{1, 2, 3, 4, 5}},
		{"rust", []int{2, 4}},
		{"POLKADEX", []int{3}},
		{"web3", []int{3}},
		{"mainnet", []int{1}},
		{"nothing-like-this", nil},
	}

	for _, tc := range cases {
		got := store.Search(tc.term)
		if len(got) != len(tc.want) {
			t.Fatalf("Search(%q) returned %d jobs, want %d", tc.term, len(got), len(tc.want))
		}
		for i, job := range got {
			if job.ID != tc.want[i] {
				t.Fatalf("Search(%q)[%d] = %d, want %d", tc.term, i, job.ID, tc.want[i])
			}
		}
	}
}

func TestAddAssignsNextID(t *testing.T) {
	store := NewMemoryStore(Seed())

	added := store.Add(Job{Title: "Indexer Engineer", Company: "SubQuery", Skills: []string{"Go"}})
	if added.ID != 6 {
		t.Fatalf("expected id 6, got %d", added.ID)
	}
	if _, ok := store.FindByID(6); !ok {
		t.Fatal("added job not found")
	}
}

func TestIncrementApplicants(t *testing.T) {
	store := NewMemoryStore(Seed())

	job, ok := store.IncrementApplicants(4)
	if !ok {
		t.Fatal("expected job 4")
	}
	if job.Applicants != 6 {
		t.Fatalf("expected 6 applicants, got %d", job.Applicants)
	}
	if _, ok := store.IncrementApplicants(99); ok {
		t.Fatal("expected miss for unknown job")
	}
}
