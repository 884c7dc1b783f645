package game

import "testing"

func TestAssignCategoriesComposition(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		for _, starting := range Teams {
			k := AssignCategories(seeded(seed, seed+7), starting)
			got := k.Counts()
			want := map[Category]int{
				starting.Category():         StartingAgents,
				starting.Other().Category(): OtherAgents,
				CategoryBystander:           Bystanders,
				CategoryAssassin:            Assassins,
			}
			if len(got) != len(want) {
				t.Fatalf("seed %d: categories %v", seed, got)
			}
			for c, n := range want {
				if got[c] != n {
					t.Errorf("seed %d starting %s: %s = %d, want %d", seed, starting, c, got[c], n)
				}
			}
		}
	}
}

func TestAssignCategoriesDeterministicPerSeed(t *testing.T) {
	a := AssignCategories(seeded(42, 42), Red)
	b := AssignCategories(seeded(42, 42), Red)
	if a != b {
		t.Error("same seed produced different keycards")
	}
	c := AssignCategories(seeded(43, 42), Red)
	if a == c {
		t.Error("different seeds produced identical keycards")
	}
}
