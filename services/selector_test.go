package services

import (
	"testing"

	"github.com/jshill103/lotto-brain/models"
)

func fullScoreMap() map[int]float64 {
	scores := make(map[int]float64, 90)
	for n := 1; n <= 90; n++ {
		scores[n] = 0
	}
	return scores
}

func TestSelector_FiveDistinctInRange(t *testing.T) {
	scores := fullScoreMap()
	for n := 1; n <= 90; n++ {
		scores[n] = float64(91 - n)
	}

	selected, conf := (Selector{}).Select(scores)
	if len(selected) != 5 {
		t.Fatalf("expected 5 numbers, got %v", selected)
	}
	seen := make(map[int]bool)
	for _, n := range selected {
		if n < 1 || n > 90 {
			t.Errorf("selected out-of-range number %d", n)
		}
		if seen[n] {
			t.Errorf("selected duplicate %d", n)
		}
		seen[n] = true
	}
	if conf <= 0 || conf > 95 {
		t.Errorf("confidence %f outside (0, 95]", conf)
	}
}

func TestSelector_DecadeBalance(t *testing.T) {
	// top scores all in 81..90; the constraint forces spill into other
	// decades that still hold positive scores.
	scores := fullScoreMap()
	for n := 81; n <= 90; n++ {
		scores[n] = 100 + float64(n)
	}
	for n := 1; n <= 40; n++ {
		scores[n] = float64(n) / 100
	}

	selected, _ := (Selector{}).Select(scores)
	if len(selected) != 5 {
		t.Fatalf("expected 5 numbers, got %v", selected)
	}
	perDecade := make(map[int]int)
	for _, n := range selected {
		perDecade[models.SelectorDecade(n)]++
	}
	for d, c := range perDecade {
		if c > 2 {
			t.Errorf("decade %d holds %d selected numbers, want at most 2", d, c)
		}
	}
}

func TestSelector_SecondPassFillsWhenDecadesExhausted(t *testing.T) {
	// only one decade carries scores: the first pass caps at 2, the
	// second pass fills the remaining 3 regardless of decade.
	scores := fullScoreMap()
	for n := 11; n <= 20; n++ {
		scores[n] = float64(n)
	}

	selected, _ := (Selector{}).Select(scores)
	if len(selected) != 5 {
		t.Fatalf("expected 5 numbers after the fill pass, got %v", selected)
	}
	for _, n := range selected {
		if n < 11 || n > 20 {
			t.Errorf("selected %d outside the only scored decade", n)
		}
	}
}

func TestSelector_EmptyScores(t *testing.T) {
	selected, conf := (Selector{}).Select(nil)
	if len(selected) != 0 || conf != 0 {
		t.Errorf("expected empty selection and zero confidence, got %v / %f", selected, conf)
	}

	selected, conf = (Selector{}).Select(fullScoreMap())
	if len(selected) != 0 || conf != 0 {
		t.Errorf("expected empty selection on all-zero scores, got %v / %f", selected, conf)
	}
}

func TestSelector_ReturnsAscending(t *testing.T) {
	scores := fullScoreMap()
	scores[70] = 5
	scores[3] = 4
	scores[44] = 3
	scores[12] = 2
	scores[89] = 1

	selected, _ := (Selector{}).Select(scores)
	want := []int{3, 12, 44, 70, 89}
	if len(selected) != 5 {
		t.Fatalf("expected 5 numbers, got %v", selected)
	}
	for i, n := range want {
		if selected[i] != n {
			t.Fatalf("expected ascending %v, got %v", want, selected)
		}
	}
}

func TestSelector_ConfidenceCaps(t *testing.T) {
	scores := fullScoreMap()
	for n := 1; n <= 90; n += 10 {
		scores[n] = 10.0
	}

	if _, conf := (Selector{}).Select(scores); conf != 95 {
		t.Errorf("expected plain confidence capped at 95, got %f", conf)
	}
	if _, conf := (Selector{}).SelectHybrid(scores); conf != 97 {
		t.Errorf("expected hybrid confidence capped at 97, got %f", conf)
	}
}

func TestSelector_ConfidenceFormula(t *testing.T) {
	scores := fullScoreMap()
	scores[10] = 0.2
	scores[21] = 0.2
	scores[33] = 0.2
	scores[47] = 0.2
	scores[59] = 0.2

	_, conf := (Selector{}).Select(scores)
	// avg 0.2 -> 0.2*100 + 40 = 60
	if conf != 60 {
		t.Errorf("expected confidence 60, got %f", conf)
	}

	_, hconf := (Selector{}).SelectHybrid(scores)
	if hconf != 62 {
		t.Errorf("expected hybrid confidence 62, got %f", hconf)
	}
}
