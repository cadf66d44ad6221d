package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/shapefit/internal/engine"
	"github.com/piwi3910/shapefit/internal/model"
)

func buildCardsTestResults() []engine.PatternResult {
	world := model.MustParseGrid("##.#\n#..#\n...#\n.###")
	patterns := []model.Pattern{
		model.NewPattern("L corner", model.MustParseGrid("##\n#.")),
		model.NewPattern("split", model.MustParseGrid("#.#")),
		model.NewPattern("long bar with a name too wide for the card", model.MustParseGrid("####")),
	}
	return engine.ComparePatterns(patterns, world)
}

func TestExportPatternCards_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.pdf")

	if err := ExportPatternCards(path, buildCardsTestResults()); err != nil {
		t.Fatalf("ExportPatternCards returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPatternCards_MultiplePages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	world := model.MustParseGrid("##\n##")
	var patterns []model.Pattern
	for i := 0; i < cardsPerPage+5; i++ {
		patterns = append(patterns, model.NewPattern("dot", model.MustParseGrid("#")))
	}
	if err := ExportPatternCards(path, engine.ComparePatterns(patterns, world)); err != nil {
		t.Fatalf("ExportPatternCards returned error: %v", err)
	}
}

func TestExportPatternCards_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	if err := ExportPatternCards(path, nil); err == nil {
		t.Fatal("expected error for no patterns, got nil")
	}
}

func TestCollectCardInfos(t *testing.T) {
	cards := CollectCardInfos(buildCardsTestResults())

	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}

	if cards[0].Name != "L corner" || !cards[0].WellFormed || !cards[0].Found {
		t.Errorf("unexpected first card: %+v", cards[0])
	}
	if cards[0].Orientation != "Identity" || cards[0].Row != 0 || cards[0].Col != 0 {
		t.Errorf("expected Identity @ (0,0), got %s @ (%d,%d)", cards[0].Orientation, cards[0].Row, cards[0].Col)
	}

	if cards[1].WellFormed || cards[1].Found {
		t.Errorf("split pattern should be ill-formed and unsearched: %+v", cards[1])
	}

	if !cards[2].Found || cards[2].Orientation != "Rot90CW" || cards[2].Col != 3 {
		t.Errorf("expected the bar to fit rotated, got %+v", cards[2])
	}
}

func TestCardInfoJSON(t *testing.T) {
	cards := CollectCardInfos(buildCardsTestResults())

	data, err := json.Marshal(cards[1])
	if err != nil {
		t.Fatalf("failed to marshal card info: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal card info: %v", err)
	}
	for _, key := range []string{"id", "name", "rows", "cols", "well_formed", "found", "tested"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in card JSON", key)
		}
	}
	if _, ok := decoded["orientation"]; ok {
		t.Error("orientation should be omitted for a card with no placement")
	}
}
