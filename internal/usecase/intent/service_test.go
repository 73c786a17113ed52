package intent

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	domintent "github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/patterns"
)

type stubRecognizer struct {
	entities []domain.Entity
	err      error
}

func (s *stubRecognizer) Recognize(_ context.Context, _ string) ([]domain.Entity, error) {
	return s.entities, s.err
}

func newTestService(rec Recognizer) *Service {
	if rec == nil {
		rec = &stubRecognizer{}
	}
	return New(patterns.NewHandle(patterns.Default()), rec, zap.NewNop())
}

func TestExtract_FullQuery(t *testing.T) {
	rec := &stubRecognizer{entities: []domain.Entity{
		{Text: "germany", Label: domain.LabelGeopolitical},
	}}
	svc := newTestService(rec)

	it := svc.Extract(context.Background(), "used centrifugal pump 2000 m3/hr under 50k in Germany")

	if it.Category() != "pumps" {
		t.Errorf("expected category pumps, got %q", it.Category())
	}
	specs := it.Specifications()
	if len(specs) != 1 {
		t.Fatalf("expected 1 spec, got %v", specs)
	}
	if specs[0].Type != domintent.SpecFlow || specs[0].Value != 2000 || specs[0].Unit != "m3/hr" {
		t.Errorf("unexpected spec: %+v", specs[0])
	}
	if got := it.Conditions(); len(got) != 1 || got[0] != "used" {
		t.Errorf("unexpected conditions: %v", got)
	}
	if got := it.Locations(); len(got) != 1 || got[0] != "germany" {
		t.Errorf("unexpected locations: %v", got)
	}
	if it.PriceCeiling() == nil || *it.PriceCeiling() != 50000 {
		t.Errorf("unexpected price ceiling: %v", it.PriceCeiling())
	}
	if it.AvailabilityRequired() {
		t.Error("availability should not be required")
	}
}

func TestExtract_PriceSuffixes(t *testing.T) {
	svc := newTestService(nil)
	cases := []struct {
		query string
		want  float64
	}{
		{"pumps under 50k", 50000},
		{"compressors under 2m", 2000000},
		{"valves under 500", 500},
		{"turbine for $1.5m", 1500000},
		{"boiler 300 euros", 300},
	}
	for _, tc := range cases {
		it := svc.Extract(context.Background(), tc.query)
		if it.PriceCeiling() == nil {
			t.Errorf("%q: expected a price ceiling", tc.query)
			continue
		}
		if *it.PriceCeiling() != tc.want {
			t.Errorf("%q: expected %v, got %v", tc.query, tc.want, *it.PriceCeiling())
		}
	}
}

func TestExtract_NoPriceSignal(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "centrifugal pumps 2000 m3/hr")
	if it.PriceCeiling() != nil {
		t.Errorf("expected no price ceiling, got %v", *it.PriceCeiling())
	}
}

func TestExtract_CategorySingularPluralIdempotent(t *testing.T) {
	svc := newTestService(nil)
	singular := svc.Extract(context.Background(), "industrial pump")
	plural := svc.Extract(context.Background(), "industrial pumps")
	if singular.Category() != plural.Category() || singular.Category() != "pumps" {
		t.Errorf("expected identical normalized category, got %q and %q",
			singular.Category(), plural.Category())
	}
}

func TestExtract_CategoryMultiWord(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "titanium heat exchanger with immediate availability")
	if it.Category() != "heat_exchangers" {
		t.Errorf("expected heat_exchangers, got %q", it.Category())
	}
	if !it.AvailabilityRequired() {
		t.Error("expected availability required")
	}
}

func TestExtract_CategoryLongSynonym(t *testing.T) {
	cfg := patterns.DefaultConfig()
	cfg.Categories["reverse osmosis treatment unit"] = "water_treatment"
	tables, err := cfg.Compile()
	if err != nil {
		t.Fatalf("compile tables: %v", err)
	}
	svc := New(patterns.NewHandle(tables), &stubRecognizer{}, zap.NewNop())

	it := svc.Extract(context.Background(), "used reverse osmosis treatment unit for sale")
	if it.Category() != "water_treatment" {
		t.Errorf("four-word synonyms must match, got %q", it.Category())
	}
}

func TestExtract_CategoryEarliestStartWins(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "valve for a pump skid")
	if it.Category() != "valves" {
		t.Errorf("expected earliest match valves, got %q", it.Category())
	}
}

func TestExtract_MultipleSpecsSameType(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "pumps rated 2000 m3/hr or 500 gpm")

	specs := it.Specifications()
	if len(specs) != 2 {
		t.Fatalf("expected 2 flow specs, got %v", specs)
	}
	if specs[0].Value != 2000 || specs[1].Value != 500 {
		t.Errorf("expected matches in order of appearance, got %v", specs)
	}
	for _, sp := range specs {
		if sp.Type != domintent.SpecFlow {
			t.Errorf("unexpected spec type: %v", sp.Type)
		}
	}
}

func TestExtract_MixedSpecTypes(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "pump 2000 m3/hr at 10 bar with 55 kw motor")

	types := it.SpecTypeSet()
	want := []domintent.SpecType{domintent.SpecFlow, domintent.SpecPressure, domintent.SpecPower}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("expected %v, got %v", want, types)
	}
}

func TestExtract_ConditionsInVocabularyOrder(t *testing.T) {
	svc := newTestService(nil)
	it := svc.Extract(context.Background(), "refurbished or new compressors")
	want := []string{"new", "refurbished"}
	if !reflect.DeepEqual(it.Conditions(), want) {
		t.Errorf("expected %v, got %v", want, it.Conditions())
	}
}

func TestExtract_AvailabilityKeywords(t *testing.T) {
	svc := newTestService(nil)
	for _, q := range []string{"pumps in stock", "available turbines", "boiler ready to ship"} {
		if !svc.Extract(context.Background(), q).AvailabilityRequired() {
			t.Errorf("%q: expected availability required", q)
		}
	}
}

func TestExtract_RecognizerFailureDegrades(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("recognizer down")}
	svc := newTestService(rec)

	it := svc.Extract(context.Background(), "pumps in Germany")
	if len(it.Locations()) != 0 {
		t.Errorf("expected no locations on recognizer failure, got %v", it.Locations())
	}
	if it.Category() != "pumps" {
		t.Errorf("other signals must survive, got category %q", it.Category())
	}
}

func TestExtract_EmptyQuery(t *testing.T) {
	svc := newTestService(nil)
	if it := svc.Extract(context.Background(), ""); !it.IsEmpty() {
		t.Errorf("expected empty intent, got %+v", it)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	svc := newTestService(&stubRecognizer{entities: []domain.Entity{
		{Text: "hamburg", Label: domain.LabelLocation},
	}})
	q := "used pump 2000 m3/hr under 50k in hamburg"

	a := svc.Extract(context.Background(), q)
	b := svc.Extract(context.Background(), q)
	if !reflect.DeepEqual(a, b) {
		t.Error("extraction must be deterministic for fixed input and tables")
	}
}
