// Package insight compares tenant hits against marketplace suggestions and
// renders human-readable comparative statements.
package insight

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search/result"
	"github.com/surplusgrid/equisearch/internal/metrics"
)

// msgNoInventory is attached when the tenant's own inventory had no matches
// at all and the suggestions carry the whole response.
const msgNoInventory = "No matching equipment found in your inventory. " +
	"Here are some marketplace alternatives that match your requirements."

// Service generates insights for merged search responses. Thresholds are
// percentages; a deviation at or below the threshold is noise, not an insight.
type Service struct {
	rates             RateProvider
	specThresholdPct  float64
	priceThresholdPct float64
}

// New creates an insight service.
func New(rates RateProvider, specThresholdPct, priceThresholdPct float64) *Service {
	return &Service{
		rates:             rates,
		specThresholdPct:  specThresholdPct,
		priceThresholdPct: priceThresholdPct,
	}
}

// Generate compares the two hit sets in the light of the requested intent.
// Deviations are always relative to the tenant side, so "higher" means the
// marketplace mean exceeds the tenant mean. Output order is fixed: the
// no-inventory note, the missing-specification note, then parameter insights
// in parameter name order, then the price insight.
func (s *Service) Generate(tenantHits, marketplaceHits []result.Result, it intent.Intent) []string {
	if len(marketplaceHits) == 0 {
		return nil
	}

	var insights []string
	if len(tenantHits) == 0 {
		metrics.InsightsGeneratedTotal.WithLabelValues("no_inventory").Inc()
		insights = append(insights, msgNoInventory)
	}
	if msg, ok := missingSpecs(tenantHits, it); ok {
		metrics.InsightsGeneratedTotal.WithLabelValues("missing_spec").Inc()
		insights = append(insights, msg)
	}
	if len(tenantHits) == 0 {
		return insights
	}

	insights = append(insights, s.compareSpecs(tenantHits, marketplaceHits)...)
	if msg, ok := s.comparePrices(tenantHits, marketplaceHits); ok {
		insights = append(insights, msg)
	}
	return insights
}

// missingSpecs names the requested spec types absent from every tenant hit.
// Types keep their order of first appearance in the query.
func missingSpecs(tenantHits []result.Result, it intent.Intent) (string, bool) {
	var missing []string
	for _, st := range it.SpecTypeSet() {
		covered := false
		for i := range tenantHits {
			doc := tenantHits[i].Document()
			if doc.HasParameter(string(st)) {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, string(st))
		}
	}
	if len(missing) == 0 {
		return "", false
	}
	return fmt.Sprintf("Your inventory lacks equipment with specified %s. "+
		"Showing marketplace items that match these specifications.",
		strings.Join(missing, ", ")), true
}

// compareSpecs emits one insight per parameter whose marketplace mean deviates
// beyond the threshold. Only parameters present on both sides are comparable.
func (s *Service) compareSpecs(tenantHits, marketplaceHits []result.Result) []string {
	tenantVals := specValues(tenantHits)
	marketVals := specValues(marketplaceHits)

	params := make([]string, 0, len(tenantVals))
	for p := range tenantVals {
		if _, ok := marketVals[p]; ok {
			params = append(params, p)
		}
	}
	sort.Strings(params)

	var insights []string
	for _, p := range params {
		tenantMean := mean(tenantVals[p])
		if tenantMean == 0 {
			continue
		}
		pct := (mean(marketVals[p]) - tenantMean) / tenantMean * 100
		if pct > s.specThresholdPct {
			insights = append(insights, fmt.Sprintf(
				"Marketplace alternatives offer %.0f%% higher %s on average.", pct, p))
			metrics.InsightsGeneratedTotal.WithLabelValues("spec_deviation").Inc()
		} else if pct < -s.specThresholdPct {
			insights = append(insights, fmt.Sprintf(
				"Marketplace alternatives offer %.0f%% lower %s on average.", -pct, p))
			metrics.InsightsGeneratedTotal.WithLabelValues("spec_deviation").Inc()
		}
	}
	return insights
}

// comparePrices emits a single insight when the base-currency price means
// deviate beyond the threshold. Unpriced documents are left out of the means.
func (s *Service) comparePrices(tenantHits, marketplaceHits []result.Result) (string, bool) {
	tenantPrices := s.basePrices(tenantHits)
	marketPrices := s.basePrices(marketplaceHits)
	if len(tenantPrices) == 0 || len(marketPrices) == 0 {
		return "", false
	}

	tenantMean := mean(tenantPrices)
	if tenantMean == 0 {
		return "", false
	}
	pct := (mean(marketPrices) - tenantMean) / tenantMean * 100

	switch {
	case pct > s.priceThresholdPct:
		metrics.InsightsGeneratedTotal.WithLabelValues("price_deviation").Inc()
		return fmt.Sprintf("Marketplace alternatives are %.0f%% more expensive on average.", pct), true
	case pct < -s.priceThresholdPct:
		metrics.InsightsGeneratedTotal.WithLabelValues("price_deviation").Inc()
		return fmt.Sprintf("Marketplace alternatives are %.0f%% cheaper on average.", -pct), true
	}
	return "", false
}

func (s *Service) basePrices(hits []result.Result) []float64 {
	var prices []float64
	for i := range hits {
		doc := hits[i].Document()
		p := doc.Price()
		if p.Value <= 0 {
			continue
		}
		rate, ok := s.rates.Rate(p.Currency)
		if !ok {
			rate = 1.0
		}
		prices = append(prices, p.Value*rate)
	}
	return prices
}

func specValues(hits []result.Result) map[string][]float64 {
	vals := make(map[string][]float64)
	for i := range hits {
		doc := hits[i].Document()
		for _, sp := range doc.Specifications() {
			vals[sp.Parameter] = append(vals[sp.Parameter], sp.Value)
		}
	}
	return vals
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
