package steps

import (
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// Rule is one structural rejection check. Evaluate returns nil when the
// predicate survives the rule, otherwise the rejection reason. Rules see
// only part-of-speech tags, dependency relations and morphology, never
// word lists, so the chain transfers across languages unmodified.
type Rule interface {
	Name() string
	Evaluate(pc PredicateContext) *types.RejectionReason
}

// DefaultRules returns the rule chain in its evaluation order. Order is
// explicit and short-circuits on first match.
func DefaultRules() []Rule {
	return []Rule{
		AuxiliaryRule{},
		CopulaRule{},
		ModalRule{},
		ProximityRule{},
	}
}

// RulesByName resolves configured rule names to rule instances; unknown
// names are skipped so config typos degrade loudly in logs, not panics.
func RulesByName(names []string) []Rule {
	all := map[string]Rule{}
	for _, r := range DefaultRules() {
		all[r.Name()] = r
	}
	var out []Rule
	for _, n := range names {
		if r, ok := all[n]; ok {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return DefaultRules()
	}
	return out
}

// Validate runs the chain and returns the first rejection, or nil when
// the predicate passes every rule.
func Validate(rules []Rule, pc PredicateContext) *types.RejectionReason {
	for _, r := range rules {
		if reason := r.Evaluate(pc); reason != nil {
			return reason
		}
	}
	return nil
}

func reason(r types.RejectionReason) *types.RejectionReason { return &r }

// AuxiliaryRule rejects predicates that are bare auxiliaries: AUX-class
// tokens not serving as a copula (those fall to CopulaRule, which owns
// the more specific reason).
type AuxiliaryRule struct{}

func (AuxiliaryRule) Name() string { return "auxiliary" }

func (AuxiliaryRule) Evaluate(pc PredicateContext) *types.RejectionReason {
	pred := pc.Predicate()
	if pred == nil {
		return nil
	}
	if pred.UPOS == "AUX" && pred.BaseDeprel() != "cop" && !modalMood(pred) {
		return reason(types.ReasonAuxiliary)
	}
	return nil
}

// CopulaRule rejects copular/attributive constructions: the predicate
// carries a copular deprel, governs an attributive or predicative
// complement, or is a root verb with a direct object and no prepositional
// or particle complement (a structurally weak transitive).
type CopulaRule struct{}

func (CopulaRule) Name() string { return "copula" }

func (CopulaRule) Evaluate(pc PredicateContext) *types.RejectionReason {
	pred := pc.Predicate()
	if pred == nil {
		return nil
	}
	if pred.BaseDeprel() == "cop" {
		return reason(types.ReasonCopula)
	}

	hasObj := false
	hasComplement := false
	for _, ci := range pc.Parse.Children(pc.PredIndex) {
		child := pc.Parse.TokenByIndex(ci)
		if child == nil {
			continue
		}
		switch child.BaseDeprel() {
		case "cop", "attr", "acomp":
			return reason(types.ReasonCopula)
		case "obj":
			hasObj = true
		case "obl", "compound", "prt", "case":
			hasComplement = true
		}
	}
	if pred.UPOS == "VERB" && pred.IsRoot() && hasObj && !hasComplement {
		return reason(types.ReasonCopula)
	}
	return nil
}

// ModalRule rejects capability/intent framing: an auxiliary predicate
// under conditional or subjunctive mood, a predicate governing an
// infinitival complement clause, or an infinitive predicate propped up by
// an auxiliary ("can integrate", "designed to connect").
type ModalRule struct{}

func (ModalRule) Name() string { return "modal_or_intentional" }

func (ModalRule) Evaluate(pc PredicateContext) *types.RejectionReason {
	pred := pc.Predicate()
	if pred == nil {
		return nil
	}
	if pred.UPOS == "AUX" && modalMood(pred) {
		return reason(types.ReasonModalOrIntentional)
	}

	infinitive := pred.Feat("VerbForm") == "Inf"
	for _, ci := range pc.Parse.Children(pc.PredIndex) {
		child := pc.Parse.TokenByIndex(ci)
		if child == nil {
			continue
		}
		switch child.BaseDeprel() {
		case "xcomp", "advcl":
			if child.UPOS == "VERB" && child.Feat("VerbForm") == "Inf" {
				return reason(types.ReasonModalOrIntentional)
			}
		case "aux":
			if infinitive {
				return reason(types.ReasonModalOrIntentional)
			}
		}
	}
	return nil
}

// modalMood reports conditional/subjunctive mood morphology, the marker
// for modality carried on the auxiliary itself (e.g. "pourrait").
func modalMood(t *nlp.Token) bool {
	switch t.Feat("Mood") {
	case "Cnd", "Sub", "Pot":
		return true
	}
	return false
}

// ProximityRule verifies subject and object share one section. Always
// true today because pairs are formed per section; kept so a future
// cross-section extension reuses the same validator contract.
type ProximityRule struct{}

func (ProximityRule) Name() string { return "proximity" }

func (ProximityRule) Evaluate(pc PredicateContext) *types.RejectionReason {
	if pc.SubjectSectionID != pc.ObjectSectionID {
		return reason(types.ReasonProximity)
	}
	return nil
}
