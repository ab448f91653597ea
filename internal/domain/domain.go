package domain

import (
	"github.com/yungbote/relation-engine/internal/domain/extraction"
)

// Aliases so callers can import a single types package.

type (
	CharSpan        = extraction.CharSpan
	DocumentSection = extraction.DocumentSection
	ConceptMention  = extraction.ConceptMention

	EvidenceFragment = extraction.EvidenceFragment
	EvidenceBundle   = extraction.EvidenceBundle
	RejectionReason  = extraction.RejectionReason

	SemanticRelation   = extraction.SemanticRelation
	RelationProvenance = extraction.RelationProvenance
)

const (
	FragmentEntityMention    = extraction.FragmentEntityMention
	FragmentPredicateLexical = extraction.FragmentPredicateLexical
	FragmentPredicateVisual  = extraction.FragmentPredicateVisual
	FragmentCoreferenceLink  = extraction.FragmentCoreferenceLink

	RoleSubject   = extraction.RoleSubject
	RoleObject    = extraction.RoleObject
	RolePredicate = extraction.RolePredicate
	RoleLink      = extraction.RoleLink

	StatusCandidate = extraction.StatusCandidate
	StatusPromoted  = extraction.StatusPromoted
	StatusRejected  = extraction.StatusRejected

	ReasonAuxiliary          = extraction.ReasonAuxiliary
	ReasonCopula             = extraction.ReasonCopula
	ReasonModalOrIntentional = extraction.ReasonModalOrIntentional
	ReasonProximity          = extraction.ReasonProximity
)
