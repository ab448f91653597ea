package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/relation-engine/internal/config"
	"github.com/yungbote/relation-engine/internal/data/repos"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/platform/udparser"
	"github.com/yungbote/relation-engine/internal/realtime"
	"github.com/yungbote/relation-engine/internal/realtime/bus"
)

type ProcessDocumentDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Sections repos.DocumentSectionRepo
	Mentions repos.ConceptMentionRepo
	Bundles  repos.EvidenceBundleRepo

	// Parser is optional: sections that already carry an annotation never
	// touch it, and a nil parser just skips unannotated sections.
	Parser udparser.Client
	Bus    bus.Bus
	Cfg    config.Extraction
}

type ProcessDocumentInput struct {
	DocumentID      uuid.UUID
	DocumentVersion int
}

type ProcessDocumentOutput struct {
	DocumentID      uuid.UUID `json:"document_id"`
	DocumentVersion int       `json:"document_version"`

	Sections        int `json:"sections"`
	SectionsSkipped int `json:"sections_skipped"`
	Pairs           int `json:"pairs"`
	Abstains        int `json:"abstains"`
	Candidates      int `json:"candidates"`
	Rejected        int `json:"rejected"`
}

// ProcessDocument runs candidate generation and validation for every
// section of one document version. Sections are independent and fan out
// across a bounded worker group; each section's dependency parse is built
// exactly once and shared read-only by all of its pairs. A section whose
// parse fails is logged and skipped, the rest proceed. Bundle writes are
// idempotent against the store's pair-identity uniqueness, so a crashed
// run is safe to retry wholesale.
func ProcessDocument(ctx context.Context, deps ProcessDocumentDeps, in ProcessDocumentInput) (ProcessDocumentOutput, error) {
	out := ProcessDocumentOutput{DocumentID: in.DocumentID, DocumentVersion: in.DocumentVersion}
	if deps.DB == nil || deps.Log == nil || deps.Sections == nil || deps.Mentions == nil || deps.Bundles == nil {
		return out, fmt.Errorf("process_document: missing deps")
	}
	if in.DocumentID == uuid.Nil {
		return out, fmt.Errorf("process_document: missing document_id")
	}
	if in.DocumentVersion < 1 {
		in.DocumentVersion = 1
		out.DocumentVersion = 1
	}
	log := deps.Log.With("document_id", in.DocumentID, "document_version", in.DocumentVersion)

	sections, err := deps.Sections.GetByDocumentVersion(ctx, nil, in.DocumentID, in.DocumentVersion)
	if err != nil {
		return out, err
	}
	out.Sections = len(sections)
	if len(sections) == 0 {
		return out, nil
	}

	sectionIDs := make([]uuid.UUID, 0, len(sections))
	for _, s := range sections {
		sectionIDs = append(sectionIDs, s.ID)
	}
	mentions, err := deps.Mentions.GetBySections(ctx, nil, sectionIDs)
	if err != nil {
		return out, err
	}
	mentionsBySection := map[uuid.UUID][]*types.ConceptMention{}
	for _, m := range mentions {
		mentionsBySection[m.SectionID] = append(mentionsBySection[m.SectionID], m)
	}

	// Pairs that already produced a bundle for this document version are
	// skipped up front, which is what makes reprocessing idempotent.
	existing, err := deps.Bundles.GetByDocumentVersion(ctx, nil, in.DocumentID, in.DocumentVersion)
	if err != nil {
		return out, err
	}
	seen := map[PairKey]bool{}
	for _, b := range existing {
		seen[PairKey{
			SubjectConceptID: b.SubjectConceptID,
			ObjectConceptID:  b.ObjectConceptID,
			SectionID:        b.SectionID,
		}] = true
	}

	rules := RulesByName(deps.Cfg.Rules)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deps.Cfg.Concurrency.SectionWorkers)

	for _, section := range sections {
		section := section
		g.Go(func() error {
			parse, perr := resolveParse(gctx, deps, section)
			if perr != nil {
				log.Warn("section parse failed; skipping section",
					"section_id", section.ID, "error", perr)
				mu.Lock()
				out.SectionsSkipped++
				mu.Unlock()
				return nil
			}

			res, serr := ProcessSection(section, parse, mentionsBySection[section.ID], seen, rules, deps.Cfg)
			if serr != nil {
				return serr
			}

			for _, b := range res.Bundles {
				fragments := res.Fragments[b.ID]
				b.Fragments = nil
				if _, werr := deps.Bundles.CreateWithFragments(gctx, nil, b, fragments); werr != nil {
					return fmt.Errorf("persist bundle %s: %w", b.ID, werr)
				}
			}

			mu.Lock()
			out.Pairs += res.Pairs
			out.Abstains += res.PredicateAbstains
			for _, b := range res.Bundles {
				if b.Status == types.StatusRejected {
					out.Rejected++
				} else {
					out.Candidates++
				}
			}
			mu.Unlock()

			publish(gctx, deps.Bus, realtime.Event{
				Stage:           realtime.StageSectionDone,
				DocumentID:      in.DocumentID,
				DocumentVersion: in.DocumentVersion,
				SectionID:       section.ID,
				Bundles:         len(res.Bundles),
				Abstains:        res.LocatorAbstains + res.PredicateAbstains,
				At:              time.Now().UTC(),
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	log.Info("document processed",
		"sections", out.Sections,
		"sections_skipped", out.SectionsSkipped,
		"pairs", out.Pairs,
		"abstains", out.Abstains,
		"candidates", out.Candidates,
		"rejected", out.Rejected,
	)
	publish(ctx, deps.Bus, realtime.Event{
		Stage:           realtime.StageDocumentDone,
		DocumentID:      in.DocumentID,
		DocumentVersion: in.DocumentVersion,
		Bundles:         out.Candidates + out.Rejected,
		Abstains:        out.Abstains,
		At:              time.Now().UTC(),
	})
	return out, nil
}

// resolveParse returns the section's dependency structure, calling the
// parser sidecar for sections that arrived without an annotation and
// persisting the result so the next run skips the round-trip.
func resolveParse(ctx context.Context, deps ProcessDocumentDeps, section *types.DocumentSection) (*nlp.SectionParse, error) {
	if strings.TrimSpace(section.Text) == "" {
		return nil, fmt.Errorf("empty section text")
	}
	annotation := section.CoNLLU
	if strings.TrimSpace(annotation) == "" {
		if deps.Parser == nil {
			return nil, fmt.Errorf("section has no annotation and no parser is configured")
		}
		parsed, err := deps.Parser.Parse(ctx, section.Text, section.Language)
		if err != nil {
			return nil, err
		}
		annotation = parsed
		if err := deps.Sections.UpdateAnnotation(ctx, nil, section.ID, parsed); err != nil {
			deps.Log.Warn("failed to store section annotation (continuing)",
				"section_id", section.ID, "error", err)
		}
		publish(ctx, deps.Bus, realtime.Event{
			Stage:           realtime.StageParseReady,
			DocumentID:      section.DocumentID,
			DocumentVersion: section.DocumentVersion,
			SectionID:       section.ID,
			At:              time.Now().UTC(),
		})
	}
	return nlp.Decode(section.Text, annotation)
}

func publish(ctx context.Context, b bus.Bus, evt realtime.Event) {
	if b == nil {
		return
	}
	_ = b.Publish(ctx, evt)
}
