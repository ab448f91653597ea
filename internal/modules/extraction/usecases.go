package extraction

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/relation-engine/internal/config"
	"github.com/yungbote/relation-engine/internal/data/repos"
	"github.com/yungbote/relation-engine/internal/modules/extraction/steps"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/platform/neo4jdb"
	"github.com/yungbote/relation-engine/internal/platform/udparser"
	"github.com/yungbote/relation-engine/internal/realtime/bus"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Parser udparser.Client
	Graph  *neo4jdb.Client
	Bus    bus.Bus
	Cfg    config.Extraction

	Sections  repos.DocumentSectionRepo
	Mentions  repos.ConceptMentionRepo
	Bundles   repos.EvidenceBundleRepo
	Relations repos.SemanticRelationRepo
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	ProcessDocumentInput  = steps.ProcessDocumentInput
	ProcessDocumentOutput = steps.ProcessDocumentOutput

	PromoteDocumentInput  = steps.PromoteDocumentInput
	PromoteDocumentOutput = steps.PromoteDocumentOutput
)

func (u Usecases) ProcessDocument(ctx context.Context, in ProcessDocumentInput) (ProcessDocumentOutput, error) {
	return steps.ProcessDocument(ctx, steps.ProcessDocumentDeps{
		DB:       u.deps.DB,
		Log:      u.deps.Log,
		Sections: u.deps.Sections,
		Mentions: u.deps.Mentions,
		Bundles:  u.deps.Bundles,
		Parser:   u.deps.Parser,
		Bus:      u.deps.Bus,
		Cfg:      u.deps.Cfg,
	}, steps.ProcessDocumentInput(in))
}

func (u Usecases) PromoteDocument(ctx context.Context, in PromoteDocumentInput) (PromoteDocumentOutput, error) {
	return steps.PromoteDocument(ctx, steps.PromoteDocumentDeps{
		DB:        u.deps.DB,
		Log:       u.deps.Log,
		Bundles:   u.deps.Bundles,
		Relations: u.deps.Relations,
		Graph:     u.deps.Graph,
		Bus:       u.deps.Bus,
		Cfg:       u.deps.Cfg,
	}, steps.PromoteDocumentInput(in))
}
