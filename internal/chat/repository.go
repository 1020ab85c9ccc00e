package chat

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/sibyl/internal/agents"
	"github.com/JaimeStill/sibyl/internal/prompts"
	"github.com/JaimeStill/sibyl/pkg/pagination"
	"github.com/JaimeStill/sibyl/pkg/query"
	"github.com/JaimeStill/sibyl/pkg/repository"
	"github.com/JaimeStill/sibyl/pkg/search"
	"github.com/JaimeStill/sibyl/workflow"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	llm        *agents.Client
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a chat repository implementing the System interface.
// It internally constructs the workflow runtime from the provided dependencies.
func New(
	db *sql.DB,
	agent gaconfig.AgentConfig,
	search search.System,
	prompts prompts.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	llm := agents.New(agent)
	rt := &workflow.Runtime{
		LLM:     llm,
		Search:  search,
		Prompts: prompts,
		Logger:  logger.With("workflow", "chat"),
	}
	return &repo{
		db:         db,
		rt:         rt,
		llm:        llm,
		logger:     logger.With("system", "chat"),
		pagination: pagination,
	}
}

func (r *repo) Handler(timeout time.Duration) *Handler {
	return NewHandler(r, r.logger, r.pagination, timeout)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Exchange], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Question", "Answer")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count exchanges: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanExchange)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Exchange, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExchange)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

// Send runs the answer workflow for a user message and records the exchange.
// Workflow failures never surface as errors: they fold into the stored
// answer text, so callers always receive a displayable exchange. Only
// validation and persistence failures return errors.
func (r *repo) Send(ctx context.Context, cmd SendCommand) (*Exchange, error) {
	message := strings.TrimSpace(cmd.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	started := time.Now()

	var answer, searchQuery, searchResults string
	var needsSearch bool

	result, err := workflow.Execute(ctx, r.rt, message)
	if err != nil {
		answer = fmt.Sprintf("An error occurred: %v", err)
	} else {
		answer = result.Answer
		needsSearch = result.NeedsSearch
		searchQuery = result.SearchQuery
		searchResults = result.SearchResults
	}

	duration := time.Since(started).Milliseconds()

	insertQ := `
		INSERT INTO exchanges(
			question, answer, needs_search, search_query,
			search_results, model_name, provider_name, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, question, answer, needs_search, search_query,
				  search_results, model_name, provider_name, duration_ms,
				  created_at`

	insertArgs := []any{
		message,
		answer,
		needsSearch,
		searchQuery,
		searchResults,
		r.llm.ModelName(),
		r.llm.ProviderName(),
		duration,
	}

	e, txErr := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Exchange, error) {
		return repository.QueryOne(ctx, tx, insertQ, insertArgs, scanExchange)
	})

	if txErr != nil {
		return nil, repository.MapError(txErr, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("exchange recorded",
		"id", e.ID,
		"needs_search", e.NeedsSearch,
		"duration_ms", e.DurationMs,
		"workflow_failed", err != nil,
	)
	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM exchanges WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("exchange deleted", "id", id)
	return nil
}
