// Package listing holds the state behind a paginated recipe listing: the
// current query, the last loaded page and the load status.
package listing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/service"
	"go.uber.org/zap"
)

// Status is the load status of a listing.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Errored
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

// LoadErrorMessage is shown in place of collaborator errors.
const LoadErrorMessage = "Erreur lors du chargement des recettes."

// Lister loads one page of recipes.
type Lister interface {
	ListRecipes(ctx context.Context, params service.ListParams) (*service.ListResult, error)
}

// Snapshot is a copy of the listing state at one point in time.
type Snapshot struct {
	Status  Status
	Params  service.ListParams
	Recipes []models.Recipe
	Total   int64
	Error   string
}

// TotalPages of the snapshot at its page size.
func (s Snapshot) TotalPages() int {
	return TotalPages(s.Total, s.Params.PageSize)
}

// State tracks a listing. Search, filter, sort and owner changes go back to
// page 1; page changes keep everything else. Errored keeps the last loaded
// recipes. Responses to loads superseded by a newer one are dropped.
type State struct {
	lister Lister
	logger *zap.Logger

	mu         sync.Mutex
	params     service.ListParams
	status     Status
	recipes    []models.Recipe
	total      int64
	errMsg     string
	generation uint64
}

// New returns an Idle listing on page 1 sorted by DefaultSort.
func New(lister Lister, pageSize int, logger *zap.Logger) *State {
	return &State{
		lister: lister,
		logger: logger,
		params: service.ListParams{
			Page:     1,
			PageSize: pageSize,
			Sort:     service.DefaultSort,
		},
		recipes: []models.Recipe{},
	}
}

// SetSearch replaces the title search and reloads page 1.
func (s *State) SetSearch(ctx context.Context, search string) error {
	return s.update(ctx, func(p *service.ListParams) {
		p.Search = search
		p.Page = 1
	})
}

// SetFilters replaces the category filters and reloads page 1.
func (s *State) SetFilters(ctx context.Context, filters models.CategoryAttributes) error {
	return s.update(ctx, func(p *service.ListParams) {
		p.Filters = filters
		p.Page = 1
	})
}

// SetSort replaces the sort mode and reloads page 1.
func (s *State) SetSort(ctx context.Context, mode service.SortMode) error {
	return s.update(ctx, func(p *service.ListParams) {
		p.Sort = mode
		p.Page = 1
	})
}

// SetOwner restricts the listing to the requester's recipes or to everyone
// else's and reloads page 1.
func (s *State) SetOwner(ctx context.Context, owner service.OwnerFilter, requesterID uuid.UUID) error {
	return s.update(ctx, func(p *service.ListParams) {
		p.Owner = owner
		p.RequesterID = requesterID
		p.Page = 1
	})
}

// SetPage moves to page and reloads.
func (s *State) SetPage(ctx context.Context, page int) error {
	return s.update(ctx, func(p *service.ListParams) {
		p.Page = page
	})
}

// Reload fetches the current page again.
func (s *State) Reload(ctx context.Context) error {
	return s.update(ctx, func(*service.ListParams) {})
}

func (s *State) update(ctx context.Context, mutate func(*service.ListParams)) error {
	s.mu.Lock()
	mutate(&s.params)
	s.generation++
	gen := s.generation
	params := s.params
	s.status = Loading
	s.mu.Unlock()

	res, err := s.lister.ListRecipes(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("dropping superseded listing response", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		s.status = Errored
		s.errMsg = LoadErrorMessage
		s.logger.Warn("recipe listing failed", zap.Int("page", params.Page), zap.Error(err))
		return err
	}
	s.status = Loaded
	s.errMsg = ""
	s.recipes = res.Recipes
	s.total = res.Total
	return nil
}

// RecipeCreated puts a newly created recipe at the top of the list. Call it
// only once the create has succeeded.
func (s *State) RecipeCreated(r models.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]models.Recipe{r}, s.recipes...)
	s.total++
}

// RecipeDeleted removes a deleted recipe from the list. Call it only once the
// delete has succeeded.
func (s *State) RecipeDeleted(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.recipes[:0:0]
	for _, r := range s.recipes {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) < len(s.recipes) && s.total > 0 {
		s.total--
	}
	s.recipes = kept
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipes := make([]models.Recipe, len(s.recipes))
	copy(recipes, s.recipes)
	return Snapshot{
		Status:  s.status,
		Params:  s.params,
		Recipes: recipes,
		Total:   s.total,
		Error:   s.errMsg,
	}
}
