package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/recettes/backend/internal/models"
	"github.com/pageza/recettes/backend/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
)

// SortMode orders a recipe listing.
type SortMode string

const (
	SortAlphaAsc  SortMode = "alpha-asc"
	SortAlphaDesc SortMode = "alpha-desc"
	SortDateAsc   SortMode = "date-asc"
	SortDateDesc  SortMode = "date-desc"

	DefaultSort = SortDateDesc
)

// ParseSortMode maps an empty value to DefaultSort and rejects unknown modes.
func ParseSortMode(v string) (SortMode, error) {
	switch m := SortMode(strings.TrimSpace(v)); m {
	case "":
		return DefaultSort, nil
	case SortAlphaAsc, SortAlphaDesc, SortDateAsc, SortDateDesc:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, v)
	}
}

func (m SortMode) order() repository.Order {
	switch m {
	case SortAlphaAsc:
		return repository.Order{Field: repository.SortByTitle}
	case SortAlphaDesc:
		return repository.Order{Field: repository.SortByTitle, Desc: true}
	case SortDateAsc:
		return repository.Order{Field: repository.SortByCreatedAt}
	default:
		return repository.Order{Field: repository.SortByCreatedAt, Desc: true}
	}
}

// OwnerFilter narrows a listing to the requester's recipes or to everyone
// else's.
type OwnerFilter string

const (
	OwnerAll    OwnerFilter = ""
	OwnerMine   OwnerFilter = "mine"
	OwnerOthers OwnerFilter = "others"
)

// ListParams describes one page of the recipe listing.
type ListParams struct {
	Page        int
	PageSize    int
	Search      string
	Filters     models.CategoryAttributes
	Owner       OwnerFilter
	RequesterID uuid.UUID
	Sort        SortMode
}

// ListResult is a page of recipes and the number of recipes matching the
// filters across all pages. PageSize is the size actually applied.
type ListResult struct {
	Recipes  []models.Recipe `json:"recipes"`
	Total    int64           `json:"total"`
	PageSize int             `json:"page_size"`
}

// RowRange returns the zero-based inclusive row range of a page.
func RowRange(page, pageSize int) (from, to int) {
	from = (page - 1) * pageSize
	to = page*pageSize - 1
	return from, to
}

// ValidateListParams rejects out-of-range paging and clamps PageSize to max.
func ValidateListParams(p *ListParams, max int) error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be at least 1", ErrInvalidListParams)
	}
	if p.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive", ErrInvalidListParams)
	}
	if max > 0 && p.PageSize > max {
		p.PageSize = max
	}
	switch p.Owner {
	case OwnerAll, OwnerMine, OwnerOthers:
	default:
		return fmt.Errorf("%w: unknown owner filter %q", ErrInvalidListParams, p.Owner)
	}
	return nil
}

// ListRecipes returns one filtered, sorted page of recipes. Stores without
// server-side ordering return the page unordered and it is sorted here,
// which orders rows within the page only.
func (s *RecipeService) ListRecipes(ctx context.Context, params ListParams) (*ListResult, error) {
	if err := ValidateListParams(&params, s.maxPageSize); err != nil {
		return nil, err
	}
	mode, err := ParseSortMode(string(params.Sort))
	if err != nil {
		return nil, err
	}

	query := repository.RecipeQuery{
		Search:  strings.TrimSpace(params.Search),
		Filters: trimFilters(params.Filters),
	}
	query.From, query.To = RowRange(params.Page, params.PageSize)
	if hasCategoryFilter(query.Filters) {
		query.Join = repository.InnerJoin
	}

	switch params.Owner {
	case OwnerMine, OwnerOthers:
		if params.RequesterID == uuid.Nil {
			return nil, ErrNotAuthenticated
		}
		query.OwnerID = params.RequesterID
		query.Owner = repository.OwnedBy
		if params.Owner == OwnerOthers {
			query.Owner = repository.NotOwnedBy
		}
	}

	serverOrdering := s.store.Capabilities().ServerOrdering
	if serverOrdering {
		order := mode.order()
		query.Order = &order
	}

	recipes, total, err := s.store.QueryRecipes(ctx, query)
	if err != nil {
		s.logger.Warn("recipe listing failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRecipeListFailed, err)
	}

	if !serverOrdering {
		SortRecipes(recipes, mode, s.collator())
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	return &ListResult{Recipes: recipes, Total: total, PageSize: params.PageSize}, nil
}

// SortRecipes orders recipes in place with the same rules the store applies:
// titles compare with the collator and empty titles sort last, dates compare
// chronologically, and ties break on id.
func SortRecipes(recipes []models.Recipe, mode SortMode, c *collate.Collator) {
	desc := mode == SortAlphaDesc || mode == SortDateDesc
	byTitle := mode == SortAlphaAsc || mode == SortAlphaDesc

	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := &recipes[i], &recipes[j]
		var cmp int
		if byTitle {
			aEmpty, bEmpty := a.Title == "", b.Title == ""
			switch {
			case aEmpty && bEmpty:
				cmp = 0
			case aEmpty:
				return false
			case bEmpty:
				return true
			default:
				cmp = c.CompareString(a.Title, b.Title)
			}
		} else {
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		return a.ID.String() < b.ID.String()
	})
}

func trimFilters(f models.CategoryAttributes) models.CategoryAttributes {
	return models.CategoryAttributes{
		Diet:       strings.TrimSpace(f.Diet),
		CookTime:   strings.TrimSpace(f.CookTime),
		Technique:  strings.TrimSpace(f.Technique),
		Difficulty: strings.TrimSpace(f.Difficulty),
	}
}

func hasCategoryFilter(f models.CategoryAttributes) bool {
	return f.Diet != "" || f.CookTime != "" || f.Technique != "" || f.Difficulty != ""
}
