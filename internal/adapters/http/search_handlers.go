package httpadapter

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/silindokuhleL/document-search-portal/internal/core/domain"
)

type searchParams struct {
	Query *string
	Sort  *string
	Page  *int
	Limit *int
}

func bindSearchParams(r *http.Request, withSort bool) (searchParams, error) {
	var p searchParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "q", query, &p.Query); err != nil {
		return p, domain.WrapError(domain.ErrInvalidInput, "bind q", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &p.Limit); err != nil {
		return p, domain.WrapError(domain.ErrInvalidInput, "bind limit", err)
	}
	if !withSort {
		return p, nil
	}
	if err := runtime.BindQueryParameter("form", true, false, "sort", query, &p.Sort); err != nil {
		return p, domain.WrapError(domain.ErrInvalidInput, "bind sort", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &p.Page); err != nil {
		return p, domain.WrapError(domain.ErrInvalidInput, "bind page", err)
	}
	return p, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func (rt *Router) searchDocuments(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := rt.search.Search(
		r.Context(),
		deref(params.Query),
		domain.ParseSortOrder(deref(params.Sort)),
		deref(params.Page),
		deref(params.Limit),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSearch(rt.cfg.Service, string(page.Strategy), page.FromCache, page.Total, page.ElapsedMS)
	}
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) suggestPhrases(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}

	suggestions, err := rt.search.Suggestions(r.Context(), deref(params.Query), deref(params.Limit))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSuggestions(rt.cfg.Service, len(suggestions))
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}
