package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/travelbookhq/travelbook-gateway/api/responses"
	"github.com/travelbookhq/travelbook-gateway/api/validators"
	"github.com/travelbookhq/travelbook-gateway/internal/blog"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

// BlogList returns the article list page.
func BlogList(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.FetchPosts(ctx, page, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      view.Data,
			Pagination: view.Pagination,
			TotalPages: view.Pagination.TotalPages(),
		})
	}
}

// BlogDetail returns one article by slug. Unknown slugs still return 200
// with the not-found page metadata so the edge renders a friendly page.
func BlogDetail(svc blog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blog service unavailable"))
			return
		}

		detail, err := svc.FetchPost(ctx, strings.TrimSpace(chi.URLParam(r, "slug")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
