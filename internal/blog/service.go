package blog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/travelbookhq/travelbook-gateway/internal/store"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/meta"
)

// PostDetail bundles a post with its rendered page metadata. A miss keeps
// Post nil and carries the not-found metadata instead of an error page.
type PostDetail struct {
	Post *Post     `json:"post"`
	Meta meta.Page `json:"meta"`
}

// ServiceParams groups dependencies for the blog service.
type ServiceParams struct {
	API     upstream.Caller
	Logger  *logger.Logger
	SiteURL string
}

// Service owns the shared blog state.
type Service interface {
	FetchPosts(ctx context.Context, page, limit int) (store.View[[]Post], error)
	FetchPost(ctx context.Context, slug string) (PostDetail, error)
}

type service struct {
	api     upstream.Caller
	logg    *logger.Logger
	siteURL string
	posts   *store.Resource[[]Post]
}

// NewService builds the blog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		api:     params.API,
		logg:    params.Logger,
		siteURL: params.SiteURL,
		posts:   store.NewResource[[]Post](),
	}, nil
}

// FetchPosts loads the article list into the shared store.
func (s *service) FetchPosts(ctx context.Context, page, limit int) (store.View[[]Post], error) {
	fetchCtx, seq := s.posts.Begin(ctx)

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var items []Post
	total, err := s.api.Get(fetchCtx, upstream.Request{
		Resource: upstream.ResourceBlog,
		Path:     upstream.BlogPath(),
		Query:    query,
	}, &items)
	if err != nil {
		if !s.posts.Reject(seq, err) {
			s.logg.Warn(s.logg.WithResource(ctx, upstream.ResourceBlog), "discarding stale list failure")
		}
		return s.posts.Snapshot(), err
	}

	pagination := store.Pagination{Page: page, Limit: limit}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if total != nil {
		pagination.Total = *total
	} else {
		pagination.Total = len(items)
	}
	s.posts.ResolvePage(seq, items, pagination)
	return s.posts.Snapshot(), nil
}

// FetchPost loads one article by slug. An unknown slug is not an error at
// this level: the detail carries the not-found page metadata so the edge
// can render a friendly page.
func (s *service) FetchPost(ctx context.Context, slug string) (PostDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return PostDetail{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	var post Post
	_, err := s.api.Get(ctx, upstream.Request{
		Resource: upstream.ResourceBlog,
		Path:     upstream.BlogPostPath(slug),
	}, &post)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			s.logg.Info(s.logg.WithResource(ctx, upstream.ResourceBlog), "blog slug unknown, serving not-found metadata")
			return PostDetail{Meta: meta.BlogNotFound(s.siteURL)}, nil
		}
		return PostDetail{}, err
	}

	return PostDetail{
		Post: &post,
		Meta: meta.ForResource(s.siteURL, "/blog/"+url.PathEscape(slug), post.Title, post.Excerpt, post.Image),
	}, nil
}
