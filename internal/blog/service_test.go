package blog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

type fakeCaller struct {
	getFn func(ctx context.Context, req upstream.Request, out any) (*int, error)
}

func (f *fakeCaller) Get(ctx context.Context, req upstream.Request, out any) (*int, error) {
	if f.getFn == nil {
		return nil, errors.New("unexpected Get")
	}
	return f.getFn(ctx, req, out)
}

func (f *fakeCaller) Post(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Post")
}

func (f *fakeCaller) Put(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Put")
}

func (f *fakeCaller) Delete(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Delete")
}

func newTestService(t *testing.T, api upstream.Caller) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(ServiceParams{API: api, Logger: logg, SiteURL: "https://travelbook.app"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestFetchPosts_CommitsList(t *testing.T) {
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			raw := `[{"_id":"b1","slug":"hidden-gems-kyoto","title":"Hidden Gems of Kyoto","author":"Maya Chen"},
				{"id":"b2","slug":"island-hopping","title":"Island Hopping 101","author":{"_id":"u7","name":"Luca Romano"}}]`
			if err := json.Unmarshal([]byte(raw), out); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			return nil, nil
		},
	}
	svc := newTestService(t, api)

	view, err := svc.FetchPosts(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("FetchPosts returned error: %v", err)
	}
	if len(view.Data) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(view.Data))
	}
	if view.Data[0].ID != "b1" || view.Data[0].Author.Name != "Maya Chen" {
		t.Fatalf("string author not normalized: %+v", view.Data[0])
	}
	if view.Data[1].Author.ID != "u7" || view.Data[1].Author.Name != "Luca Romano" {
		t.Fatalf("object author not normalized: %+v", view.Data[1])
	}
}

func TestFetchPost_BuildsPageMetadata(t *testing.T) {
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			if req.Path != "blog/hidden-gems-kyoto" {
				t.Fatalf("unexpected path %q", req.Path)
			}
			raw := `{"_id":"b1","slug":"hidden-gems-kyoto","title":"Hidden Gems of Kyoto","excerpt":"Beyond the shrines."}`
			if err := json.Unmarshal([]byte(raw), out); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			return nil, nil
		},
	}
	svc := newTestService(t, api)

	detail, err := svc.FetchPost(context.Background(), "hidden-gems-kyoto")
	if err != nil {
		t.Fatalf("FetchPost returned error: %v", err)
	}
	if detail.Post == nil || detail.Post.ID != "b1" {
		t.Fatalf("unexpected post %+v", detail.Post)
	}
	if detail.Meta.Title != "Hidden Gems of Kyoto | TravelBook" {
		t.Fatalf("unexpected title %q", detail.Meta.Title)
	}
}

func TestFetchPost_UnknownSlugServesNotFoundTitle(t *testing.T) {
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		},
	}
	svc := newTestService(t, api)

	detail, err := svc.FetchPost(context.Background(), "no-such-post")
	if err != nil {
		t.Fatalf("unknown slug should not be an error, got %v", err)
	}
	if detail.Post != nil {
		t.Fatalf("unknown slug should carry no post")
	}
	if detail.Meta.Title != "Blog Post Not Found | TravelBook" {
		t.Fatalf("unexpected fallback title %q", detail.Meta.Title)
	}
}

func TestFetchPost_UpstreamFailurePropagates(t *testing.T) {
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUpstream, "travel api down")
		},
	}
	svc := newTestService(t, api)

	if _, err := svc.FetchPost(context.Background(), "hidden-gems-kyoto"); err == nil {
		t.Fatalf("non-404 failures must propagate")
	}
}

func TestAuthorName_Fallback(t *testing.T) {
	var post Post
	if got := post.AuthorName(); got != "TravelBook Team" {
		t.Fatalf("unexpected fallback author %q", got)
	}
}
