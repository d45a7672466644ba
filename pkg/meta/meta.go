package meta

import (
	"net/url"
	"strings"
)

const siteName = "TravelBook"

// BlogNotFoundTitle is the fallback title for blog detail pages whose slug
// the backend does not know.
const BlogNotFoundTitle = "Blog Post Not Found | TravelBook"

// PageTitle assembles the "<name> | TravelBook" document title.
func PageTitle(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return siteName
	}
	return name + " | " + siteName
}

// Page carries the metadata the edge renders into a document head.
type Page struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ForResource builds page metadata for a resource detail view.
func ForResource(siteURL, path, name, description, image string) Page {
	return Page{
		Title:       PageTitle(name),
		Description: description,
		Canonical:   CanonicalURL(siteURL, path),
		Image:       image,
	}
}

// BlogNotFound is the terminal metadata for an unknown blog slug.
func BlogNotFound(siteURL string) Page {
	return Page{
		Title:     BlogNotFoundTitle,
		Canonical: CanonicalURL(siteURL, "/blog"),
	}
}

// CanonicalURL joins the public site URL with a path, tolerating slashes.
func CanonicalURL(siteURL, path string) string {
	base := strings.TrimRight(siteURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if _, err := url.Parse(base + path); err != nil {
		return base
	}
	return base + path
}
