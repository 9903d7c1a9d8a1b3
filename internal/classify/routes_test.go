package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppRoute(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"page.tsx", "/"},
		{"layout.tsx", "/"},
		{"blog/[slug]/page.tsx", "/blog/:slug"},
		{"(marketing)/about/page.tsx", "/about"},
		{"shop/[...path]/page.tsx", "/shop/*"},
		{"docs/[[...slug]]/page.tsx", "/docs/*"},
		{"dashboard/@modal/page.tsx", "/dashboard"},
		{"(shop)/(promo)/deals/page.tsx", "/deals"},
	}
	for _, tt := range tests {
		route, warnings := appRoute(tt.rel, tt.rel)
		assert.Equal(t, tt.want, route, "rel=%s", tt.rel)
		assert.Empty(t, warnings, "rel=%s", tt.rel)
	}
}

func TestAppRouteNonTerminalCatchAll(t *testing.T) {
	route, warnings := appRoute("shop/[...path]/detail/page.tsx", "x")
	assert.Equal(t, "/shop/*/detail", route)
	assert.Len(t, warnings, 1)
}

func TestPagesRoute(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"index", "/"},
		{"about", "/about"},
		{"blog/index", "/blog"},
		{"blog/[slug]", "/blog/:slug"},
		{"docs/[...path]", "/docs/*"},
	}
	for _, tt := range tests {
		route, warnings := pagesRoute(tt.rel, tt.rel)
		assert.Equal(t, tt.want, route, "rel=%s", tt.rel)
		assert.Empty(t, warnings)
	}
}

func TestReactRouterRoute(t *testing.T) {
	assert.Equal(t, "/", reactRouterRoute(""))
	assert.Equal(t, "/", reactRouterRoute("/"))
	assert.Equal(t, "/users/:id", reactRouterRoute("/users/:id"))
	assert.Equal(t, "/settings", reactRouterRoute("settings"))
}
