package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/uimap/internal/router"
	"github.com/standardbeagle/uimap/internal/types"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func classifyOne(t *testing.T, root, rel, content string, detection router.Detection) types.ClassifiedFile {
	t.Helper()
	path := writeFile(t, root, rel, content)
	c := NewClassifier(root, detection)
	defer c.Close()
	return c.ClassifyFile(path, rel, 0)
}

func appDetection(root string) router.Detection {
	return router.Detection{
		RouterType: types.RouterNextJSApp,
		Framework:  types.FrameworkNextJS,
		RouterRoot: filepath.Join(root, "app"),
	}
}

func TestClassifyComponentWithTypedProps(t *testing.T) {
	root := t.TempDir()
	src := `
interface ButtonProps {
  label: string;
  onClick: () => void;
  disabled?: boolean;
}

export function Button({ label, onClick, disabled }: ButtonProps) {
  return <button disabled={disabled} onClick={onClick}>{label}</button>;
}
`
	cf := classifyOne(t, root, "components/Button.tsx", src, appDetection(root))

	require.Equal(t, types.KindComponent, cf.Kind)
	require.NotNil(t, cf.Component)
	assert.Equal(t, "Button", cf.Component.Name)
	assert.False(t, cf.Component.IsClientComponent)

	require.Len(t, cf.Component.Props, 3)
	assert.Equal(t, types.PropInfo{Name: "label", Type: "string", Required: true}, cf.Component.Props[0])
	assert.Equal(t, "() => void", cf.Component.Props[1].Type)
	assert.False(t, cf.Component.Props[2].Required)
}

func TestClassifyClientComponent(t *testing.T) {
	root := t.TempDir()
	src := `"use client";

export default function Counter() {
  const [n, setN] = useState(0);
  return <button onClick={() => setN(n + 1)}>{n}</button>;
}
`
	cf := classifyOne(t, root, "components/Counter.tsx", src, appDetection(root))

	require.Equal(t, types.KindComponent, cf.Kind)
	assert.True(t, cf.Component.IsClientComponent)
	assert.True(t, cf.Facts.HasClientDirective)
	assert.Equal(t, "Counter", cf.Component.Name)
}

func TestClassifyAnonymousDefaultUsesFileName(t *testing.T) {
	root := t.TempDir()
	src := `export default function () {
  return <div>hi</div>;
}
`
	cf := classifyOne(t, root, "components/user-card.tsx", src, appDetection(root))

	require.Equal(t, types.KindComponent, cf.Kind)
	assert.Equal(t, "UserCard", cf.Component.Name)
}

func TestClassifyHook(t *testing.T) {
	root := t.TempDir()
	src := `export function useCart() {
  const items = useLocalStorage("cart");
  return { items };
}
`
	cf := classifyOne(t, root, "hooks/useCart.ts", src, appDetection(root))

	require.Equal(t, types.KindHook, cf.Kind)
	assert.Equal(t, "useCart", cf.Hook.Name)
	assert.Contains(t, cf.Facts.CalledIdents, "useLocalStorage")
}

func TestClassifyContext(t *testing.T) {
	root := t.TempDir()
	src := `import { createContext } from "react";

const ThemeContext = createContext(null);

export function ThemeProvider({ children }) {
  return <ThemeContext.Provider value={{}}>{children}</ThemeContext.Provider>;
}

export { ThemeContext };
`
	cf := classifyOne(t, root, "context/theme.tsx", src, appDetection(root))

	require.Equal(t, types.KindContext, cf.Kind)
	assert.Equal(t, "ThemeContext", cf.Context.Name)
	assert.Equal(t, "ThemeProvider", cf.Context.ProviderName)
}

func TestClassifyServerActionFile(t *testing.T) {
	root := t.TempDir()
	src := `"use server";

export async function createOrder(data) {
  return db.orders.insert(data);
}

export async function cancelOrder(id) {
  return db.orders.delete(id);
}
`
	cf := classifyOne(t, root, "actions/orders.ts", src, appDetection(root))

	require.Equal(t, types.KindServerActionFile, cf.Kind)
	assert.ElementsMatch(t, []string{"createOrder", "cancelOrder"}, cf.ServerAction.Actions)
}

func TestClassifyServerDirectiveRanksBelowEntityShapes(t *testing.T) {
	root := t.TempDir()

	// A route file marked "use server" is still a page.
	page := classifyOne(t, root, "app/report/page.tsx", `"use server";

export default async function ReportPage() {
  return <main>report</main>;
}
`, appDetection(root))
	require.Equal(t, types.KindPage, page.Kind)
	assert.Equal(t, "/report", page.Page.Route)
	assert.Nil(t, page.ServerAction)
	assert.True(t, page.Facts.HasServerDirective)

	// Likewise a file exporting a hook.
	hook := classifyOne(t, root, "hooks/useOrders.ts", `"use server";

export function useOrders() {
  return [];
}
`, appDetection(root))
	require.Equal(t, types.KindHook, hook.Kind)
	assert.Equal(t, "useOrders", hook.Hook.Name)
	assert.Nil(t, hook.ServerAction)
}

func TestClassifyUtility(t *testing.T) {
	root := t.TempDir()
	src := `export function formatDate(d) {
  return d.toISOString();
}

export const API_BASE = "/api";
`
	cf := classifyOne(t, root, "lib/format.ts", src, appDetection(root))

	require.Equal(t, types.KindUtility, cf.Kind)
	assert.Equal(t, "Format", cf.Utility.Name)
	assert.ElementsMatch(t, []string{"formatDate", "API_BASE"}, cf.Utility.Exports)
}

func TestClassifyAppRouterPage(t *testing.T) {
	root := t.TempDir()
	src := `import Link from "next/link";
import { ProductCard } from "../../components/ProductCard";

export default async function ProductPage({ params }) {
  const data = await fetch("/api/products");
  return (
    <main>
      <ProductCard />
      <Link href="/cart">Cart</Link>
    </main>
  );
}
`
	cf := classifyOne(t, root, "app/products/[id]/page.tsx", src, appDetection(root))

	require.Equal(t, types.KindPage, cf.Kind)
	assert.Equal(t, "/products/:id", cf.Page.Route)
	assert.Equal(t, "page.tsx", cf.Page.FileName)
	assert.False(t, cf.Page.IsLayout)
	assert.Equal(t, []string{"/cart"}, cf.Page.LinksTo)
	require.Len(t, cf.Page.DataDependencies, 1)
	assert.Equal(t, types.DataDepFetch, cf.Page.DataDependencies[0].Type)
	assert.Equal(t, "/api/products", cf.Page.DataDependencies[0].Source)
	assert.Contains(t, cf.Facts.JSXTags, "ProductCard")
}

func TestClassifyAppRouterLayout(t *testing.T) {
	root := t.TempDir()
	src := `export default function RootLayout({ children }) {
  return <html><body>{children}</body></html>;
}
`
	cf := classifyOne(t, root, "app/layout.tsx", src, appDetection(root))

	require.Equal(t, types.KindPage, cf.Kind)
	assert.Equal(t, "/", cf.Page.Route)
	assert.True(t, cf.Page.IsLayout)
}

func TestClassifyPagesRouter(t *testing.T) {
	root := t.TempDir()
	detection := router.Detection{
		RouterType: types.RouterNextJSPages,
		Framework:  types.FrameworkNextJS,
		RouterRoot: filepath.Join(root, "pages"),
	}

	src := `export async function getServerSideProps() {
  return { props: {} };
}

export default function BlogPost() {
  return <article />;
}
`
	cf := classifyOne(t, root, "pages/blog/[slug].tsx", src, detection)

	require.Equal(t, types.KindPage, cf.Kind)
	assert.Equal(t, "/blog/:slug", cf.Page.Route)
	require.Len(t, cf.Page.DataDependencies, 1)
	assert.Equal(t, types.DataDepFrameworkFunc, cf.Page.DataDependencies[0].Type)
	assert.Equal(t, "getServerSideProps", cf.Page.DataDependencies[0].Source)
}

func TestClassifyPagesRouterSpecialFiles(t *testing.T) {
	root := t.TempDir()
	detection := router.Detection{
		RouterType: types.RouterNextJSPages,
		RouterRoot: filepath.Join(root, "pages"),
	}

	app := classifyOne(t, root, "pages/_app.tsx",
		`export default function App({ Component, pageProps }) { return <Component {...pageProps} />; }`, detection)
	require.Equal(t, types.KindPage, app.Kind)
	assert.True(t, app.Page.IsLayout)

	errPage := classifyOne(t, root, "pages/_error.tsx",
		`export default function Error() { return <p>boom</p>; }`, detection)
	require.Equal(t, types.KindPage, errPage.Kind)
	assert.True(t, errPage.Page.IsError)

	// _document is framework plumbing, not a route.
	doc := classifyOne(t, root, "pages/_document.tsx",
		`export default function Document() { return <html />; }`, detection)
	assert.NotEqual(t, types.KindPage, doc.Kind)
}

func TestClassifyReactRouterRoutes(t *testing.T) {
	root := t.TempDir()
	detection := router.Detection{
		RouterType: types.RouterReactRouter,
		Framework:  types.FrameworkVite,
	}
	src := `import { Routes, Route } from "react-router-dom";
import Dashboard from "./Dashboard";
import Settings from "./Settings";

export default function App() {
  return (
    <Routes>
      <Route path="/" element={<Dashboard />} />
      <Route path="settings" element={<Settings />} />
    </Routes>
  );
}
`
	cf := classifyOne(t, root, "src/App.tsx", src, detection)

	require.Equal(t, types.KindComponent, cf.Kind)
	require.Len(t, cf.ExtraPages, 2)
	assert.Equal(t, "/", cf.ExtraPages[0].Route)
	assert.Equal(t, []string{"Dashboard"}, cf.ExtraPages[0].Components)
	assert.Equal(t, "/settings", cf.ExtraPages[1].Route)
	assert.Equal(t, []string{"Settings"}, cf.ExtraPages[1].Components)
}

func TestClassifyUnreadableFile(t *testing.T) {
	root := t.TempDir()
	c := NewClassifier(root, appDetection(root))
	defer c.Close()

	cf := c.ClassifyFile(filepath.Join(root, "missing.tsx"), "missing.tsx", 7)

	assert.Equal(t, types.KindSkipped, cf.Kind)
	assert.Equal(t, 7, cf.WalkOrder)
	require.Len(t, cf.Warnings, 1)
	assert.Equal(t, types.WarnFileRead, cf.Warnings[0].Code)
}

func TestClassifyExportlessFileSkipped(t *testing.T) {
	root := t.TempDir()
	cf := classifyOne(t, root, "src/setup.ts", `console.log("side effects only");`, appDetection(root))

	assert.Equal(t, types.KindSkipped, cf.Kind)
	require.Len(t, cf.Warnings, 1)
	assert.Equal(t, types.WarnUnclassifiable, cf.Warnings[0].Code)
}

func TestClassificationIsExclusive(t *testing.T) {
	root := t.TempDir()
	// Exports a hook and a component; hook classification wins by precedence
	// and the file lands in exactly one bucket.
	src := `export function useThing() { return 1; }
export function Thing() { return <div />; }
`
	cf := classifyOne(t, root, "src/thing.tsx", src, appDetection(root))

	assert.Equal(t, types.KindHook, cf.Kind)
	assert.NotNil(t, cf.Hook)
	assert.Nil(t, cf.Component)
	assert.Nil(t, cf.Page)
	assert.Nil(t, cf.Utility)
}

func TestLeadingDirectives(t *testing.T) {
	client, server := leadingDirectives([]byte("// header comment\n\n'use client';\nexport const x = 1;"))
	assert.True(t, client)
	assert.False(t, server)

	client, server = leadingDirectives([]byte("/* block\ncomment */\n\"use server\"\n"))
	assert.False(t, client)
	assert.True(t, server)

	client, server = leadingDirectives([]byte("const a = 1;\n'use client';"))
	assert.False(t, client)
	assert.False(t, server)
}
