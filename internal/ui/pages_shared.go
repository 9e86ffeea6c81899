package ui

import (
	"slices"
	"strconv"
	"strings"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"

	"admissions-explorer/internal/aggregate"
	"admissions-explorer/internal/chart"
)

type navItem struct {
	Label string
	Href  string
	Key   string
	Icon  string
}

var navItems = []navItem{
	{Label: "Overview", Href: "/ui", Key: "home", Icon: "house"},
	{Label: "GPA Distribution", Href: "/ui/gpa", Key: "gpa", Icon: "chart-column-stacked"},
	{Label: "Demographics", Href: "/ui/demographics", Key: "demographics", Icon: "users"},
	{Label: "Applications", Href: "/ui/applications", Key: "applications", Icon: "chart-line"},
	{Label: "Raw Data", Href: "/ui/raw", Key: "raw", Icon: "table"},
}

const themeInitScript = `(function(){
  var mode='auto';
  try { mode=localStorage.getItem('admissions-ui-theme')||'auto'; } catch (_) {}
  if(mode==='auto'){ mode=window.matchMedia('(prefers-color-scheme: dark)').matches?'dark':'light'; }
  document.documentElement.setAttribute('data-color-mode', mode);
})();`

func pageHead(title string, interactiveCharts bool) Node {
	var chartScripts []Node
	if interactiveCharts {
		for _, src := range chart.Scripts {
			chartScripts = append(chartScripts, Script(Src(src)))
		}
	}
	return Head(
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
		TitleEl(Text(title+" | UC Admissions Data Explorer")),
		Link(Rel("icon"), Href("data:,")),
		Link(Rel("preconnect"), Href("https://fonts.googleapis.com")),
		Link(Rel("stylesheet"), Href("https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap")),
		Link(Rel("stylesheet"), Href("/ui/static/app.css")),
		Script(Raw(themeInitScript)),
		Script(Src("https://unpkg.com/lucide@latest/dist/umd/lucide.min.js")),
		Script(
			Type("module"),
			Src("https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"),
		),
		Group(chartScripts),
	)
}

func (h *Handler) appPage(title, active string, body ...Node) Node {
	nav := make([]Node, 0, len(navItems))
	for _, item := range navItems {
		className := "app-nav-link"
		if item.Key == active {
			className += " active"
		}
		nav = append(nav, A(
			Href(item.Href),
			Class(className),
			I(Class("nav-icon"), Attr("data-lucide", item.Icon), Attr("aria-hidden", "true")),
			Span(Text(" "+item.Label)),
		))
	}

	return HTML(
		Lang("en"),
		pageHead(title, !h.Static),
		Body(
			Main(Class("app-shell"),
				Aside(
					Class("app-sidebar"),
					Div(
						Class("brand"),
						Strong(Text("UC Admissions Data Explorer")),
						P(Class(mutedClass()), Text("Explore trends in UC freshman applications by GPA, demographics, and more.")),
					),
					Nav(Class("app-nav"), Group(nav)),
				),
				Section(
					Class("app-main"),
					Div(Class("topbar"), H1(Class("page-title"), Text(title))),
					Div(Class("content"), Group(body)),
				),
			),
			Script(Raw("if (window.lucide) { window.lucide.createIcons(); }")),
		),
	)
}

// errorPage names the dataset that failed and the kind of failure.
func (h *Handler) errorPage(title, datasetLabel, kind, message string) Node {
	var details []Node
	if datasetLabel != "" {
		details = append(details, P(Strong(Text("Dataset: ")), Text(datasetLabel)))
	}
	if kind != "" {
		details = append(details, P(Span(Class("error-kind"), Text(kind))))
	}
	return h.appPage(title, "",
		Div(
			Class(cardClass("error-card")),
			Group(details),
			P(Text(message)),
			P(A(Href("/ui"), Text("Back to overview"))),
		),
	)
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

func cardClass(extra ...string) string {
	parts := []string{"card"}
	parts = append(parts, extra...)
	return strings.Join(parts, " ")
}

func mutedClass() string {
	return "color-fg-muted text-small"
}

func quickFilterCard(placeholder string) Node {
	return Div(
		Class(cardClass("toolbar")),
		data.Signals(map[string]any{"q": ""}),
		Label(Class("sr-only"), Text("Quick filter")),
		Input(Type("search"), Class("form-control"), Placeholder(placeholder), data.Bind("q"), AutoComplete("off")),
	)
}

func emptyStateCard(message string) Node {
	return Div(Class(cardClass("blankslate")), P(Class(mutedClass()), Text(message)))
}

// dataTable renders rows with a datastar row search over every cell.
func dataTable(columns []string, rows [][]string, numeric func(col int) bool) Node {
	if len(rows) == 0 {
		return emptyStateCard("No rows for the current selection.")
	}
	head := make([]Node, 0, len(columns))
	for _, c := range columns {
		head = append(head, Th(Text(c)))
	}
	body := make([]Node, 0, len(rows))
	for _, row := range rows {
		cells := make([]Node, 0, len(row))
		for i, v := range row {
			if numeric != nil && numeric(i) {
				cells = append(cells, Td(Class("num"), Text(v)))
			} else {
				cells = append(cells, Td(Text(v)))
			}
		}
		body = append(body, Tr(data.Show(containsExpr(strings.Join(row, " "))), Group(cells)))
	}
	return Div(Class(cardClass("table-wrap")),
		Table(Class("data-table"), THead(Tr(Group(head))), TBody(Group(body))),
	)
}

// filterForm renders the term and category checkboxes for a chart page. The
// hidden empty inputs keep a fully unchecked group distinguishable from an
// absent one, so unchecking everything selects nothing.
func filterForm(action string, terms []int, categoryLabel string, categories []string, sel aggregate.Selection) Node {
	termBoxes := []Node{Input(Type("hidden"), Name("term"), Value(""))}
	for _, t := range terms {
		v := strconv.Itoa(t)
		checked := sel.Terms == nil || slices.Contains(sel.Terms, t)
		if sel.Range != nil && !sel.Range.Contains(t) {
			checked = false
		}
		termBoxes = append(termBoxes, Label(Input(Type("checkbox"), Name("term"), Value(v), If(checked, Checked())), Text(" "+v)))
	}

	var categoryGroup Node
	if categoryLabel != "" {
		boxes := []Node{Input(Type("hidden"), Name("category"), Value(""))}
		for _, c := range categories {
			checked := sel.Categories == nil || slices.Contains(sel.Categories, c)
			boxes = append(boxes, Label(Input(Type("checkbox"), Name("category"), Value(c), If(checked, Checked())), Text(" "+c)))
		}
		categoryGroup = FieldSet(Legend(Text(categoryLabel)), Group(boxes))
	}

	return Form(
		Method("get"),
		Action(action),
		Class(cardClass("filters")),
		FieldSet(Legend(Text("Fall term")), Group(termBoxes)),
		categoryGroup,
		Div(Class("filter-actions"),
			Button(Type("submit"), Class("btn btn-primary"), Text("Apply")),
			A(Href(action+"?reset=1"), Class("btn"), Text("Reset")),
		),
	)
}

func chartCard(node Node) Node {
	return Div(Class(cardClass()), node)
}

// downloadLink points at the CSV export of action for the selection shown.
func downloadLink(action, filename string, sel aggregate.Selection) Node {
	href := action + ".csv"
	if q := sel.Query().Encode(); q != "" {
		href += "?" + q
	}
	return Div(Class("table-actions"),
		A(Href(href), Class("btn btn-primary"), Text("Download "+filename)),
	)
}

func note(text string) Node {
	return P(Class(mutedClass()), Text(text))
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
