package render

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"golang.org/x/text/language"

	"github.com/GregMSThompson/budget-report/internal/dto"
	"github.com/GregMSThompson/budget-report/internal/money"
)

//go:embed templates/*.html
var templatesFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templatesFS, "templates/report.html"))

type htmlView struct {
	Lang     string
	Total    string
	Range    string
	Gradient template.CSS
	Legend   []legendRow
	Cards    []card
	Shared   bool
}

type legendRow struct {
	Name   string
	Amount string
	Color  template.CSS
}

type card struct {
	ID     string
	Name   string
	Total  string
	Color  template.CSS
	Payees []payeeRow
}

type payeeRow struct {
	Name   string
	Amount string
}

// HTML writes a self-contained report page: totals, a pie of the largest
// categories and one expandable card per category listing its payees.
func HTML(w io.Writer, data *dto.ReportData, cur money.Currency) error {
	pie := pieSlices(data.Categories)

	view := htmlView{
		Lang:     lang(cur),
		Total:    cur.FormatAmount(data.TotalSpent),
		Range:    dateRange(data.StartDate, data.EndDate),
		Gradient: template.CSS(conicGradient(pie)),
		Shared:   data.Shared,
	}
	for _, s := range pie {
		view.Legend = append(view.Legend, legendRow{
			Name:   s.Name,
			Amount: cur.FormatAmount(s.Value),
			Color:  template.CSS(s.Color),
		})
	}
	for i, c := range data.Categories {
		cd := card{
			ID:    "cat-" + strconv.Itoa(i),
			Name:  c.CategoryName,
			Total: cur.FormatAmount(c.TotalAmount),
			Color: template.CSS(CardColors[i%len(CardColors)]),
		}
		for _, p := range payeeTotals(c) {
			cd.Payees = append(cd.Payees, payeeRow{Name: p.Name, Amount: cur.FormatAmount(p.Total)})
		}
		view.Cards = append(view.Cards, cd)
	}

	return reportTemplate.Execute(w, view)
}

func lang(cur money.Currency) string {
	if cur.Tag == language.Und {
		return "en"
	}
	base, _ := cur.Tag.Base()
	return base.String()
}
