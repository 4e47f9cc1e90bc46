package viewer

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/pvaudit/pvevolution/pkg/log"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Performance Ratio Evolution</title>
<style>
body { font-family: sans-serif; margin: 0; background: #fafafa; }
main { max-width: 1800px; margin: 0 auto; padding: 1em; }
img { width: 100%; height: auto; }
table { border-collapse: collapse; margin-top: 1em; }
td { padding: 0.2em 1em; }
</style>
</head>
<body>
<main>
<img src="/chart.png" alt="Performance Ratio Evolution">
{{with .}}
<table>
<tr><td>Range</td><td>{{.Start.Format "2006-01-02"}} to {{.End.Format "2006-01-02"}}</td></tr>
<tr><td>Points above target</td><td>{{.AboveTarget}}/{{.Rows}} ({{printf "%.1f" .AboveTargetPercent}}%)</td></tr>
{{range .Averages}}<tr><td>Average PR last {{.Days}}-d</td><td>{{.Value}} %</td></tr>
{{end}}<tr><td>Average PR lifetime</td><td>{{.Lifetime}} %</td></tr>
</table>
{{end}}
</main>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, summary := s.snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, summary); err != nil {
		log.Ctx(r.Context()).WarnContext(r.Context(), "failed to render index", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}
