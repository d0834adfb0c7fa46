package http

import (
	"html/template"
	"net/http"
)

// PageTitle is shown in the browser tab and as the page heading
const PageTitle = "直營店日報自動化系統"

// pageData drives the upload page. Success and Error are mutually exclusive.
type pageData struct {
	Title       string
	Success     string
	Error       string
	DownloadURL string
	FileName    string
	Notices     []string
	MaxMB       int64
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Microsoft JhengHei", sans-serif; margin: 40px auto; max-width: 640px; }
.notice { padding: 10px; margin: 12px 0; border-radius: 4px; }
.success { background-color: #d4edda; color: #155724; }
.warning { background-color: #fff3cd; color: #856404; }
.error { background-color: #f8d7da; color: #721c24; }
label { display: block; margin-top: 16px; font-weight: bold; }
button { margin-top: 20px; padding: 8px 24px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Success}}<div class="notice success">{{.Success}} <a href="{{.DownloadURL}}">下載 {{.FileName}}</a></div>{{end}}
{{range .Notices}}<div class="notice warning">{{.}}</div>{{end}}
{{if .Error}}<div class="notice error">❌ {{.Error}}</div>{{end}}
<form method="post" action="/reports" enctype="multipart/form-data">
<label for="raw">POS 班別原始檔 (CSV / Excel)</label>
<input type="file" id="raw" name="raw" accept=".csv,.xlsx,.xlsm" required>
<label for="workbook">本月日報表 Excel (每月 1 日可不附)</label>
<input type="file" id="workbook" name="workbook" accept=".xlsx,.xlsm">
<p>單一檔案上限 {{.MaxMB}} MB</p>
<button type="submit">產生報表</button>
</form>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, data pageData) error {
	data.Title = PageTitle
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return pageTemplate.Execute(w, data)
}
