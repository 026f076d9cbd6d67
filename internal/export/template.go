package export

import "html/template"

// documentTemplate is the print-oriented page skeleton. Styling mirrors the
// editor preview: navy headers, bordered summary table, A4 print margins.
var documentTemplate = template.Must(template.New("proposal").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: "Malgun Gothic", "Apple SD Gothic Neo", sans-serif; color: #1a1a1a;
         max-width: 800px; margin: 0 auto; padding: 48px 32px; line-height: 1.8; font-size: 14px; }
  .cover { text-align: center; border-bottom: 4px solid #003366; padding-bottom: 48px; margin-bottom: 40px; }
  .cover h1 { font-size: 34px; color: #003366; letter-spacing: 8px; margin-bottom: 8px; }
  .cover .subtitle { color: #555; margin-bottom: 40px; }
  table.info { width: 100%; border-collapse: collapse; font-size: 14px; }
  table.info th { background: #003366; color: #fff; padding: 10px 14px; text-align: left; width: 32%;
                  font-weight: 500; border: 1px solid #003366; }
  table.info td { padding: 10px 14px; border: 1px solid #ccc; text-align: left; }
  table.info tr:nth-child(odd) td { background: #f8f9fa; }
  .cover .date { color: #888; font-size: 13px; margin-top: 32px; }
  .cover .agency { color: #003366; font-weight: bold; font-size: 17px; margin-top: 4px; }
  .section { margin-bottom: 28px; }
  .section > h2.heading { background: #003366; color: #fff; font-size: 15px; font-weight: bold;
                          padding: 9px 14px; border-radius: 4px; margin-bottom: 12px; }
  .section .body h2 { color: #003366; font-size: 15px; margin: 18px 0 8px; }
  .section .body h3 { color: #17375e; font-size: 14px; margin: 14px 0 6px; }
  .section .body table { border-collapse: collapse; margin: 10px 0; }
  .section .body th, .section .body td { border: 1px solid #ccc; padding: 6px 10px; font-size: 13px; }
  .section .body th { background: #eef3f8; }
  .section .body ul { padding-left: 20px; }
  @media print { body { padding: 0; } .section { break-inside: avoid; } }
</style>
</head>
<body>
<div class="cover">
  <h1>{{.Title}}</h1>
  <p class="subtitle">{{.Subtitle}}</p>
  <table class="info">
    {{range .InfoRows}}<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
    {{end}}
  </table>
  <p class="date">{{.Date}}</p>
  <p class="agency">{{.AgencyName}}</p>
</div>
{{range .Sections}}<div class="section">
  <h2 class="heading">{{.Label}}</h2>
  <div class="body">{{.Body}}</div>
</div>
{{end}}
</body>
</html>
`))
