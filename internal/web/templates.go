package web

import (
	"bytes"
	"html/template"

	"github.com/jaminalder/tictactoe/internal/app"
	"github.com/jaminalder/tictactoe/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.cell{width:4rem;height:4rem;font-size:2rem}
.cell.win{background:#ffe680}.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic-Tac-Toe</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events" sse-swap="board">{{template "board" .}}</div>
<form hx-post="/game/{{.ID}}/start" hx-target="#board" hx-swap="outerHTML">
  <input name="p1" placeholder="Player 1 (X)">
  <input name="p2" placeholder="Player 2 (O)">
  <button type="submit">New game</button>
</form>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// boardData is what the board template renders.
type boardData struct {
	ID    string
	State app.GameState
	Error string
}

const indexTemplate = `<h1>Tic-Tac-Toe</h1>
<form action="/game" method="post">
  <input name="p1" placeholder="Player 1 (X)">
  <input name="p2" placeholder="Player 2 (O)">
  <button>Start</button>
</form>`

const boardTemplate = `
<div id="board">
  <p class="status">{{.State.Status.Text}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit" class="cell{{if $.State.Highlighted $i}} win{{end}}"{{if not ($.State.Playable $i)}} disabled{{end}}>{{cellSymbol (index $.State.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Reset</button>
  </form>
</div>
`
