package directive

import (
	"html/template"
	"strings"
)

// ShellcastNames are the aliases of the shellcast embed directive.
var ShellcastNames = []string{"shellcast", "shcast", "script"}

// Shellcast defaults, applied when the option is absent.
const (
	DefaultShellcastWidth  = 80
	DefaultShellcastHeight = 24
	DefaultShellcastTitle  = "bash"
)

const shellcastTemplate = `<div class="sgr embed" id="player" style="width:560px; background-image: none;">
  <div class="header" style="width:560px">
    <img src="/static/img/buttons.png">
    <h1> {{.Title}} </h1>
  </div>
  <div id="term" style="line-height: 0;"></div>
  <div class="progress progress-info progress-striped">
    <div class="bar"></div>
  </div>
  <nav class="controls">
    <li class="sc-button toggle" data-action="play">
      <img src="/static/img/playback-start.png">
    </li>
    <li class="sc-label">Speed:</li>
    <li class="speed-container">
      <input class="speed" type="text" value="2.0">
    </li>
  </nav>
</div>
<script>
  jQuery(function() {
    window.term = new Terminal({{.Width}}, {{.Height}}, function(data) {
      console.log("Handler:", data);
    });
    window.term.id = 1;
    term.open(document.getElementById("term"));
    window.player = new VT.Player(term);
    window.player.load({{.ID}});
  })
</script>
`

var shellcastTmpl = template.Must(template.New("shellcast").Parse(shellcastTemplate))

// ShellcastData is the template input of one embed.
type ShellcastData struct {
	ID     string
	Width  int
	Height int
	Title  string
}

// Shellcast embeds a recorded terminal session player.
type Shellcast struct {
	tmpl *template.Template
}

// NewShellcast returns the embed handler with the built-in template.
func NewShellcast() *Shellcast {
	return &Shellcast{tmpl: shellcastTmpl}
}

// Spec returns the argument and option rules of the directive.
// The two optional arguments are accepted and ignored.
func (s *Shellcast) Spec() Spec {
	return Spec{
		RequiredArgs: 1,
		OptionalArgs: 2,
		Options: map[string]OptionValidator{
			"width":  PositiveInt,
			"height": PositiveInt,
			"title":  Unchanged,
		},
	}
}

// Run renders the player bound to the identifier argument.
func (s *Shellcast) Run(inv Invocation) []Fragment {
	data := ShellcastData{
		Width:  inv.Options.Int("width", DefaultShellcastWidth),
		Height: inv.Options.Int("height", DefaultShellcastHeight),
		Title:  inv.Options.String("title", DefaultShellcastTitle),
	}
	if len(inv.Args) > 0 {
		data.ID = strings.TrimSpace(inv.Args[0])
	}

	var buf strings.Builder
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil
	}
	return []Fragment{Fragment(buf.String())}
}

// RegisterShellcast publishes h under every ShellcastNames alias.
func RegisterShellcast(r *Registry, h *Shellcast) {
	spec := h.Spec()
	for _, name := range ShellcastNames {
		r.Register(name, spec, h)
	}
}
