package scenario

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/petrijr/pointer"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

// Player applies scenarios to a stage. Applying again replaces the previous
// scenario: every actor is reset, elements and actors that disappeared are
// removed, and each actor replays its steps from the start.
type Player struct {
	stage  *pointer.Stage
	doc    *memdoc.Document
	logger *slog.Logger

	mu       sync.Mutex
	elements map[string]bool
	current  string
}

// NewPlayer returns a Player that creates elements on doc and actors on
// stage. doc must be the stage's document.
func NewPlayer(stage *pointer.Stage, doc *memdoc.Document, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		stage:    stage,
		doc:      doc,
		logger:   logger,
		elements: make(map[string]bool),
	}
}

// Current returns the name of the last applied scenario.
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Apply resets the stage and plays s.
func (p *Player) Apply(s *Scenario) error {
	scripts := make(map[string]*pointer.Script, len(s.Actors))
	for _, def := range s.Actors {
		script, err := def.Script()
		if err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		scripts[def.ID] = script
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stage.ResetAll()
	for _, a := range p.stage.Actors() {
		if _, keep := scripts[a.ID()]; !keep {
			p.stage.Remove(a.ID())
			p.doc.Remove(a.Element())
		}
	}

	next := make(map[string]bool, len(s.Elements))
	for _, el := range s.Elements {
		next[el.ID] = true
	}
	for id := range p.elements {
		if next[id] {
			continue
		}
		if n, ok := p.doc.Lookup(id); ok {
			p.doc.Remove(n)
		}
	}
	for _, el := range s.Elements {
		p.doc.Add(el.ID, el.Rect(), p.nodeOptions(el)...)
	}
	p.elements = next

	if s.Viewport != nil && s.Viewport.Width > 0 && s.Viewport.Height > 0 {
		p.doc.Resize(s.Viewport.Width, s.Viewport.Height)
	}

	for _, def := range s.Actors {
		a := p.stage.NewActor(pointer.Options{ID: def.ID})
		scripts[def.ID].Play(a)
	}

	p.current = s.Name
	p.logger.Info("scenario_applied",
		slog.String("scenario", s.Name),
		slog.Int("elements", len(s.Elements)),
		slog.Int("actors", len(s.Actors)),
	)
	return nil
}

func (p *Player) nodeOptions(el Element) []memdoc.NodeOption {
	var opts []memdoc.NodeOption
	if el.Tag != "" {
		opts = append(opts, memdoc.Tag(el.Tag))
	}
	if len(el.Class) > 0 {
		opts = append(opts, memdoc.Class(el.Class...))
	}
	if el.Text != "" {
		opts = append(opts, memdoc.Text(el.Text))
	}
	for k, v := range el.Attrs {
		opts = append(opts, memdoc.Attr(k, v))
	}
	if el.Parent != "" {
		if parent, ok := p.doc.Lookup(el.Parent); ok {
			opts = append(opts, memdoc.Parent(parent))
		}
	}
	return opts
}
