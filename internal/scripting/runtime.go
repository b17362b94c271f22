// Package scripting runs tengo choreography scripts against a pointer
// stage.
//
// A script gets three globals:
//
//	actor(id)      returns a handle whose methods enqueue actions
//	element(def)  adds a node to the document: {id, left, top, width, height, class, text, tag}
//	log(args...)   writes an info record
//
// Handle methods mirror the Actor API and return the handle for chaining:
//
//	guide := actor("guide")
//	guide.show().move("#signup").annotate_until_clicked("Start here")
//	guide.move({by: [0, 40]}).pulsate_until_clicked()
package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/petrijr/pointer"
	"github.com/petrijr/pointer/internal/scenario"
	"github.com/petrijr/pointer/pkg/api"
	"github.com/petrijr/pointer/pkg/surface/memdoc"
)

// Runtime compiles and runs scripts. Scripts only enqueue work; the stage's
// scheduler plays it.
type Runtime struct {
	stage  *pointer.Stage
	doc    *memdoc.Document
	logger *slog.Logger
}

// New returns a Runtime bound to stage. doc may be nil, in which case
// element() fails.
func New(stage *pointer.Stage, doc *memdoc.Document, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runtime{stage: stage, doc: doc, logger: logger}
}

// RunFile runs the script at path.
func (r *Runtime) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting: load %s: %w", path, err)
	}
	if err := r.Run(ctx, src); err != nil {
		return fmt.Errorf("scripting: %s: %w", path, err)
	}
	return nil
}

// Replay resets every actor on the stage and runs the script at path.
func (r *Runtime) Replay(ctx context.Context, path string) error {
	r.stage.ResetAll()
	return r.RunFile(ctx, path)
}

// Run compiles and runs src.
func (r *Runtime) Run(ctx context.Context, src []byte) error {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	globals := map[string]tengo.Object{
		"actor":   &tengo.UserFunction{Name: "actor", Value: r.actorFunc},
		"element": &tengo.UserFunction{Name: "element", Value: r.elementFunc},
		"log":     &tengo.UserFunction{Name: "log", Value: r.logFunc},
	}
	for name, fn := range globals {
		if err := script.Add(name, fn); err != nil {
			return err
		}
	}

	if _, err := script.RunContext(ctx); err != nil {
		return err
	}
	return nil
}

func (r *Runtime) actorFunc(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	id, err := stringArg(args, 0, "id")
	if err != nil {
		return nil, err
	}
	return newHandle(r.stage.NewActor(pointer.Options{ID: id})), nil
}

func (r *Runtime) elementFunc(args ...tengo.Object) (tengo.Object, error) {
	if r.doc == nil {
		return nil, fmt.Errorf("element: no document attached")
	}
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	def, ok := objectToAny(args[0]).(map[string]any)
	if !ok {
		return nil, &tengo.ErrInvalidArgumentType{Name: "def", Expected: "map", Found: args[0].TypeName()}
	}
	id, _ := def["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("element: missing id")
	}

	rect := api.Rect{
		Left:   number(def["left"]),
		Top:    number(def["top"]),
		Width:  number(def["width"]),
		Height: number(def["height"]),
	}
	var opts []memdoc.NodeOption
	if text, ok := def["text"].(string); ok {
		opts = append(opts, memdoc.Text(text))
	}
	if tag, ok := def["tag"].(string); ok {
		opts = append(opts, memdoc.Tag(tag))
	}
	switch c := def["class"].(type) {
	case string:
		opts = append(opts, memdoc.Class(strings.Fields(c)...))
	case []any:
		for _, v := range c {
			if s, ok := v.(string); ok {
				opts = append(opts, memdoc.Class(s))
			}
		}
	}
	r.doc.Add(id, rect, opts...)
	return &tengo.String{Value: id}, nil
}

func (r *Runtime) logFunc(args ...tengo.Object) (tengo.Object, error) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, objectAsString(a))
	}
	r.logger.Info("script_log", slog.String("message", strings.Join(parts, " ")))
	return tengo.UndefinedValue, nil
}

// newHandle exposes one actor to scripts. Every method returns the handle.
func newHandle(a *pointer.Actor) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"id": &tengo.String{Value: a.ID()},
	}
	obj := &tengo.ImmutableMap{Value: values}

	method := func(name string, fn func(args []tengo.Object) error) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if err := fn(args); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return obj, nil
		}}
	}

	method("move", func(args []tengo.Object) error {
		dest, err := requiredTarget(args)
		if err == nil {
			a.Move(dest)
		}
		return err
	})
	method("teleport", func(args []tengo.Object) error {
		dest, err := requiredTarget(args)
		if err == nil {
			a.Teleport(dest)
		}
		return err
	})
	method("click", func(args []tengo.Object) error {
		dest, err := optionalTarget(args)
		if err == nil {
			a.Click(dest...)
		}
		return err
	})
	method("double_click", func(args []tengo.Object) error {
		dest, err := optionalTarget(args)
		if err == nil {
			a.DoubleClick(dest...)
		}
		return err
	})
	method("real_click", func(args []tengo.Object) error {
		sel, err := stringArg(args, 0, "selector")
		if err == nil {
			a.RealClick(sel)
		}
		return err
	})
	method("pulsate", func(args []tengo.Object) error {
		on := len(args) == 0 || !args[0].IsFalsy()
		a.Pulsate(on)
		return nil
	})
	method("pulsate_until_clicked", func(args []tengo.Object) error {
		dest, err := optionalTarget(args)
		if err == nil {
			a.PulsateUntilClicked(dest...)
		}
		return err
	})
	method("annotate", func(args []tengo.Object) error {
		in, err := annotation(args, true)
		if err == nil {
			a.Annotate(in)
		}
		return err
	})
	method("annotate_until_clicked", func(args []tengo.Object) error {
		in, err := annotation(args, false)
		if err == nil {
			a.AnnotateUntilClicked(in)
		}
		return err
	})
	method("wait", func(args []tengo.Object) error {
		event := "click"
		if len(args) > 0 {
			event = objectAsString(args[0])
		}
		var sel []string
		if len(args) > 1 {
			sel = append(sel, objectAsString(args[1]))
		}
		a.WaitForEvent(event, sel...)
		return nil
	})
	method("delay", func(args []tengo.Object) error {
		d, err := durationArg(args)
		if err == nil {
			a.Delay(d)
		}
		return err
	})
	method("show", func([]tengo.Object) error { a.Show(); return nil })
	method("hide", func([]tengo.Object) error { a.Hide(); return nil })
	method("pause", func([]tengo.Object) error { a.Pause(); return nil })
	method("resume", func([]tengo.Object) error { a.Resume(); return nil })
	method("reset", func([]tengo.Object) error { a.Reset(); return nil })

	return obj
}

func requiredTarget(args []tengo.Object) (api.MoveArgs, error) {
	if len(args) != 1 {
		return api.MoveArgs{}, tengo.ErrWrongNumArguments
	}
	return targetArg(args[0])
}

func optionalTarget(args []tengo.Object) ([]api.MoveArgs, error) {
	if len(args) == 0 {
		return nil, nil
	}
	dest, err := requiredTarget(args)
	if err != nil {
		return nil, err
	}
	return []api.MoveArgs{dest}, nil
}

// targetArg accepts a selector string or a map with the same keys as a
// scenario target.
func targetArg(obj tengo.Object) (api.MoveArgs, error) {
	switch v := objectToAny(obj).(type) {
	case string:
		return api.To(v), nil
	case map[string]any:
		var t scenario.Target
		if s, ok := v["selector"].(string); ok {
			t.Selector = s
		}
		t.Left = optionalNumber(v, "left")
		t.Top = optionalNumber(v, "top")
		t.X = optionalNumber(v, "x")
		t.Y = optionalNumber(v, "y")
		t.DX = number(v["dx"])
		t.DY = number(v["dy"])
		if by, ok := v["by"].([]any); ok {
			for _, n := range by {
				t.By = append(t.By, number(n))
			}
		}
		return t.MoveArgs()
	default:
		return api.MoveArgs{}, &tengo.ErrInvalidArgumentType{Name: "target", Expected: "string or map", Found: obj.TypeName()}
	}
}

// annotation converts a string, a map or (when allowBool is set) a bool.
func annotation(args []tengo.Object, allowBool bool) (any, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	switch v := objectToAny(args[0]).(type) {
	case string:
		return v, nil
	case bool:
		if allowBool {
			return v, nil
		}
	case map[string]any:
		o := api.Overlay{}
		o.Title, _ = v["title"].(string)
		o.Content, _ = v["content"].(string)
		o.Placement, _ = v["placement"].(string)
		o.Trigger, _ = v["trigger"].(string)
		return o, nil
	}
	return nil, fmt.Errorf("%w: %s", api.ErrInvalidAnnotationInput, args[0].TypeName())
}

func stringArg(args []tengo.Object, i int, name string) (string, error) {
	if len(args) <= i {
		return "", tengo.ErrWrongNumArguments
	}
	s, ok := args[i].(*tengo.String)
	if !ok || s.Value == "" {
		return "", &tengo.ErrInvalidArgumentType{Name: name, Expected: "non-empty string", Found: args[i].TypeName()}
	}
	return s.Value, nil
}

// durationArg accepts milliseconds as a number or a Go duration string.
func durationArg(args []tengo.Object) (time.Duration, error) {
	if len(args) != 1 {
		return 0, tengo.ErrWrongNumArguments
	}
	switch v := objectToAny(args[0]).(type) {
	case string:
		return time.ParseDuration(v)
	case int, float64:
		return time.Duration(number(v) * float64(time.Millisecond)), nil
	default:
		return 0, &tengo.ErrInvalidArgumentType{Name: "duration", Expected: "int or string", Found: args[0].TypeName()}
	}
}

func optionalNumber(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}
	n := number(v)
	return &n
}

func number(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
