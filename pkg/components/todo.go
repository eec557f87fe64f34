package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/core"
)

// TodoTag is the registration tag for TodoApp.
const TodoTag = "todo-app"

// Todo is one entry in a TodoApp.
type Todo struct {
	Text     string `json:"text"`
	Finished bool   `json:"finished"`
}

// TodoApp is a todo list. Edits replace the list rather than mutate it in
// place. The list reflects to the "todos" attribute as JSON and compares by
// content, so re-reading the same JSON is not a change.
type TodoApp struct {
	core.ComponentBase
	todos *core.Prop[[]Todo]
}

func (a *TodoApp) Init(h *core.Host) {
	a.todos = core.NewProp(h, "todos", []Todo{
		{Text: "Do A", Finished: true},
		{Text: "Do B"},
		{Text: "Do C"},
	}, core.PropertyOptions{
		Reflect:   true,
		Converter: attr.JSON[[]Todo](),
		Equal:     equalTodos,
	})
}

func (a *TodoApp) Render(core.Props) (core.RenderOutput, error) {
	var sb strings.Builder
	for i, todo := range a.todos.Get() {
		mark := " "
		if todo.Finished {
			mark = "x"
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, mark, todo.Text)
	}
	finished, unfinished := a.Totals()
	fmt.Fprintf(&sb, "Total finished: %d\nTotal unfinished: %d", finished, unfinished)
	return sb.String(), nil
}

// Add appends an unfinished todo. Blank text is ignored.
func (a *TodoApp) Add(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	a.todos.Set(append(slices.Clone(a.todos.Get()), Todo{Text: text}))
}

// Remove deletes the todo at i.
func (a *TodoApp) Remove(i int) {
	todos := a.todos.Get()
	if i < 0 || i >= len(todos) {
		return
	}
	a.todos.Set(slices.Delete(slices.Clone(todos), i, i+1))
}

// SetFinished marks the todo at i finished or not.
func (a *TodoApp) SetFinished(i int, finished bool) {
	todos := a.todos.Get()
	if i < 0 || i >= len(todos) || todos[i].Finished == finished {
		return
	}
	next := slices.Clone(todos)
	next[i].Finished = finished
	a.todos.Set(next)
}

// Todos returns the current list.
func (a *TodoApp) Todos() []Todo {
	return a.todos.Get()
}

// Totals returns the number of finished and unfinished todos.
func (a *TodoApp) Totals() (finished, unfinished int) {
	for _, todo := range a.todos.Get() {
		if todo.Finished {
			finished++
		}
	}
	return finished, len(a.todos.Get()) - finished
}

func equalTodos(a, b any) bool {
	x, _ := a.([]Todo)
	y, _ := b.([]Todo)
	return slices.Equal(x, y) && (a == nil) == (b == nil)
}
