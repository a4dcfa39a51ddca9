package models

import "sportsstore/validation"

type ResultKind int

const (
	ViewResult ResultKind = iota
	RedirectResult
)

// ActionResult tells the HTTP layer what to render for an operation.
// An empty ViewName means the default view of the operation.
type ActionResult struct {
	Kind     ResultKind
	ViewName string
	Model    interface{}
	State    validation.ModelState
	Action   string
	Params   map[string]string
}

func ShowView(name string, model interface{}, state validation.ModelState) ActionResult {
	return ActionResult{Kind: ViewResult, ViewName: name, Model: model, State: state}
}

func Redirect(action string, params map[string]string) ActionResult {
	return ActionResult{Kind: RedirectResult, Action: action, Params: params}
}

func (r ActionResult) IsView() bool {
	return r.Kind == ViewResult
}
