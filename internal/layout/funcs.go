package layout

// Funcs is an inline strategy built from optional hooks. Each nil hook
// falls back to the matching Default hook on its own.
type Funcs struct {
	SetupFunc    func(ctx Context)
	TeardownFunc func(ctx Context)
	InsertFunc   func(ctx Context, confirm Confirm) Result
	RemoveFunc   func(ctx Context, confirm Confirm) Result
	SelectFunc   func(ctx Context, confirm Confirm) Result
	MoveFunc     func(ctx Context, confirm Confirm) Result
}

var _ Strategy = Funcs{}

func (f Funcs) Setup(ctx Context) {
	if f.SetupFunc == nil {
		Default.Setup(ctx)
		return
	}
	f.SetupFunc(ctx)
}

func (f Funcs) Teardown(ctx Context) {
	if f.TeardownFunc == nil {
		Default.Teardown(ctx)
		return
	}
	f.TeardownFunc(ctx)
}

func (f Funcs) Insert(ctx Context, confirm Confirm) Result {
	if f.InsertFunc == nil {
		return Default.Insert(ctx, confirm)
	}
	return f.InsertFunc(ctx, confirm)
}

func (f Funcs) Remove(ctx Context, confirm Confirm) Result {
	if f.RemoveFunc == nil {
		return Default.Remove(ctx, confirm)
	}
	return f.RemoveFunc(ctx, confirm)
}

func (f Funcs) Select(ctx Context, confirm Confirm) Result {
	if f.SelectFunc == nil {
		return Default.Select(ctx, confirm)
	}
	return f.SelectFunc(ctx, confirm)
}

func (f Funcs) Move(ctx Context, confirm Confirm) Result {
	if f.MoveFunc == nil {
		return Default.Move(ctx, confirm)
	}
	return f.MoveFunc(ctx, confirm)
}
