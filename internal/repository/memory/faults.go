package memory

import "sync"

// Faults injects failures into store and blob operations and counts calls.
// Ops are named "<collection>.<method>" ("notes.get", "folders.delete") or
// "blobs.<method>". A failure registered for "op:key" (key being a document
// id or blob path) wins over one registered for the bare op.
type Faults struct {
	mu    sync.Mutex
	errs  map[string]error
	hooks map[string]func()
	calls map[string]int
}

func newFaults() *Faults {
	return &Faults{
		errs:  make(map[string]error),
		hooks: make(map[string]func()),
		calls: make(map[string]int),
	}
}

// Fail makes every call to op (or "op:key") return err until cleared.
func (f *Faults) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

// Clear removes a failure registered with Fail.
func (f *Faults) Clear(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.errs, op)
}

// OnCall runs fn at the start of every call to op, before the store lock is
// taken. Tests use it to hold an operation in flight.
func (f *Faults) OnCall(op string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fn == nil {
		delete(f.hooks, op)
		return
	}
	f.hooks[op] = fn
}

// Calls returns how many times op was invoked.
func (f *Faults) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Faults) hit(op, key string) error {
	f.mu.Lock()
	f.calls[op]++
	hook := f.hooks[op]
	err, ok := f.errs[op+":"+key]
	if !ok {
		err = f.errs[op]
	}
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}
