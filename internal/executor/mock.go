package executor

import "context"

// MockRunner is a scriptable Runner for tests. It records every call and
// replays results from RunFunc, or from the Results table keyed by command
// name, falling back to a clean zero exit.
type MockRunner struct {
	RunFunc      func(name string, args ...string) (Result, error)
	LookPathFunc func(file string) (string, error)

	// Results maps a command name to a fixed result, consulted when
	// RunFunc is nil.
	Results map[string]Result

	Calls []Call
}

// Call records a command execution for verification.
type Call struct {
	Name  string
	Args  []string
	Input string
}

// Run records the call and replays the scripted result.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	return m.dispatch(Call{Name: name, Args: args})
}

// RunInput records the call, including its stdin payload.
func (m *MockRunner) RunInput(ctx context.Context, input, name string, args ...string) (Result, error) {
	return m.dispatch(Call{Name: name, Args: args, Input: input})
}

func (m *MockRunner) dispatch(call Call) (Result, error) {
	m.Calls = append(m.Calls, call)
	if m.RunFunc != nil {
		return m.RunFunc(call.Name, call.Args...)
	}
	if res, ok := m.Results[call.Name]; ok {
		return res, nil
	}
	return Result{}, nil
}

// LookPath replays the scripted lookup, defaulting to /usr/bin/<file>.
func (m *MockRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// CalledWith reports whether any recorded call ran the named program with
// the given leading arguments.
func (m *MockRunner) CalledWith(name string, args ...string) bool {
	for _, c := range m.Calls {
		if c.Name != name || len(c.Args) < len(args) {
			continue
		}
		match := true
		for i, a := range args {
			if c.Args[i] != a {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
