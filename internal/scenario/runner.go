package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/log"
	"github.com/mash-protocol/mesh-go/pkg/mesh"
)

// Result represents the outcome of a single scenario.
type Result struct {
	// Scenario is the scenario that was run.
	Scenario *Scenario

	// Passed indicates if setup and all steps passed.
	Passed bool

	// Error is the setup error, if any.
	Error error

	// StepResults contains results for each step.
	StepResults []*StepResult

	// Duration is how long the scenario took.
	Duration time.Duration
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	// Step is the step that was run.
	Step *Step

	// StepIndex is the index of this step (0-based).
	StepIndex int

	// Passed indicates if the step met its expectation.
	Passed bool

	// Got describes what the operation returned.
	Got string

	// Error explains why the step failed.
	Error error
}

// SuiteResult aggregates the results of several scenarios.
type SuiteResult struct {
	SuiteName string
	Results   []*Result
	PassCount int
	FailCount int
	Duration  time.Duration
}

// Runner runs scenarios against fresh networks.
type Runner struct {
	logger log.Logger
}

// NewRunner creates a runner. Allocation events of every scenario are sent
// to logger, which may be nil.
func NewRunner(logger log.Logger) *Runner {
	return &Runner{logger: logger}
}

// RunSuite runs each scenario in order.
func (r *Runner) RunSuite(name string, scenarios []*Scenario) *SuiteResult {
	start := time.Now()
	suite := &SuiteResult{SuiteName: name}
	for _, sc := range scenarios {
		res := r.Run(sc)
		suite.Results = append(suite.Results, res)
		if res.Passed {
			suite.PassCount++
		} else {
			suite.FailCount++
		}
	}
	suite.Duration = time.Since(start)
	return suite
}

// Run builds the scenario's network and runs its steps. Steps after a
// failed step are still run.
func (r *Runner) Run(sc *Scenario) *Result {
	start := time.Now()
	res := &Result{Scenario: sc}

	env, err := newEnv(sc.Network)
	if err != nil {
		res.Error = fmt.Errorf("setup: %w", err)
		res.Duration = time.Since(start)
		return res
	}
	if r.logger != nil {
		env.net.SetLogger(r.logger)
	}

	res.Passed = true
	for i := range sc.Steps {
		step := &sc.Steps[i]
		sr := &StepResult{Step: step, StepIndex: i}

		if fn, known := actions[step.Action]; known {
			got, ok, opErr := fn(env, step)
			sr.Got = describe(got, ok, opErr)
			sr.Error = check(step.Expect, got, ok, opErr)
		} else {
			sr.Error = fmt.Errorf("unknown action %q", step.Action)
		}
		sr.Passed = sr.Error == nil
		res.Passed = res.Passed && sr.Passed

		res.StepResults = append(res.StepResults, sr)
	}

	res.Duration = time.Since(start)
	return res
}

type env struct {
	net          *mesh.Network
	provisioners map[string]*mesh.Provisioner
	nodes        map[string]mesh.Node
}

func newEnv(setup NetworkSetup) (*env, error) {
	e := &env{
		net:          mesh.NewNetwork("scenario"),
		provisioners: make(map[string]*mesh.Provisioner),
		nodes:        make(map[string]mesh.Node),
	}
	e.net.SetIVIndex(mesh.IVIndex(setup.IVIndex))

	for _, ps := range setup.Provisioners {
		p := mesh.NewProvisioner(ps.Name, ps.Unicast, ps.Group, ps.Scenes)
		if !ps.Detached {
			if err := e.net.AddProvisioner(*p); err != nil {
				return nil, fmt.Errorf("provisioner %q: %w", ps.Name, err)
			}
		}
		e.provisioners[ps.Name] = p
	}
	for _, ns := range setup.Nodes {
		node := mesh.Node{UUID: uuid.New(), Name: ns.Name, UnicastAddress: ns.Address, ElementsCount: ns.Elements}
		if err := e.net.AddNode(node); err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
		e.nodes[ns.Name] = node
	}
	for _, a := range setup.Groups {
		if err := e.net.AddGroup(mesh.Group{Name: a.String(), Address: a}); err != nil {
			return nil, err
		}
	}
	for _, s := range setup.Scenes {
		if err := e.net.AddScene(s, s.String()); err != nil {
			return nil, err
		}
	}
	e.net.Exclude(setup.Excluded...)
	return e, nil
}

func (e *env) provisioner(step *Step) (*mesh.Provisioner, error) {
	p, ok := e.provisioners[step.Provisioner]
	if !ok {
		return nil, fmt.Errorf("unknown provisioner %q", step.Provisioner)
	}
	return p, nil
}

func (e *env) node(name string) (mesh.Node, error) {
	n, ok := e.nodes[name]
	if !ok {
		return mesh.Node{}, fmt.Errorf("unknown node %q", name)
	}
	return n, nil
}

type action func(e *env, step *Step) (got any, ok bool, err error)

var actions map[string]action

func init() {
	actions = map[string]action{
		"next_unicast":       nextUnicast,
		"next_group":         nextGroup,
		"next_scene":         nextScene,
		"next_group_range":   nextGroupRange,
		"next_unicast_range": nextUnicastRange,
		"next_scene_range":   nextSceneRange,
		"range_available":    rangeAvailable,
		"address_available":  addressAvailable,
		"add_node":           addNode,
		"remove_node":        removeNode,
		"provision_node":     provisionNode,
		"add_group":          addGroup,
		"remove_group":       removeGroup,
		"create_group":       createGroup,
		"add_scene":          addScene,
		"remove_scene":       removeScene,
		"register_scene":     registerScene,
		"create_scene":       createScene,
		"claim_group_range":  claimGroupRange,
		"set_iv_index":       setIVIndex,
	}
}

func nextUnicast(e *env, step *Step) (any, bool, error) {
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	offset := address.MinUnicast
	if step.Offset != nil {
		offset = *step.Offset
	}
	a, ok := e.net.NextAvailableUnicastAddress(offset, step.Elements, p)
	return a, ok, nil
}

func nextGroup(e *env, step *Step) (any, bool, error) {
	if step.Range != nil {
		a, ok := e.net.NextAvailableGroupAddressIn(*step.Range)
		return a, ok, nil
	}
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	a, ok := e.net.NextAvailableGroupAddress(p)
	return a, ok, nil
}

func nextScene(e *env, step *Step) (any, bool, error) {
	if step.SceneRange != nil {
		s, ok := e.net.NextAvailableSceneIn(*step.SceneRange)
		return s, ok, nil
	}
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	s, ok := e.net.NextAvailableScene(p)
	return s, ok, nil
}

func nextGroupRange(e *env, step *Step) (any, bool, error) {
	if step.Size == nil {
		r, ok := e.net.NextAvailableGroupAddressRangeMax()
		return r, ok, nil
	}
	r, ok := e.net.NextAvailableGroupAddressRange(*step.Size)
	return r, ok, nil
}

func nextUnicastRange(e *env, step *Step) (any, bool, error) {
	r, ok := e.net.NextAvailableUnicastAddressRange(size(step))
	return r, ok, nil
}

func nextSceneRange(e *env, step *Step) (any, bool, error) {
	r, ok := e.net.NextAvailableSceneRange(size(step))
	return r, ok, nil
}

func size(step *Step) uint16 {
	if step.Size == nil {
		return 0
	}
	return *step.Size
}

func rangeAvailable(e *env, step *Step) (any, bool, error) {
	if step.Range == nil {
		return nil, false, fmt.Errorf("range is required")
	}
	return e.net.IsAddressRangeAvailable(*step.Range), true, nil
}

func addressAvailable(e *env, step *Step) (any, bool, error) {
	if step.Address == nil {
		return nil, false, fmt.Errorf("address is required")
	}
	var excluding *mesh.Node
	if step.Node != "" {
		n, err := e.node(step.Node)
		if err != nil {
			return nil, false, err
		}
		excluding = &n
	}
	return e.net.IsAddressAvailable(*step.Address, step.Elements, excluding), true, nil
}

func addNode(e *env, step *Step) (any, bool, error) {
	if step.Address == nil {
		return nil, false, fmt.Errorf("address is required")
	}
	node := mesh.Node{UUID: uuid.New(), Name: step.Name, UnicastAddress: *step.Address, ElementsCount: step.Elements}
	if err := e.net.AddNode(node); err != nil {
		return nil, false, err
	}
	e.nodes[step.Name] = node
	return nil, true, nil
}

func removeNode(e *env, step *Step) (any, bool, error) {
	n, err := e.node(step.Node)
	if err != nil {
		return nil, false, err
	}
	return nil, true, e.net.RemoveNode(n.UUID)
}

func provisionNode(e *env, step *Step) (any, bool, error) {
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	node, err := e.net.ProvisionNode(uuid.New(), step.Name, step.Elements, p)
	if err != nil {
		return nil, false, err
	}
	e.nodes[step.Name] = node
	return node.UnicastAddress, true, nil
}

func addGroup(e *env, step *Step) (any, bool, error) {
	if step.Address == nil {
		return nil, false, fmt.Errorf("address is required")
	}
	return nil, true, e.net.AddGroup(mesh.Group{Name: step.Name, Address: *step.Address})
}

func removeGroup(e *env, step *Step) (any, bool, error) {
	if step.Address == nil {
		return nil, false, fmt.Errorf("address is required")
	}
	return nil, true, e.net.RemoveGroup(*step.Address)
}

func createGroup(e *env, step *Step) (any, bool, error) {
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	g, err := e.net.CreateGroup(step.Name, p)
	if err != nil {
		return nil, false, err
	}
	return g.Address, true, nil
}

func addScene(e *env, step *Step) (any, bool, error) {
	if step.Scene == nil {
		return nil, false, fmt.Errorf("scene is required")
	}
	return nil, true, e.net.AddScene(*step.Scene, step.Name)
}

func removeScene(e *env, step *Step) (any, bool, error) {
	if step.Scene == nil {
		return nil, false, fmt.Errorf("scene is required")
	}
	return nil, true, e.net.RemoveScene(*step.Scene)
}

func registerScene(e *env, step *Step) (any, bool, error) {
	if step.Scene == nil {
		return nil, false, fmt.Errorf("scene is required")
	}
	n, err := e.node(step.Node)
	if err != nil {
		return nil, false, err
	}
	return nil, true, e.net.RegisterScene(*step.Scene, n.UUID)
}

func createScene(e *env, step *Step) (any, bool, error) {
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	s, err := e.net.CreateScene(step.Name, p)
	if err != nil {
		return nil, false, err
	}
	return s.Number, true, nil
}

func claimGroupRange(e *env, step *Step) (any, bool, error) {
	p, err := e.provisioner(step)
	if err != nil {
		return nil, false, err
	}
	r, err := e.net.ClaimGroupRange(p.UUID, size(step))
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

func setIVIndex(e *env, step *Step) (any, bool, error) {
	if step.IVIndex == nil {
		return nil, false, fmt.Errorf("iv_index is required")
	}
	e.net.SetIVIndex(mesh.IVIndex(*step.IVIndex))
	return nil, true, nil
}

func check(exp Expect, got any, ok bool, err error) error {
	if exp.Error != "" {
		if err == nil {
			return fmt.Errorf("expected error containing %q, got none", exp.Error)
		}
		if !strings.Contains(err.Error(), exp.Error) {
			return fmt.Errorf("expected error containing %q, got %q", exp.Error, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}

	switch {
	case exp.None:
		if ok {
			return fmt.Errorf("expected nothing, got %v", got)
		}
	case exp.Address != nil:
		return expectValue(*exp.Address, got, ok)
	case exp.Range != nil:
		return expectValue(*exp.Range, got, ok)
	case exp.Scene != nil:
		return expectValue(*exp.Scene, got, ok)
	case exp.SceneRange != nil:
		return expectValue(*exp.SceneRange, got, ok)
	case exp.Available != nil:
		return expectValue(*exp.Available, got, ok)
	}
	return nil
}

func expectValue[T comparable](want T, got any, ok bool) error {
	if !ok {
		return fmt.Errorf("expected %v, got nothing", want)
	}
	if g, isT := got.(T); !isT || g != want {
		return fmt.Errorf("expected %v, got %v", want, got)
	}
	return nil
}

func describe(got any, ok bool, err error) string {
	switch {
	case err != nil:
		return "error: " + err.Error()
	case !ok:
		return "none"
	case got == nil:
		return "ok"
	default:
		return fmt.Sprint(got)
	}
}
