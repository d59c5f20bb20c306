// Package schedule implements Mech's BlockGraph and Schedule, grounded
// almost line-for-line on original_source/src/core/src/schedule.rs.
// The original represents graph edges with Rc<RefCell<Node>> shared
// ownership; Go has no borrow checker forcing that indirection, so
// nodes here are plain pointers guarded by the package being
// single-threaded per spec.md section 5 (cooperative scheduling, no
// concurrent mutation of one Schedule).
package schedule

import (
	"github.com/kr/pretty"
	"github.com/rs/zerolog"

	"mech/internal/block"
	mecherrors "mech/internal/errors"
	"mech/internal/register"
)

var log = zerolog.Nop()

// SetLogger installs the package-level diagnostic logger (for example one
// built by internal/logging.New); until it is called the logger is a no-op.
func SetLogger(l zerolog.Logger) { log = l }

// Node is one block's position in a BlockGraph: its Block plus the
// parent/child edges discovered during schedule_blocks (original's
// Node struct).
type Node struct {
	Block    *block.Block
	Parents  []*Node
	Children []*Node
}

func newNode(b *block.Block) *Node { return &Node{Block: b} }

func (n *Node) addChild(child *Node) {
	n.Children = append(n.Children, child)
	child.Parents = append(child.Parents, n)
}

// recompile rebuilds this node's block and every descendant's block, in
// that order — mirrors Node::recompile.
func (n *Node) recompile(plans map[uint64][]block.Step) {
	n.Block.Recompile(plans[n.Block.ID])
	for _, c := range n.Children {
		c.recompile(plans)
	}
}

// solve runs this node's block then every descendant, depth-first, the
// same order the original's Node::solve uses.
func (n *Node) solve() error {
	if err := n.Block.Solve(); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.solve(); err != nil {
			return err
		}
	}
	return nil
}

// output returns this node's own output registers (no recursion).
func (n *Node) output() []register.Register { return n.Block.Output }

// outputRecurse collects the output registers of every descendant,
// mirroring Node::output_recurse.
func (n *Node) outputRecurse() []register.Register {
	seen := map[string]register.Register{}
	for _, c := range n.Children {
		for _, r := range c.output() {
			seen[r.Key()] = r
		}
		for _, r := range c.outputRecurse() {
			seen[r.Key()] = r
		}
	}
	out := make([]register.Register, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	return out
}

// aggregateOutput is this node's own output unioned with every
// descendant's output — mirrors Node::aggregate_output, and is exactly
// the set of registers one trigger firing will eventually touch.
func (n *Node) aggregateOutput() []register.Register {
	seen := map[string]register.Register{}
	for _, r := range n.output() {
		seen[r.Key()] = r
	}
	for _, r := range n.outputRecurse() {
		seen[r.Key()] = r
	}
	out := make([]register.Register, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	return out
}

// BlockGraph is a DAG rooted at one block, built during schedule_blocks
// and walked by run_schedule (original's BlockGraph).
type BlockGraph struct {
	Root *Node
}

func newBlockGraph(b *block.Block) *BlockGraph {
	return &BlockGraph{Root: newNode(b)}
}

func (g *BlockGraph) addChild(other *BlockGraph) { g.Root.addChild(other.Root) }

// Solve runs the graph's root block then every descendant.
func (g *BlockGraph) Solve() error { return g.Root.solve() }

// Recompile rebuilds every block in the graph from plans (ID -> Plan).
func (g *BlockGraph) Recompile(plans map[uint64][]block.Step) { g.Root.recompile(plans) }

// Schedule is the scheduler's whole state: four register-keyed indexes
// plus the blocks still waiting to be scheduled (original's Schedule
// struct, field-for-field).
type Schedule struct {
	triggerToBlocks map[string][]*BlockGraph
	inputToBlocks   map[string][]*BlockGraph
	outputToBlocks  map[string][]*BlockGraph
	triggerToOutput map[string][]register.Register
	schedules       map[string][]*BlockGraph

	registers        map[string]register.Register // key -> the Register it was derived from, for lookups
	unscheduledBlocks []*block.Block
}

// New builds an empty Schedule.
func New() *Schedule {
	return &Schedule{
		triggerToBlocks: map[string][]*BlockGraph{},
		inputToBlocks:   map[string][]*BlockGraph{},
		outputToBlocks:  map[string][]*BlockGraph{},
		triggerToOutput: map[string][]register.Register{},
		schedules:       map[string][]*BlockGraph{},
		registers:       map[string]register.Register{},
	}
}

// AddBlock enqueues a block to be picked up on the next ScheduleBlocks
// call, mirroring Schedule::add_block.
func (s *Schedule) AddBlock(b *block.Block) {
	s.unscheduledBlocks = append(s.unscheduledBlocks, b)
}

func (s *Schedule) remember(r register.Register) { s.registers[r.Key()] = r }

// ScheduleBlocks drains every Ready block out of the unscheduled queue,
// builds a one-node BlockGraph for each, wires parent/child edges from
// the existing trigger/output indexes, and recomputes trigger_to_output
// for every known trigger register — a direct port of
// Schedule::schedule_blocks.
func (s *Schedule) ScheduleBlocks() error {
	if len(s.unscheduledBlocks) == 0 {
		return nil
	}

	var ready []*block.Block
	var stillWaiting []*block.Block
	for _, b := range s.unscheduledBlocks {
		if b.State == block.Ready {
			ready = append(ready, b)
		} else {
			stillWaiting = append(stillWaiting, b)
		}
	}
	s.unscheduledBlocks = stillWaiting

	for _, b := range ready {
		graph := newBlockGraph(b)

		for _, t := range b.Triggers {
			s.remember(t)
			key := t.Key()
			s.triggerToBlocks[key] = append(s.triggerToBlocks[key], graph)
			s.schedules[key] = append(s.schedules[key], graph)

			// A trigger overlaps a producer's output register whenever
			// Register.Matches says so — honoring All wildcards on
			// either side, not just an exact Table match, so a block
			// declaring a (table, All, All) trigger picks up every
			// producer of that table's cells as a parent.
			for outKey, producers := range s.outputToBlocks {
				out, ok := s.registers[outKey]
				if !ok || !out.Matches(t) {
					continue
				}
				for _, p := range producers {
					p.addChild(graph)
				}
			}
		}

		for _, in := range b.Input {
			s.remember(in)
			key := in.Key()
			s.inputToBlocks[key] = append(s.inputToBlocks[key], graph)
		}

		for _, out := range b.Output {
			s.remember(out)
			key := out.Key()
			s.outputToBlocks[key] = append(s.outputToBlocks[key], graph)
			// Mirror image of the trigger-wiring loop above: link this
			// producer as a parent of every already-scheduled block
			// whose trigger register overlaps out.
			for triggerKey, consumers := range s.triggerToBlocks {
				trig, ok := s.registers[triggerKey]
				if !ok || !trig.Matches(out) {
					continue
				}
				for _, c := range consumers {
					graph.addChild(c)
				}
			}
		}

		log.Debug().Uint64("block", b.ID).Msg("scheduled block")
	}

	for key, graphs := range s.schedules {
		seen := map[string]register.Register{}
		for _, g := range graphs {
			for _, r := range g.Root.aggregateOutput() {
				seen[r.Key()] = r
			}
		}
		out := make([]register.Register, 0, len(seen))
		for _, r := range seen {
			out = append(out, r)
		}
		s.triggerToOutput[key] = out
	}

	return nil
}

// RunSchedule runs every BlockGraph rooted at a block whose Triggers
// overlap r (Block.TriggersOn). Graphs stored under the same trigger key
// run in the order they were scheduled; the relative order of graphs
// stored under different matching trigger keys is not defined, since the
// keys are visited in map order. This is a
// direct port of Schedule::run_schedule, generalized from an exact
// Key() lookup to honor All wildcards: a block declaring a (table,
// All, All) trigger must fire from a concrete write to any one of that
// table's cells, which an exact string-key match on r.Key() can never
// produce since the stored key reads "...:*:*" and r's reads
// "...:3:1". Cascades within those graphs propagate depth-first, so a
// block reachable from r through two different parents still solves
// exactly once per call, since it is only a child of the Node(s) that
// produced its input and is walked from there just once in this DAG
// structure; the seen set below further guards against the same graph
// being indexed under more than one matching trigger key.
func (s *Schedule) RunSchedule(r register.Register) error {
	seen := map[*BlockGraph]bool{}
	ran := false
	for _, graphs := range s.schedules {
		for _, g := range graphs {
			if seen[g] || !g.Root.Block.TriggersOn(r) {
				continue
			}
			seen[g] = true
			ran = true
			if err := g.Solve(); err != nil {
				return err
			}
		}
	}
	if !ran {
		return mecherrors.New(mecherrors.GenericError, "no schedule associated with %s", r)
	}
	return nil
}

// TriggerToOutput returns the full set of registers that firing r would
// eventually touch, per the precomputed transitive closure.
func (s *Schedule) TriggerToOutput(r register.Register) []register.Register {
	return s.triggerToOutput[r.Key()]
}

// Dump renders a deep structural dump of the schedule's indexes and
// every BlockGraph/Node/Block/Plan they hold, via github.com/kr/pretty,
// for debug builds and test failure output — the original's
// derive-Debug-everywhere posture, ported here instead of hand-rolling
// a recursive string-builder walk.
func (s *Schedule) Dump() string {
	return pretty.Sprint(s)
}

// Dump renders a deep structural dump of this one BlockGraph, for
// narrower debug output than Schedule.Dump when only one trigger's
// cascade is of interest.
func (g *BlockGraph) Dump() string {
	return pretty.Sprint(g)
}
