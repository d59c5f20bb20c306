package compiler

import (
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"mech/internal/kernel"
	"mech/internal/value"
)

// goldenScenarios bundles one txtar archive per round-trip scenario: a
// "scenario.txt" file naming the native function and its two scalar
// arguments, and a "want.txt" file naming the header-derived fields
// the compiled-then-Read-back program must report. One archive per
// scenario is the standard Go-ecosystem way of keeping several named
// fixture files together in one text blob, used here instead of a
// directory-per-fixture.
var goldenScenarios = []string{
	`-- scenario.txt --
fn=math/add
lhs=I64:2
rhs=I64:3
-- want.txt --
reg_count=1
instr_count=1
const_count=2
`,
	`-- scenario.txt --
fn=math/mul
lhs=F64:1.5
rhs=F64:2
-- want.txt --
reg_count=1
instr_count=1
const_count=2
`,
}

func parseGoldenKV(data []byte) map[string]string {
	kv := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		kv[parts[0]] = parts[1]
	}
	return kv
}

func parseGoldenScalar(t *testing.T, s string) value.Value {
	t.Helper()
	parts := strings.SplitN(s, ":", 2)
	switch parts[0] {
	case "I64":
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			t.Fatalf("parseGoldenScalar(%q): %v", s, err)
		}
		return value.I64(n)
	case "F64":
		f, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			t.Fatalf("parseGoldenScalar(%q): %v", s, err)
		}
		return value.F64(f)
	default:
		t.Fatalf("parseGoldenScalar(%q): unknown scalar kind %q", s, parts[0])
		return nil
	}
}

func TestGoldenBytecodeScenarios(t *testing.T) {
	for i, src := range goldenScenarios {
		ar := txtar.Parse([]byte(src))
		var scenario, want map[string]string
		for _, f := range ar.Files {
			switch f.Name {
			case "scenario.txt":
				scenario = parseGoldenKV(f.Data)
			case "want.txt":
				want = parseGoldenKV(f.Data)
			}
		}
		if scenario == nil || want == nil {
			t.Fatalf("scenario %d: archive missing scenario.txt or want.txt", i)
		}

		fnName := scenario["fn"]
		lhs := parseGoldenScalar(t, scenario["lhs"])
		rhs := parseGoldenScalar(t, scenario["rhs"])

		c, ok := kernel.StandardRegistry().Lookup(fnName)
		if !ok {
			t.Fatalf("scenario %d: %s not registered", i, fnName)
		}
		k, err := c.Compile([]value.Value{lhs, rhs})
		if err != nil {
			t.Fatalf("scenario %d: kernel Compile: %v", i, err)
		}

		buf, err := Compile([]Call{{Name: fnName, Args: []value.Value{lhs, rhs}, Kernel: k}})
		if err != nil {
			t.Fatalf("scenario %d: Compile: %v", i, err)
		}
		prog, err := Read(buf)
		if err != nil {
			t.Fatalf("scenario %d: Read: %v", i, err)
		}

		wantRegCount, _ := strconv.Atoi(want["reg_count"])
		wantInstrCount, _ := strconv.Atoi(want["instr_count"])
		wantConstCount, _ := strconv.Atoi(want["const_count"])

		if int(prog.RegCount) != wantRegCount {
			t.Errorf("scenario %d (%s): RegCount = %d, want %d", i, fnName, prog.RegCount, wantRegCount)
		}
		if len(prog.Instructions) != wantInstrCount {
			t.Errorf("scenario %d (%s): len(Instructions) = %d, want %d", i, fnName, len(prog.Instructions), wantInstrCount)
		}
		if len(prog.Consts.Entries) != wantConstCount {
			t.Errorf("scenario %d (%s): len(Consts.Entries) = %d, want %d", i, fnName, len(prog.Consts.Entries), wantConstCount)
		}
	}
}
