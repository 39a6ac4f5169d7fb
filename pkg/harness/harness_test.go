package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: minimal
steps:
  - new_object:
      name: obj
`))
	require.NoError(t, err)
	assert.Equal(t, "minimal", sc.Name)
	require.Len(t, sc.Steps, 1)
	require.NotNil(t, sc.Steps[0].NewObject)
	assert.Equal(t, "obj", sc.Steps[0].NewObject.Name)
}

func TestParseScenarioRequiresName(t *testing.T) {
	_, err := ParseScenario([]byte("steps: []"))
	assert.Error(t, err)
}

func TestParseScenarioBadYAML(t *testing.T) {
	_, err := ParseScenario([]byte("steps: ["))
	assert.Error(t, err)
}

func TestDescriptorScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: descriptor rules
steps:
  - new_object:
      name: obj
  - define:
      on: obj
      key: p
      descriptor:
        value: 100
        writable: true
        enumerable: true
        configurable: true
  - define:
      on: obj
      key: p
      descriptor:
        value: 200
  - get:
      on: obj
      key: p
      expect: 200
  - define:
      on: obj
      key: frozen
      descriptor:
        value: 1
        writable: false
        enumerable: false
        configurable: false
  - define:
      on: obj
      key: frozen
      descriptor:
        value: 2
      expect: fail
  - define:
      on: obj
      key: frozen
      descriptor:
        value: 2
      throw: true
      expect: throw
`))
	require.NoError(t, err)
	require.NoError(t, NewRunner().Run(sc))
}

func TestBatchDefineScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: batch define resets defaults
steps:
  - new_object:
      name: obj
  - define:
      on: obj
      key: p
      descriptor:
        value: 100
        writable: true
        enumerable: true
        configurable: true
  - define:
      on: obj
      key: p
      batch: true
      descriptor:
        configurable: true
  - get:
      on: obj
      key: p
      expect:
        undefined: true
`))
	require.NoError(t, err)
	require.NoError(t, NewRunner().Run(sc))
}

func TestArrayLengthScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: array shrink stops at pinned index
steps:
  - new_array:
      name: arr
      elements: [10, 11, 12, 13, 14]
  - define:
      on: arr
      key: "2"
      descriptor:
        configurable: false
  - set:
      on: arr
      key: length
      value: 1
      expect: fail
  - get:
      on: arr
      key: length
      expect: 3
  - get:
      on: arr
      key: "2"
      expect: 12
  - get:
      on: arr
      key: "4"
      expect:
        undefined: true
`))
	require.NoError(t, err)
	require.NoError(t, NewRunner().Run(sc))
}

func TestPrototypeScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: prototype chain and cycle rejection
steps:
  - new_object:
      name: proto
  - define:
      on: proto
      key: inherited
      descriptor:
        value: 7
        writable: true
        enumerable: true
        configurable: true
  - new_object:
      name: obj
      proto: proto
  - get:
      on: obj
      key: inherited
      expect: 7
  - set_proto:
      on: proto
      proto: obj
      expect: fail
`))
	require.NoError(t, err)
	require.NoError(t, NewRunner().Run(sc))
}

func TestOwnKeysAndIterateScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: key order and iteration
steps:
  - new_object:
      name: obj
  - define:
      on: obj
      key: b
      descriptor: {value: 1, writable: true, enumerable: true, configurable: true}
  - define:
      on: obj
      key: "0"
      descriptor: {value: 2, writable: true, enumerable: true, configurable: true}
  - own_keys:
      on: obj
      expect: ["0", "b"]
  - iterate:
      over: obj
      keys: true
      expect: ["0", "b"]
  - new_array:
      name: arr
      elements: [1, 2]
  - iterate:
      over: arr
      expect: ["1", "2"]
`))
	require.NoError(t, err)
	require.NoError(t, NewRunner().Run(sc))
}

func TestStepFailureIsWrappedWithContext(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong expectation
steps:
  - new_object:
      name: obj
  - get:
      on: obj
      key: missing
      expect: 1
`))
	require.NoError(t, err)
	err = NewRunner().Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong expectation")
	assert.Contains(t, err.Error(), "step 2")
}

func TestUnknownObjectFails(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: unknown object
steps:
  - get:
      on: ghost
      key: x
      expect: 1
`))
	require.NoError(t, err)
	assert.Error(t, NewRunner().Run(sc))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: from file
steps:
  - new_object:
      name: obj
  - set:
      on: obj
      key: x
      value: hello
  - get:
      on: obj
      key: x
      expect: hello
`), 0o644))
	require.NoError(t, NewRunner().RunFile(path))

	err := NewRunner().RunFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
