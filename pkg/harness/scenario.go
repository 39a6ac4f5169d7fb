package harness

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is one declarative test file: named steps driving the
// runtime's programmatic surface and asserting outcomes.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single operation. Exactly one of the op fields should be
// set; the runner rejects empty or ambiguous steps.
type Step struct {
	NewObject *NewObjectStep `yaml:"new_object,omitempty"`
	NewArray  *NewArrayStep  `yaml:"new_array,omitempty"`
	Define    *DefineStep    `yaml:"define,omitempty"`
	Set       *SetStep       `yaml:"set,omitempty"`
	Get       *GetStep       `yaml:"get,omitempty"`
	Delete    *DeleteStep    `yaml:"delete,omitempty"`
	SetProto  *SetProtoStep  `yaml:"set_proto,omitempty"`
	OwnKeys   *OwnKeysStep   `yaml:"own_keys,omitempty"`
	Iterate   *IterateStep   `yaml:"iterate,omitempty"`
}

type NewObjectStep struct {
	Name  string `yaml:"name"`
	Proto string `yaml:"proto,omitempty"`
}

type NewArrayStep struct {
	Name     string        `yaml:"name"`
	Elements []interface{} `yaml:"elements,omitempty"`
}

// Descriptor mirrors the runtime's partial property descriptor; nil
// pointer fields stay unset.
type Descriptor struct {
	Value        interface{} `yaml:"value,omitempty"`
	HasValue     bool        `yaml:"has_value,omitempty"`
	Writable     *bool       `yaml:"writable,omitempty"`
	Enumerable   *bool       `yaml:"enumerable,omitempty"`
	Configurable *bool       `yaml:"configurable,omitempty"`
}

type DefineStep struct {
	On         string     `yaml:"on"`
	Key        string     `yaml:"key"`
	Descriptor Descriptor `yaml:"descriptor"`
	Batch      bool       `yaml:"batch,omitempty"`
	Throw      bool       `yaml:"throw,omitempty"`
	Expect     string     `yaml:"expect,omitempty"`
}

type SetStep struct {
	On     string      `yaml:"on"`
	Key    string      `yaml:"key"`
	Value  interface{} `yaml:"value"`
	Throw  bool        `yaml:"throw,omitempty"`
	Expect string      `yaml:"expect,omitempty"`
}

type GetStep struct {
	On     string      `yaml:"on"`
	Key    string      `yaml:"key"`
	Expect interface{} `yaml:"expect"`
}

type DeleteStep struct {
	On     string `yaml:"on"`
	Key    string `yaml:"key"`
	Throw  bool   `yaml:"throw,omitempty"`
	Expect string `yaml:"expect,omitempty"`
}

type SetProtoStep struct {
	On     string `yaml:"on"`
	Proto  string `yaml:"proto"`
	Expect string `yaml:"expect,omitempty"`
}

type OwnKeysStep struct {
	On     string   `yaml:"on"`
	Expect []string `yaml:"expect"`
}

type IterateStep struct {
	// Over names an array whose elements are iterated, or with Keys
	// set, an object whose own enumerable keys are iterated.
	Over   string   `yaml:"over"`
	Keys   bool     `yaml:"keys,omitempty"`
	Expect []string `yaml:"expect"`
}

const (
	expectOK   = "ok"
	expectFail = "fail"
)

// LoadScenario reads and parses one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading scenario %s", path)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parsing scenario")
	}
	if sc.Name == "" {
		return nil, errors.New("scenario has no name")
	}
	return &sc, nil
}
