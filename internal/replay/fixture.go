package replay

// #region imports
import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/danielpatrickdp/faqforge/internal/faq"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for an evaluator replay fixture:
// recorded candidates with the level and scenario each is expected to
// produce. Used to pin scoring behavior across changes.
type Fixture struct {
	Description string `json:"description"`
	Cases       []Case `json:"cases"`
}

// Case is one recorded candidate plus expectations.
type Case struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"prompt"`
	Candidate faq.FAQ  `json:"candidate"`
	Expect    Expected `json:"expect"`
}

// Expected captures the assertions for a case. MinScore/MaxScore of zero
// means unbounded on that side.
type Expected struct {
	Level    string  `json:"level"`
	Scenario string  `json:"scenario"`
	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`
}

// #endregion fixture-types

// #region load

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, errors.Wrapf(err, "read fixture %s", path)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, errors.Wrapf(err, "parse fixture %s", path)
	}
	if len(f.Cases) == 0 {
		return Fixture{}, errors.Errorf("fixture %s has no cases", path)
	}
	for i, c := range f.Cases {
		if c.ID == "" {
			return Fixture{}, errors.Errorf("fixture %s: case %d missing id", path, i)
		}
	}
	return f, nil
}

// #endregion load
