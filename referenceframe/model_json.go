package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"

	"go.viam.com/dhkin/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string          `json:"name"`
	KinParamType string          `json:"kinematic_param_type,omitempty"`
	DHParams     []DHParamConfig `json:"dhParams,omitempty"`
}

// DHParamConfig is one link of a DH kinematics file. Alpha is in radians, Min and Max in
// degrees. A link with Min == Max == 0 has no joint limit.
type DHParamConfig struct {
	ID     string  `json:"id"`
	Parent string  `json:"parent"`
	A      float64 `json:"a"`
	D      float64 `json:"d"`
	Alpha  float64 `json:"alpha"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
}

func (cfg DHParamConfig) limit() (Limit, error) {
	if cfg.Min == 0 && cfg.Max == 0 {
		return Unlimited, nil
	}
	if cfg.Min > cfg.Max {
		return Limit{}, errors.Errorf("link %q has min %.2f greater than max %.2f", cfg.ID, cfg.Min, cfg.Max)
	}
	return Limit{Min: utils.DegToRad(cfg.Min), Max: utils.DegToRad(cfg.Max)}, nil
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the arm has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if cfg.KinParamType != "DH" {
		return nil, NewUnsupportedParamTypeError(cfg.KinParamType)
	}
	if len(cfg.DHParams) == 0 {
		return nil, ErrNoModelInformation
	}

	byID := map[string]DHParamConfig{}
	// Make a map of parents for each element for post-process, to allow items to be processed out of order
	parentMap := map[string]string{}
	for _, dh := range cfg.DHParams {
		if dh.ID == World {
			return nil, NewReservedWordError("link", World)
		}
		if _, ok := byID[dh.ID]; ok {
			return nil, NewDuplicateLinkError(dh.ID)
		}
		byID[dh.ID] = dh
		parentMap[dh.ID] = dh.Parent
	}

	order, err := sortLinks(byID, parentMap)
	if err != nil {
		return nil, err
	}

	links := make(JointParameters, 0, len(order))
	limits := make([]Limit, 0, len(order))
	for _, dh := range order {
		lim, err := dh.limit()
		if err != nil {
			return nil, err
		}
		links = append(links, DHParam{D: dh.D, A: dh.A, Alpha: dh.Alpha})
		limits = append(limits, lim)
	}
	ids := make([]string, 0, len(order))
	for _, dh := range order {
		ids = append(ids, dh.ID)
	}
	return NewModel(modelName, links, limits, ids)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// Create an ordered list of links given a mapping of child to parent links. The chain must
// end at World.
func sortLinks(links map[string]DHParamConfig, parents map[string]string) ([]DHParamConfig, error) {
	// find the end effector first - determine which links have no children
	ees := map[string]string{}
	for child, parent := range parents {
		ees[child] = parent
	}
	for _, parent := range parents {
		delete(ees, parent)
	}
	// ensure there is only one end effector
	if len(ees) != 1 {
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, ees)
	}

	// start the search from the end effector
	curr := maps.Keys(ees)[0]
	seen := map[string]bool{curr: true}
	ordered := []DHParamConfig{}
	for {
		link, ok := links[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		ordered = append(ordered, link)

		parent := parents[curr]
		if parent == World {
			break
		}
		// make sure it wasn't seen, mark it seen, then walk up
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true
		curr = parent
	}
	if len(ordered) != len(links) {
		return nil, errors.Errorf("links do not form a single chain rooted at %q", World)
	}

	// the links are in reverse order, so we reverse the list.
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}
