package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/floodlab/riskdispatch/core/model"
)

// zoneDef is the file representation of a zone.
type zoneDef struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	RiverProximity  float64 `json:"river_proximity" yaml:"river_proximity"`
	ElevationRisk   float64 `json:"elevation_risk" yaml:"elevation_risk"`
	PopDensity      float64 `json:"pop_density" yaml:"pop_density"`
	CritInfraScore  float64 `json:"crit_infra_score" yaml:"crit_infra_score"`
	HospitalCount   int     `json:"hospital_count" yaml:"hospital_count"`
	IsCriticalInfra bool    `json:"is_critical_infra" yaml:"is_critical_infra"`
}

type registryDef struct {
	Zones []zoneDef `json:"zones" yaml:"zones"`
}

// Load reads a zone registry snapshot from a JSON or YAML file. An empty
// format selects by file extension. Out-of-range attributes and duplicate
// zone ids fail the load.
func Load(path, format string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		case ".json":
			format = "json"
		default:
			return nil, fmt.Errorf("unsupported registry format: %s", filepath.Ext(path))
		}
	}
	reg, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

// Decode reads a zone registry snapshot from r in the given format.
func Decode(r io.Reader, format string) (*model.Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data, format)
}

func decode(data []byte, format string) (*model.Registry, error) {
	var def registryDef
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &def)
	case "json":
		err = json.Unmarshal(data, &def)
	default:
		return nil, fmt.Errorf("unsupported registry format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	if len(def.Zones) == 0 {
		return nil, fmt.Errorf("registry defines no zones")
	}
	return model.NewRegistry(toModel(def.Zones))
}

func toModel(defs []zoneDef) []model.Zone {
	zones := make([]model.Zone, len(defs))
	for i, d := range defs {
		zones[i] = model.Zone{
			ID:              d.ID,
			Name:            d.Name,
			RiverProximity:  d.RiverProximity,
			ElevationRisk:   d.ElevationRisk,
			PopDensity:      d.PopDensity,
			CritInfraScore:  d.CritInfraScore,
			HospitalCount:   d.HospitalCount,
			IsCriticalInfra: d.IsCriticalInfra,
		}
	}
	return zones
}
