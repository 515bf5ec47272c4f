package config

import (
	"github.com/pkg/errors"
)

// Recipe describes one conversion run. Every scene specific name lives here,
// nothing in the pipeline is hard coded.
type Recipe struct {
	Bakes     []Bake    `yaml:"bake" toml:"bake"`
	Lightmaps Lightmaps `yaml:"lightmaps" toml:"lightmaps"`
	Materials Materials `yaml:"materials" toml:"materials"`
	Lamps     Lamps     `yaml:"lamps" toml:"lamps"`
	Prune     Prune     `yaml:"prune" toml:"prune"`
}

type Bake struct {
	Node      string `yaml:"node" toml:"node"`
	Mesh      string `yaml:"mesh" toml:"mesh"`
	Frame     string `yaml:"frame" toml:"frame"`
	Local     bool   `yaml:"local" toml:"local"`
	Positions string `yaml:"positions" toml:"positions"`
	Indices   string `yaml:"indices" toml:"indices"`
}

type Lightmaps struct {
	// Nodes maps a node to the lightmap texture its meshes are drawn with.
	Nodes     map[string]string `yaml:"nodes" toml:"nodes"`
	ImageDir  string            `yaml:"image_dir" toml:"image_dir"`
	ImageExt  string            `yaml:"image_ext" toml:"image_ext"`
	Sampler   string            `yaml:"sampler" toml:"sampler"`
	Technique string            `yaml:"technique" toml:"technique"`
	Value     string            `yaml:"value" toml:"value"`
	// TexcoordFrom is renamed to TexcoordTo on lightmapped primitives.
	TexcoordFrom string `yaml:"texcoord_from" toml:"texcoord_from"`
	TexcoordTo   string `yaml:"texcoord_to" toml:"texcoord_to"`
}

type Materials struct {
	StripValues []string `yaml:"strip_values" toml:"strip_values"`
	// Shininess names the material value rescaled from exporter range.
	Shininess string `yaml:"shininess" toml:"shininess"`
	// Technique is set on materials of meshes without a lightmap.
	Technique            string `yaml:"technique" toml:"technique"`
	KeepTexcoords        bool   `yaml:"keep_texcoords" toml:"keep_texcoords"`
	KeepUnused           bool   `yaml:"keep_unused" toml:"keep_unused"`
	KeepUnmaterialedPrim bool   `yaml:"keep_unmaterialed_primitives" toml:"keep_unmaterialed_primitives"`
}

type Lamps struct {
	On  []string `yaml:"on" toml:"on"`
	Off []string `yaml:"off" toml:"off"`
}

type Prune struct {
	Enabled bool     `yaml:"enabled" toml:"enabled"`
	Keep    []string `yaml:"keep" toml:"keep"`
	Policy  string   `yaml:"policy" toml:"policy"`
}

// Default is the recipe used without a recipe file. Its values follow the
// lighting model the converted scenes are rendered with.
func Default() *Recipe {
	return &Recipe{
		Lightmaps: Lightmaps{
			ImageDir:     "images",
			ImageExt:     ".png",
			Sampler:      "lightmap_sampler",
			Technique:    "forward_diffusemap",
			Value:        "lightmap",
			TexcoordFrom: "TEXCOORD_UVMap",
			TexcoordTo:   "TEXCOORD_0",
		},
		Materials: Materials{
			StripValues: []string{"specular", "emission", "ambient", "uv_layers", "textures"},
			Shininess:   "shininess",
			Technique:   "deferred_dynamic_lights",
		},
		Prune: Prune{
			Policy: "restrictive",
		},
	}
}

func (r *Recipe) Validate() error {
	for i, b := range r.Bakes {
		if b.Node == "" {
			return errors.Errorf("bake #%d: node is required", i)
		}
		if b.Positions == "" || b.Indices == "" {
			return errors.Errorf("bake #%d (%q): positions and indices are required", i, b.Node)
		}
		if b.Positions == b.Indices {
			return errors.Errorf("bake #%d (%q): positions and indices must differ", i, b.Node)
		}
	}
	switch r.Prune.Policy {
	case "", "restrictive", "reachability":
	default:
		return errors.Errorf("prune: unknown policy %q", r.Prune.Policy)
	}
	if (r.Lightmaps.TexcoordFrom == "") != (r.Lightmaps.TexcoordTo == "") {
		return errors.New("lightmaps: texcoord_from and texcoord_to go together")
	}
	return nil
}
