package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/gltf_bake/config"
	"github.com/mogaika/gltf_bake/document"
	"github.com/mogaika/gltf_bake/recipe"
	"github.com/mogaika/gltf_bake/utils"
)

var (
	recipePath string
	bakeSpecs  []string
	doPrune    bool
	keepIDs    []string
	policy     string
	watch      bool
	dump       bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gltf_bake <in.gltf> <out.gltf>",
	Short: "Bake node transforms into mesh data and clean up a glTF scene",
	Long: `gltf_bake applies a recipe to a glTF scene: collision meshes are baked into
world space and detached from the graph, lightmaps and materials are rewritten
for the renderer, lamps are switched and unreferenced buffers are pruned.
The output file is only written when every step succeeded.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.SetVerbose(verbose)
		in, out := args[0], args[1]
		if in == out {
			return errors.New("input and output must be different files")
		}

		// fail on a broken recipe before touching anything, even in watch mode
		if _, err := loadRecipe(); err != nil {
			return err
		}

		if watch {
			return watchAndConvert(cmd.Context(), in, out, recipePath)
		}
		return convert(in, out)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&recipePath, "recipe", "r", "", "recipe file (.yaml, .yml or .toml)")
	f.StringArrayVar(&bakeSpecs, "bake", nil, "bake a node mesh, as node:positions:indices (repeatable)")
	f.BoolVar(&doPrune, "prune", false, "prune unreferenced accessors, buffer views and buffers")
	f.StringArrayVar(&keepIDs, "keep", nil, "accessor to keep when pruning (repeatable)")
	f.StringVar(&policy, "policy", "", "prune policy: restrictive or reachability")
	f.BoolVarP(&watch, "watch", "w", false, "convert again whenever the input or the recipe changes")
	f.BoolVar(&dump, "dump", false, "print the run report")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadRecipe reads the recipe file, if any, and layers the command line on top.
func loadRecipe() (*config.Recipe, error) {
	r := config.Default()
	if recipePath != "" {
		var err error
		if r, err = config.Load(recipePath); err != nil {
			return nil, err
		}
	}

	for _, spec := range bakeSpecs {
		b, err := parseBake(spec)
		if err != nil {
			return nil, err
		}
		r.Bakes = append(r.Bakes, b)
	}
	if doPrune {
		r.Prune.Enabled = true
	}
	r.Prune.Keep = append(r.Prune.Keep, keepIDs...)
	if policy != "" {
		r.Prune.Policy = policy
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func parseBake(spec string) (config.Bake, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return config.Bake{}, errors.Errorf("bake %q: expected node:positions:indices", spec)
	}
	return config.Bake{Node: parts[0], Positions: parts[1], Indices: parts[2]}, nil
}

func convert(in, out string) error {
	r, err := loadRecipe()
	if err != nil {
		return err
	}
	utils.LogDump("recipe", r)

	doc, err := document.Load(in)
	if err != nil {
		return err
	}

	rep, err := recipe.Run(doc, r)
	if err != nil {
		return errors.Wrapf(err, "failed to convert %q", in)
	}
	if dump {
		utils.Dump(os.Stdout, rep)
	}

	if err := document.Save(out, doc); err != nil {
		return err
	}

	utils.Log().Info("converted", "in", in, "out", out, "bakes", len(rep.Bakes),
		"lightmapped", rep.Lightmapped, "materials", len(doc.Materials))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		utils.Log().Error(err.Error())
		os.Exit(1)
	}
}
