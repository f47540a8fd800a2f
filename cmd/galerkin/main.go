// Package main provides the Galerkin CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/galerkin-ml/galerkin/backend/cpu"
	"github.com/galerkin-ml/galerkin/internal/registry"
	"github.com/galerkin-ml/galerkin/operator"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("Galerkin %s\n", version)
	case "describe":
		err = describe(os.Args[2:])
	case "models":
		err = models(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Galerkin - Neural Operators for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version     Show version")
	fmt.Println("  describe    Print an architecture summary and parameter counts")
	fmt.Println("  models      Manage the model registry (list, show, register, delete)")
}

func describe(args []string) error {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	arch := fs.String("arch", "fno", "architecture: fno or deeponet")
	channels := fs.String("channels", "2,64,64,128,1", "fno channel sequence")
	modes := fs.String("modes", "16", "retained modes per spatial axis")
	activation := fs.String("activation", "gelu", "activation for hidden layers")
	permuted := fs.Bool("permuted", false, "use the (spatial..., channels, batch) layout")
	branch := fs.String("branch", "64,32,16", "deeponet branch widths")
	trunk := fs.String("trunk", "1,8,16", "deeponet trunk widths")
	seed := fs.Int64("seed", 42, "parameter initialization seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	act, err := operator.ParseActivation(*activation)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(*seed))
	b := cpu.New()

	switch *arch {
	case "fno":
		chs, err := parseInts(*channels)
		if err != nil {
			return fmt.Errorf("channels: %w", err)
		}
		ms, err := parseInts(*modes)
		if err != nil {
			return fmt.Errorf("modes: %w", err)
		}
		fno, err := operator.NewFNO(b, operator.FNOConfig{
			Channels:   chs,
			Modes:      ms,
			Activation: act,
			Permuted:   *permuted,
		})
		if err != nil {
			return err
		}
		params, _ := fno.Init(rng)

		fmt.Println("FourierNeuralOperator")
		fmt.Printf("  channels:   %v\n", chs)
		fmt.Printf("  modes:      %v\n", ms)
		fmt.Printf("  activation: %s\n", act)
		fmt.Printf("  parameters: %d\n", params.NumParams())
		for _, stage := range []string{"lifting", "mapping", "project"} {
			fmt.Printf("    %-8s  %d\n", stage, params.Child(stage).NumParams())
		}
	case "deeponet":
		bw, err := parseInts(*branch)
		if err != nil {
			return fmt.Errorf("branch: %w", err)
		}
		tw, err := parseInts(*trunk)
		if err != nil {
			return fmt.Errorf("trunk: %w", err)
		}
		don, err := operator.NewDeepONetFromConfig(b, operator.DeepONetConfig{
			BranchWidths:     bw,
			TrunkWidths:      tw,
			BranchActivation: act,
			TrunkActivation:  act,
		})
		if err != nil {
			return err
		}
		params, _ := don.Init(rng)

		fmt.Println("DeepONet")
		fmt.Printf("  branch:     %v\n", bw)
		fmt.Printf("  trunk:      %v\n", tw)
		fmt.Printf("  latent:     %d\n", bw[len(bw)-1])
		fmt.Printf("  activation: %s\n", act)
		fmt.Printf("  parameters: %d\n", params.NumParams())
		for _, sub := range []string{"branch", "trunk"} {
			fmt.Printf("    %-6s  %d\n", sub, params.Child(sub).NumParams())
		}
	default:
		return fmt.Errorf("unknown architecture %q (want fno or deeponet)", *arch)
	}
	return nil
}

func models(args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	db := fs.String("db", "galerkin.db", "registry database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("models: missing subcommand (list, show, register, delete)")
	}

	ctx := context.Background()
	store := registry.NewSQLiteStore(*db)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	switch rest[0] {
	case "list":
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no models registered")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-24s %-24s %10d params  %s\n", e.Name, e.ModelType, e.NumParams, e.Path)
		}
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("models show: missing model name")
		}
		entry, ok, err := store.Get(ctx, rest[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("model %q is not registered", rest[1])
		}
		fmt.Printf("name:       %s\n", entry.Name)
		fmt.Printf("type:       %s\n", entry.ModelType)
		fmt.Printf("snapshot:   %s\n", entry.Path)
		fmt.Printf("parameters: %d\n", entry.NumParams)
		fmt.Printf("created:    %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("updated:    %s\n", entry.UpdatedAt.Format("2006-01-02 15:04:05"))
		for k, v := range entry.Metadata {
			fmt.Printf("  %s: %s\n", k, v)
		}
	case "register":
		return register(ctx, store, rest[1:])
	case "delete":
		if len(rest) < 2 {
			return fmt.Errorf("models delete: missing model name")
		}
		if err := store.Delete(ctx, rest[1]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", rest[1])
	default:
		return fmt.Errorf("models: unknown subcommand %q", rest[0])
	}
	return nil
}

// register reads the snapshot to recover the model type and parameter count
// rather than trusting flags.
func register(ctx context.Context, store registry.Store, args []string) error {
	fs := flag.NewFlagSet("models register", flag.ExitOnError)
	name := fs.String("name", "", "model name")
	snapshot := fs.String("snapshot", "", "path to the .gkn snapshot")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *snapshot == "" {
		return fmt.Errorf("models register: -name and -snapshot are required")
	}

	params, header, err := operator.LoadRecord(*snapshot)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	entry := registry.Entry{
		Name:      *name,
		ModelType: header.ModelType,
		Path:      *snapshot,
		NumParams: params.NumParams(),
		Metadata:  header.Metadata,
	}
	if err := store.Put(ctx, entry); err != nil {
		return err
	}
	fmt.Printf("registered %s (%s, %d parameters)\n", entry.Name, entry.ModelType, entry.NumParams)
	return nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}
