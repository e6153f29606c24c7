// Program palletgen generates typed Go storage bindings from a chain
// metadata document.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mds/mapset"
	"github.com/kr/pretty"
	"github.com/substrate-tools/palletgen"
	"github.com/substrate-tools/palletgen/internal/bindgen"
)

var generateArgs struct {
	OutDir      string `flag:"out,default=.,Directory to write generated files into"`
	PackageName string `flag:"package,default=chain,Package name of the generated files"`
}

var dumpArgs struct {
	Full bool `flag:"full,Pretty-print the parsed document instead of a summary"`
}

func main() {
	root := &command.C{
		Name:  filepath.Base(os.Args[0]),
		Usage: "command args...",
		Help:  "Generate typed storage bindings from chain metadata.",
		Commands: []*command.C{
			{
				Name:  "generate",
				Usage: "generate metadata.json",
				Help: `Generate storage bindings from a metadata document.

Writes one types.go with shared type declarations, plus one file per
pallet with its storage accessors and constants, into the output
directory.`,
				SetFlags: command.Flags(flax.MustBind, &generateArgs),
				Run:      command.Adapt(runGenerate),
			},
			{
				Name:     "dump",
				Usage:    "dump metadata.json [pallet...]",
				Help:     "Show the resolved storage entries and constants of a metadata document.",
				SetFlags: command.Flags(flax.MustBind, &dumpArgs),
				Run:      runDump,
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}
	command.RunOrFail(root.NewEnv(nil), os.Args[1:])
}

func loadGraph(path string) (*palletgen.Graph, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := palletgen.ParseDocument(bs)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	g, err := palletgen.Load(doc)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, nil
}

func writeGenerated(dir, name, text string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Println("wrote", path)
	return nil
}

func runGenerate(env *command.Env, path string) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}

	types, err := bindgen.Types(g, generateArgs.PackageName)
	if err != nil {
		return fmt.Errorf("rendering types: %w", err)
	}
	if err := writeGenerated(generateArgs.OutDir, "types.go", types); err != nil {
		return err
	}
	for _, p := range g.Pallets {
		code, err := bindgen.Pallet(g, p, generateArgs.PackageName)
		if err != nil {
			return fmt.Errorf("rendering pallet %s: %w", p.Name, err)
		}
		name := strings.ToLower(p.Name) + ".go"
		if err := writeGenerated(generateArgs.OutDir, name, code); err != nil {
			return err
		}
	}
	return nil
}

func runDump(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("dump requires a metadata document")
	}
	g, err := loadGraph(env.Args[0])
	if err != nil {
		return err
	}
	want := mapset.New(env.Args[1:]...)

	if dumpArgs.Full {
		bs, err := os.ReadFile(env.Args[0])
		if err != nil {
			return err
		}
		doc, err := palletgen.ParseDocument(bs)
		if err != nil {
			return err
		}
		fmt.Printf("%# v\n", pretty.Formatter(doc))
		return nil
	}

	for _, p := range g.Pallets {
		if !want.IsEmpty() && !want.Has(p.Name) {
			continue
		}
		fmt.Println(p.Name)
		for _, st := range p.Storage {
			var keys []string
			for _, k := range st.Keys {
				keys = append(keys, fmt.Sprintf("%s(%s)", k.Hasher, k.Type.GoType()))
			}
			sig := st.Value.GoType()
			if len(keys) > 0 {
				sig = "[" + strings.Join(keys, ", ") + "] -> " + sig
			}
			if st.Optional {
				fmt.Printf("  %s: %s (optional)\n", st.Name, sig)
			} else {
				fmt.Printf("  %s: %s (default %s)\n", st.Name, sig, st.DefaultLiteral.Go())
			}
		}
		for _, c := range p.Constants {
			fmt.Printf("  const %s %s = %s\n", c.Name, c.Type.GoType(), c.Literal.Go())
		}
	}
	return nil
}
