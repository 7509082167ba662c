package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grantmcd/prisoners-royale/internal/author"
	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

func runCompile(cmd *cobra.Command, args []string) error {
	g, err := models.ReadGraphFile(args[0])
	if err != nil {
		return err
	}
	s, err := compiler.Compile(compiler.DefaultName, *g)
	if err != nil {
		printProblems(cmd, err)
		return err
	}

	out := cmd.OutOrStdout()
	opening := s.Explain(nil)
	fmt.Fprintf(out, "valid: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
	fmt.Fprintf(out, "opening move: %s via %s\n", opening.Move, strings.Join(opening.Path, " -> "))
	if opening.Fallback {
		fmt.Fprintf(out, "warning: the opening walk reaches no MOVE node and falls back to %s\n", compiler.DefaultMove)
	}
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	g, err := models.ReadGraphFile(args[0])
	if err != nil {
		return err
	}
	name := saveName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	if err := checkSaveName(name); err != nil {
		return err
	}
	if _, err := compiler.Compile(name, *g); err != nil {
		printProblems(cmd, err)
		return err
	}

	s := &models.SavedStrategy{Name: name, Graph: *g}
	if err := models.NewLibrary(cfg.SaveDir).Save(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s) to %s\n", s.Name, s.ID, cfg.SaveDir)
	return nil
}

func runAuthor(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireGemini(); err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := author.NewAuthor(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("creating Gemini client: %w", err)
	}
	defer a.Close()

	description := strings.Join(args, " ")
	logger.Debug("authoring strategy", "description", description)
	s, err := a.Generate(ctx, description)
	if err != nil {
		return err
	}
	if s.Description == "" {
		s.Description = description
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, string(data))
	if noSave {
		return nil
	}
	if err := checkSaveName(s.Name); err != nil {
		return err
	}
	if err := models.NewLibrary(cfg.SaveDir).Save(s); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s (%s) to %s\n", s.Name, s.ID, cfg.SaveDir)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	resolver := newResolver()
	saved, err := resolver.Library().List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Built-in:")
	for _, name := range resolver.Registry().Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintln(out, "Saved:")
	for _, name := range saved {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}

// checkSaveName rejects names the library cannot hold or that a built-in would shadow.
func checkSaveName(name string) error {
	if !models.ValidName(name) {
		return fmt.Errorf("invalid strategy name %q: use letters, digits, '-' and '_'", name)
	}
	if _, err := game.NewRegistry(nil).Lookup(name); err == nil {
		return fmt.Errorf("%q is a built-in strategy", name)
	}
	return nil
}

func printProblems(cmd *cobra.Command, err error) {
	var sve *compiler.StructuralValidationError
	if !errors.As(err, &sve) {
		return
	}
	for _, p := range sve.Problems {
		fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
	}
}
