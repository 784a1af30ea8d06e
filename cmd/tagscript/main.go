// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Tagscript renders template files from the command line.
//
// Usage:
//
//	tagscript render template.txt --context context.yaml --locale pt-BR
//	tagscript validate template.txt
//	tagscript watch template.txt --context context.yaml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/documotor/tagscript"
	"github.com/documotor/tagscript/data"
)

var (
	contextFile string
	locale      string
	output      string
)

func main() {
	root := &cobra.Command{
		Use:           "tagscript",
		Short:         "Render document templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&contextFile, "context", "c", "", "YAML file with the evaluation context")
	root.PersistentFlags().StringVarP(&locale, "locale", "l", "", "locale of the render, as pt-BR")
	root.AddCommand(renderCmd(), validateCmd(), watchCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tagscript:", err)
		os.Exit(1)
	}
}

func newEngine() *tagscript.Engine {
	return tagscript.New(tagscript.Options{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
}

// loadContext reads the evaluation context from the --context file, or
// returns an empty context if the flag is not set.
func loadContext() (data.Context, error) {
	if contextFile == "" {
		return data.Context{}, nil
	}
	src, err := os.ReadFile(contextFile)
	if err != nil {
		return nil, err
	}
	var ctx map[string]interface{}
	if err := yaml.Unmarshal(src, &ctx); err != nil {
		return nil, fmt.Errorf("%s: %s", contextFile, err)
	}
	return ctx, nil
}

func render(templateFile string) (string, error) {
	src, err := os.ReadFile(templateFile)
	if err != nil {
		return "", err
	}
	ctx, err := loadContext()
	if err != nil {
		return "", err
	}
	return newEngine().ProcessString(string(src), ctx, locale)
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render template",
		Short: "Render a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := render(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Print(out)
				return nil
			}
			return os.WriteFile(output, []byte(out), 0644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the render to a file instead of stdout")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate template",
		Short: "Check the syntax of a template file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			v := tagscript.ValidateTags(string(src))
			for _, tag := range v.Tags {
				fmt.Println(tag)
			}
			if !v.Valid {
				for _, e := range v.Errors {
					fmt.Fprintln(os.Stderr, e)
				}
				return fmt.Errorf("%s is not valid", args[0])
			}
			fmt.Fprintf(os.Stderr, "%s is valid, %d tags\n", args[0], len(v.Tags))
			return nil
		},
	}
}
