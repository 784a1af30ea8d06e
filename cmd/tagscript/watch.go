// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch template",
		Short: "Render a template file again on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateFile := args[0]
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			// Watch the directory: editors often replace the file
			// on save, which drops a watch on the file itself.
			if err := watcher.Add(filepath.Dir(templateFile)); err != nil {
				return err
			}
			if contextFile != "" {
				if err := watcher.Add(filepath.Dir(contextFile)); err != nil {
					return err
				}
			}
			show(templateFile)
			watched := map[string]bool{
				filepath.Clean(templateFile): true,
			}
			if contextFile != "" {
				watched[filepath.Clean(contextFile)] = true
			}
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !watched[filepath.Clean(ev.Name)] {
						continue
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					show(templateFile)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintln(os.Stderr, "tagscript:", err)
				}
			}
		},
	}
}

func show(templateFile string) {
	out, err := render(templateFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tagscript:", err)
		return
	}
	fmt.Println("----")
	fmt.Print(out)
	if out != "" && out[len(out)-1] != '\n' {
		fmt.Println()
	}
}
