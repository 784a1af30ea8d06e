// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transform

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

func init() {
	builtin = append(builtin,
		Transform{Name: "markdown", Aliases: []string{"md"}, Fn: markdown},
	)
}

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// markdown converts a Markdown value to HTML.
func markdown(v interface{}, params []string, env *Env) (interface{}, error) {
	var b strings.Builder
	if err := markdownConverter.Convert([]byte(str(v)), &b); err != nil {
		return nil, err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
