// Copyright (c) 2026 Documotor Software Ltda. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package data builds the evaluation context templates resolve against and
// normalizes the payloads of the trigger sources.
package data

// Context is the addressable data of a render.
type Context map[string]interface{}

// StepOutput is the output of a prior workflow step.
type StepOutput struct {
	// ID identifies the step in the workflow.
	ID string
	// Alias is an optional human name for the step.
	Alias string
	// Output is the output payload of the step.
	Output map[string]interface{}
}

// BuildInput is the input of Build.
type BuildInput struct {
	// Trigger is the raw payload of the trigger.
	Trigger map[string]interface{}
	// Source selects the normalizer applied to the trigger payload, as
	// "crm" or "webhook".
	Source string
	// Steps are the outputs of the prior steps, in workflow order.
	Steps []StepOutput
	// Workflow is the workflow and execution metadata.
	Workflow map[string]interface{}
	// Env are the environment variables visible to templates.
	Env map[string]string
	// Locale is the locale of the render, as "pt-BR".
	Locale string
	// Globals are the caller supplied global variables.
	Globals map[string]interface{}
}

// Build assembles the evaluation context from the trigger payload, the prior
// step outputs and the workflow metadata. The normalized trigger data is
// addressable both nested under "trigger" and flattened onto the context
// root. Step outputs are keyed by step identifier and, when present, by
// alias.
func Build(in BuildInput) Context {
	trigger := NormalizerFor(in.Source).Normalize(in.Trigger)
	ctx := Context{}
	for k, v := range trigger {
		ctx[k] = v
	}
	ctx["trigger"] = trigger
	step := map[string]interface{}{}
	for _, s := range in.Steps {
		var out interface{} = s.Output
		step[s.ID] = out
		if s.Alias != "" {
			step[s.Alias] = out
		}
	}
	ctx["step"] = step
	if in.Workflow != nil {
		ctx["flow"] = in.Workflow
	}
	env := map[string]interface{}{}
	for k, v := range in.Env {
		env[k] = v
	}
	ctx["env"] = env
	globals := map[string]interface{}{}
	for k, v := range in.Workflow {
		globals[k] = v
	}
	for k, v := range in.Globals {
		globals[k] = v
	}
	ctx["_globals"] = globals
	if in.Locale != "" {
		ctx["locale"] = in.Locale
	}
	return ctx
}

// mergeable are the sub maps Merge unions instead of replacing.
var mergeable = map[string]bool{"step": true, "_globals": true, "env": true}

// Merge returns a new context with the entries of other applied over c. The
// "step", "_globals" and "env" sub maps are unioned, entry by entry, so an
// incremental step output update does not drop the outputs already there.
// Neither c nor other is modified.
func (c Context) Merge(other Context) Context {
	out := make(Context, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		if mergeable[k] {
			vm, ok := v.(map[string]interface{})
			cm, ok2 := out[k].(map[string]interface{})
			if ok && ok2 {
				merged := make(map[string]interface{}, len(cm)+len(vm))
				for mk, mv := range cm {
					merged[mk] = mv
				}
				for mk, mv := range vm {
					merged[mk] = mv
				}
				out[k] = merged
				continue
			}
		}
		out[k] = v
	}
	return out
}
